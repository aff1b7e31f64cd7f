package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusSubmitted  = "submitted"
)

// Attempt is one instance of a user taking a module's assessment. The question
// set is fixed at creation (Questions, ordered by Position) and Score, Correct
// and Passed are populated exactly once, at submission.
//
// At most one in_progress attempt may exist per (module_id, user_id); the
// store enforces this with a partial unique index (see database migration in
// cmd/main.go).
type Attempt struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	ModuleID    uint              `json:"module_id" gorm:"not null;index:idx_attempts_module_user"`
	UserID      uint              `json:"user_id" gorm:"not null;index:idx_attempts_module_user"`
	Status      string            `json:"status" gorm:"not null;default:'in_progress'"` // in_progress, submitted
	StartedAt   time.Time         `json:"started_at" gorm:"autoCreateTime"`
	SubmittedAt *time.Time        `json:"submitted_at,omitempty"`
	Total       int               `json:"total" gorm:"not null"`
	Correct     *int              `json:"correct,omitempty"`
	Score       *int              `json:"score,omitempty"` // rounded percentage, 0-100
	Passed      *bool             `json:"passed,omitempty"`
	Questions   []AttemptQuestion `json:"questions,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}

// IsSubmitted reports whether the attempt has reached its terminal state.
func (a *Attempt) IsSubmitted() bool {
	return a.Status == AttemptStatusSubmitted
}
