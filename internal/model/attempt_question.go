package model

import (
	"time"

	"gorm.io/gorm"
)

// AttemptQuestion pins one question into an attempt at a fixed position and
// carries the user's answer slot. Position defines the canonical answer order
// and never changes after the attempt is created. SelectedOption is nil until
// the user answers; writes are last-write-wins while the attempt is open.
type AttemptQuestion struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	AttemptID      uint           `json:"attempt_id" gorm:"not null;index;uniqueIndex:idx_attempt_question"`
	QuestionID     uint           `json:"question_id" gorm:"not null;index;uniqueIndex:idx_attempt_question"`
	Question       Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Position       int            `json:"position" gorm:"not null"`
	SelectedOption *string        `json:"selected_option,omitempty" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
