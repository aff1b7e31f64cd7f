package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Question is one authored multiple-choice question in a module's pool.
// CorrectAnswer and Explanation are never serialized to callers; handlers
// expose them only through DTOs after an attempt has been submitted.
type Question struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	ModuleID      uint                        `json:"module_id" gorm:"not null;index"`
	Text          string                      `json:"text" gorm:"type:text;not null"`
	Options       datatypes.JSONSlice[string] `json:"options" gorm:"not null"`
	Difficulty    string                      `json:"difficulty" gorm:"not null;index"` // beginner, intermediate, advanced
	CorrectAnswer string                      `json:"-" gorm:"type:text;not null"`
	Explanation   string                      `json:"-" gorm:"type:text"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"-"`
}

// HasOption reports whether opt is one of the question's listed options.
// Comparison is exact; no case folding or trimming.
func (q *Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}
