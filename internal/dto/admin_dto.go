package dto

import "time"

// QuestionCreateDTO is one authored question in an admin batch.
type QuestionCreateDTO struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2,max=6"`
	Difficulty    string   `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Explanation   string   `json:"explanation"`
}

// QuestionBatchCreateDTO is for admins authoring a module's pool in bulk.
type QuestionBatchCreateDTO struct {
	Questions []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// GenerateQuestionsDTO asks the LLM to draft questions from module content.
type GenerateQuestionsDTO struct {
	SourceText string `json:"source_text" binding:"required"`
	Count      int    `json:"count" binding:"required,min=1,max=20"`
}

// QuestionAdminDTO is the authoring view of a question, correct answer
// included. Never returned on candidate-facing routes.
type QuestionAdminDTO struct {
	ID            uint      `json:"id"`
	ModuleID      uint      `json:"module_id"`
	Text          string    `json:"text"`
	Options       []string  `json:"options"`
	Difficulty    string    `json:"difficulty"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
