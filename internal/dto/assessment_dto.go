package dto

import "time"

// Stable machine-readable error kinds surfaced to callers.
const (
	KindModuleNotAssessable = "module_not_assessable"
	KindAttemptInProgress   = "attempt_in_progress"
	KindAttemptNotFound     = "attempt_not_found"
	KindAttemptNotOwned     = "attempt_not_owned"
	KindAlreadySubmitted    = "already_submitted"
	KindAlreadyPassed       = "already_passed"
	KindNothingToRetake     = "nothing_to_retake"
	KindUnknownQuestion     = "unknown_question"
	KindInvalidOption       = "invalid_option"
	KindStoreUnavailable    = "store_unavailable"
	KindBadRequest          = "bad_request"
	KindInternal            = "internal"
)

type ErrorResponse struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// AttemptQuestionDTO is a question as shown to the candidate: the correct
// answer and explanation are stripped here, at the service boundary, not by
// convention in a UI layer.
type AttemptQuestionDTO struct {
	ID         uint     `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

// StartAttemptRequestDTO identifies the caller. UserID comes from the request
// for now; it moves to the auth token once authentication is wired in front.
type StartAttemptRequestDTO struct {
	UserID uint `json:"user_id" binding:"required"`
}

type StartAttemptResponseDTO struct {
	AttemptID uint                 `json:"attempt_id"`
	ModuleID  uint                 `json:"module_id"`
	Questions []AttemptQuestionDTO `json:"questions"`
}

type RecordAnswerRequestDTO struct {
	UserID         uint   `json:"user_id" binding:"required"`
	QuestionID     uint   `json:"question_id" binding:"required"`
	SelectedOption string `json:"selected_option" binding:"required"`
}

// AnswerSubmissionDTO is one answer in a final submission. SelectedOption may
// be empty: an unanswered question is a valid, scored-as-incorrect outcome,
// not a validation error.
type AnswerSubmissionDTO struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	SelectedOption string `json:"selected_option"`
}

type SubmitAttemptRequestDTO struct {
	UserID  uint                  `json:"user_id" binding:"required"`
	Answers []AnswerSubmissionDTO `json:"answers" binding:"required,dive"`
}

type AttemptResultDTO struct {
	AttemptID uint `json:"attempt_id"`
	Score     int  `json:"score"`
	Correct   int  `json:"correct"`
	Total     int  `json:"total"`
	Passed    bool `json:"passed"`
}

type AvailabilityDTO struct {
	Available     bool `json:"available"`
	QuestionCount int  `json:"question_count"`
}

type AttemptSummaryDTO struct {
	ID          uint       `json:"id"`
	ModuleID    uint       `json:"module_id"`
	UserID      uint       `json:"user_id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Score       *int       `json:"score,omitempty"`
	Passed      *bool      `json:"passed,omitempty"`
}

// AttemptAnswerDTO is one question slot within an attempt detail view.
// CorrectAnswer, Explanation and Correct are only populated once the attempt
// has been submitted.
type AttemptAnswerDTO struct {
	QuestionID     uint     `json:"question_id"`
	Position       int      `json:"position"`
	Text           string   `json:"text"`
	Options        []string `json:"options"`
	Difficulty     string   `json:"difficulty"`
	SelectedOption *string  `json:"selected_option,omitempty"`
	Correct        *bool    `json:"correct,omitempty"`
	CorrectAnswer  *string  `json:"correct_answer,omitempty"`
	Explanation    *string  `json:"explanation,omitempty"`
}

type AttemptDetailDTO struct {
	ID          uint               `json:"id"`
	ModuleID    uint               `json:"module_id"`
	UserID      uint               `json:"user_id"`
	Status      string             `json:"status"`
	StartedAt   time.Time          `json:"started_at"`
	SubmittedAt *time.Time         `json:"submitted_at,omitempty"`
	Score       *int               `json:"score,omitempty"`
	Correct     *int               `json:"correct,omitempty"`
	Total       int                `json:"total"`
	Passed      *bool              `json:"passed,omitempty"`
	Questions   []AttemptAnswerDTO `json:"questions"`
}
