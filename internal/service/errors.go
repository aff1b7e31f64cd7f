package service

import "errors"

// Client-error taxonomy for the assessment lifecycle. Controllers map these to
// HTTP statuses and stable machine-readable kinds; none are retried.
// Infrastructure failures are reported separately as ErrStoreUnavailable,
// which callers may retry: start and submit are safe to repeat thanks to the
// active-attempt unique index and the submit compare-and-set.
var (
	ErrInsufficientQuestions    = errors.New("question pool is below the minimum required size")
	ErrModuleNotAssessable      = errors.New("module does not have enough questions for an assessment")
	ErrAttemptAlreadyInProgress = errors.New("an attempt is already in progress for this module and user")
	ErrAttemptNotFound          = errors.New("attempt not found")
	ErrAttemptNotOwned          = errors.New("attempt does not belong to this user")
	ErrAlreadySubmitted         = errors.New("attempt has already been submitted")
	ErrAlreadyPassed            = errors.New("module assessment has already been passed")
	ErrNothingToRetake          = errors.New("no submitted attempt exists to retake")
	ErrUnknownQuestion          = errors.New("answer references a question that is not part of this attempt")
	ErrInvalidOption            = errors.New("selected option is not one of the question's options")

	ErrStoreUnavailable = errors.New("attempt store is temporarily unavailable")
)
