package progression

import (
	"errors"
	"fmt"
	"strings"

	"lms/errs"
)

var (
	// ErrAlreadyCompleted is benign: callers treat it as a successful no-op.
	ErrAlreadyCompleted = errors.New("already completed")
	// ErrAttemptsExhausted is terminal for the quiz until an administrator intervenes.
	ErrAttemptsExhausted = errors.New("no quiz attempts remaining")
	ErrNotEligible       = errors.New("course is not eligible for completion")
	ErrNotQuiz           = errors.New("content is not a quiz")
	ErrNoActiveAttempt   = errors.New("no active quiz attempt")
	ErrAttemptFinalized  = errors.New("quiz attempt already submitted")
	ErrInvalidAnswer     = errors.New("invalid answer")
	// ErrContentUnavailable hides unpublished content from learners.
	ErrContentUnavailable = errors.New("content is not available")

	ErrNotFound         = errs.ErrNotFound
	ErrStoreUnavailable = errs.ErrStoreUnavailable
)

const (
	ReasonAlreadyCompleted = "This content is already completed."
	ReasonQuizNotAttempted = "Submit the quiz at least once before marking it as done."
	ReasonNotAvailable     = "This content is not available yet."
)

// CompletionBlockedError carries a user-facing explanation.
type CompletionBlockedError struct {
	Reason string
}

func (e *CompletionBlockedError) Error() string {
	return "completion blocked: " + e.Reason
}

// PartialWriteError reports that some writes were persisted before a later step failed.
type PartialWriteError struct {
	Applied []string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partially applied (%s): %v", strings.Join(e.Applied, ", "), e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
