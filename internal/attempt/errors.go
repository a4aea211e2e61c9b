package attempt

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/service"
)

// ErrNotInProgress is returned when an action needs an in-progress attempt.
var ErrNotInProgress = errors.New("attempt is not in progress")

// ErrTimeExpired is returned when answers are changed after time ran out.
var ErrTimeExpired = errors.New("time limit reached")

// LoadError indicates the quiz could not be loaded. It is terminal for the
// attempt; the caller may start a new one.
type LoadError struct {
	QuizID string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load quiz %s: %v", e.QuizID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SubmissionError indicates grading failed. The attempt returns to
// InProgress with every answer kept and may be resubmitted.
type SubmissionError struct {
	QuizID string
	Token  string
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit quiz %s: %v", e.QuizID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// UserMessage turns err into a short message suitable for a learner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var conflict *service.ConflictError
	var verr *service.ValidationError
	var unavailable *service.UnavailableError
	var loadErr *LoadError
	var subErr *SubmissionError

	switch {
	case errors.As(err, &loadErr) && errors.Is(err, service.ErrNotFound):
		return "This quiz is no longer available."
	case errors.As(err, &subErr) && errors.Is(err, service.ErrNotFound):
		return "This quiz changed and your attempt can no longer be graded. Please go back and start again."
	case errors.Is(err, quiz.ErrInvalidAnswer):
		return "Some answers no longer match the quiz. Please review them and submit again."
	case errors.As(err, &verr):
		return "Your answers could not be accepted. Please try again."
	case errors.As(err, &conflict):
		return "This attempt was already submitted from another session."
	case errors.Is(err, context.DeadlineExceeded):
		return "The quiz server took too long to respond. Please try again."
	case errors.As(err, &unavailable):
		return "We couldn't reach the quiz server. Please check your connection and try again."
	case errors.As(err, &loadErr):
		return "We couldn't load this quiz. Please try again."
	case errors.As(err, &subErr):
		return "We couldn't submit your answers. They are saved here, so you can try again."
	}
	return "Something went wrong. Please try again."
}
