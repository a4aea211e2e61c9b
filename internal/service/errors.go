package service

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an unknown quiz, quiz revision, course or module.
var ErrNotFound = errors.New("not found")

// ValidationError indicates a submission that cannot be graded as sent.
// It wraps quiz.ErrInvalidAnswer when the answers do not fit the quiz.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ConflictError indicates a submission token that was already used for a
// different quiz or user.
type ConflictError struct {
	Token string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("submission token %s already used for another attempt", e.Token)
}

// UnavailableError indicates the backing store or server is unreachable.
// It is the only error category worth retrying.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quiz service unavailable: %v", e.Err)
	}
	return "quiz service unavailable"
}

func (e *UnavailableError) Unwrap() error { return e.Err }
