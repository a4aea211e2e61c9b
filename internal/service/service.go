// Package service defines the learner-facing quiz operations and provides the
// authoritative store-backed implementation.
package service

import (
	"context"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/history"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// Service is everything a learner client needs. Implementations are scoped
// to one user.
type Service interface {
	// Catalog lists every course with its modules and quizzes.
	Catalog(ctx context.Context) ([]course.Outline, error)

	// Preview returns the learner shape of a quiz, without correctness.
	Preview(ctx context.Context, quizID string) (*quiz.Preview, error)

	// Submit grades a submission and records the attempt. Submitting the
	// same token again returns the originally recorded attempt.
	Submit(ctx context.Context, sub quiz.Submission) (*quiz.Attempt, error)

	// Results returns the quiz and the user's attempt history on it.
	Results(ctx context.Context, quizID string) (*Results, error)

	// Modules lists a course's modules.
	Modules(ctx context.Context, courseID string) ([]course.Module, error)

	// Lessons lists a module's lessons.
	Lessons(ctx context.Context, moduleID string) ([]course.Lesson, error)
}

// Results is a quiz together with the user's history on it.
type Results struct {
	Quiz    quiz.Preview    `json:"quiz"`
	History history.History `json:"history"`
}
