package quiz

import (
	"errors"
	"fmt"
)

// ErrDegenerate marks a quiz with no questions or zero total weight.
// Such a quiz can still be graded (percentage 0) but should be fixed.
var ErrDegenerate = errors.New("degenerate quiz")

// ErrInvalidAnswer marks answers that do not fit the quiz they target.
var ErrInvalidAnswer = errors.New("invalid answer")

// Validate checks the structural rules grading relies on.
func Validate(q *Quiz) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("quiz %s has no questions: %w", q.ID, ErrDegenerate)
	}
	if q.TotalPoints() == 0 {
		return fmt.Errorf("quiz %s has zero total weight: %w", q.ID, ErrDegenerate)
	}

	seen := make(map[string]bool)
	for _, question := range q.Questions {
		if seen[question.ID] {
			return fmt.Errorf("quiz %s: duplicate question id %q", q.ID, question.ID)
		}
		seen[question.ID] = true

		if !question.Type.Valid() {
			return fmt.Errorf("question %s: unknown type %q", question.ID, question.Type)
		}
		correct := len(question.CorrectOptionIDs())
		if correct == 0 {
			return fmt.Errorf("question %s: no correct option", question.ID)
		}
		if question.Type.SingleChoice() && correct > 1 {
			return fmt.Errorf("question %s: %s allows one correct option, got %d", question.ID, question.Type, correct)
		}
		if question.Type == TypeTrueFalse && len(question.Options) != 2 {
			return fmt.Errorf("question %s: TRUEFALSE needs exactly 2 options, got %d", question.ID, len(question.Options))
		}
	}
	return nil
}

// CheckAnswers verifies that answers reference questions and options that
// exist in q and respect the per-type selection limit.
func CheckAnswers(q *Quiz, answers []Answer) error {
	seen := make(map[string]bool)
	for _, a := range answers {
		question := q.Question(a.QuestionID)
		if question == nil {
			return fmt.Errorf("unknown question %q: %w", a.QuestionID, ErrInvalidAnswer)
		}
		if seen[a.QuestionID] {
			return fmt.Errorf("question %q answered twice: %w", a.QuestionID, ErrInvalidAnswer)
		}
		seen[a.QuestionID] = true

		if question.Type.SingleChoice() && len(a.SelectedOptionIDs) > 1 {
			return fmt.Errorf("question %q accepts one option, got %d: %w", a.QuestionID, len(a.SelectedOptionIDs), ErrInvalidAnswer)
		}
		for _, id := range a.SelectedOptionIDs {
			if !question.HasOption(id) {
				return fmt.Errorf("question %q has no option %q: %w", a.QuestionID, id, ErrInvalidAnswer)
			}
		}
	}
	return nil
}
