// Package grading scores a submitted attempt against a quiz definition.
//
// Grading needs AnswerOption.IsCorrect and therefore only runs where the full
// definition is available: the local service and the HTTP server. Client
// screens work with quiz.Preview and never import this package.
package grading

import (
	"github.com/abhisek/quizdeck/internal/quiz"
)

// Result is the outcome of grading one attempt.
type Result struct {
	Score      int
	MaxScore   int
	Percentage int
	Passed     bool
	// Correct reports, per question ID, whether it was scored fully correct.
	Correct map[string]bool
}

// Grade scores answers against q. A question earns its weight only when the
// selected set equals the set of correct options; unanswered questions earn
// nothing. A quiz with zero total weight scores 0%.
func Grade(q *quiz.Quiz, answers []quiz.Answer) Result {
	selected := make(map[string][]string, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedOptionIDs
	}

	res := Result{Correct: make(map[string]bool, len(q.Questions))}
	for _, question := range q.Questions {
		res.MaxScore += question.Weight

		ids, ok := selected[question.ID]
		correct := ok && sameSet(ids, question.CorrectOptionIDs())
		res.Correct[question.ID] = correct
		if correct {
			res.Score += question.Weight
		}
	}

	res.Percentage = Percentage(res.Score, res.MaxScore)
	res.Passed = res.Percentage >= q.PassingScorePercent
	return res
}

// Percentage returns 100*score/max rounded half up, or 0 when max is 0.
func Percentage(score, max int) int {
	if max <= 0 {
		return 0
	}
	return (200*score + max) / (2 * max)
}

// sameSet compares two ID lists as sets. Duplicates are ignored.
func sameSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, id := range a {
		as[id] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, id := range b {
		bs[id] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for id := range as {
		if _, ok := bs[id]; !ok {
			return false
		}
	}
	return true
}
