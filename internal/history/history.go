// Package history aggregates a learner's attempts on one quiz.
package history

import (
	"sort"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// History summarizes every attempt by one user on one quiz. It is derived
// from the attempts and recomputed on every append.
type History struct {
	QuizID         string         `json:"quiz_id"`
	UserID         string         `json:"user_id"`
	Attempts       []quiz.Attempt `json:"attempts"` // most recent first
	TotalAttempts  int            `json:"total_attempts"`
	BestPercentage int            `json:"best_percentage"`
	Passed         bool           `json:"passed"`
}

// Append returns h with a prepended. h is not modified.
func Append(h History, a quiz.Attempt) History {
	attempts := make([]quiz.Attempt, 0, len(h.Attempts)+1)
	attempts = append(attempts, a)
	attempts = append(attempts, h.Attempts...)

	best := h.BestPercentage
	if len(h.Attempts) == 0 || a.Percentage > best {
		best = a.Percentage
	}

	return History{
		QuizID:         h.QuizID,
		UserID:         h.UserID,
		Attempts:       attempts,
		TotalAttempts:  len(attempts),
		BestPercentage: best,
		Passed:         h.Passed || a.Passed,
	}
}

// Fold builds a History from attempts given in any order. The aggregate
// fields do not depend on the order; the attempt list is sorted most recent
// first for display.
func Fold(quizID, userID string, attempts []quiz.Attempt) History {
	h := History{QuizID: quizID, UserID: userID}
	for _, a := range attempts {
		h = Append(h, a)
	}
	sort.SliceStable(h.Attempts, func(i, j int) bool {
		return h.Attempts[i].SubmittedAt.After(h.Attempts[j].SubmittedAt)
	})
	return h
}

// Latest returns the most recent attempt, if any.
func (h History) Latest() (quiz.Attempt, bool) {
	if len(h.Attempts) == 0 {
		return quiz.Attempt{}, false
	}
	return h.Attempts[0], true
}

// Contains reports whether an attempt with the given token is recorded.
func (h History) Contains(token string) bool {
	for _, a := range h.Attempts {
		if a.Token == token {
			return true
		}
	}
	return false
}
