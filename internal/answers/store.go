// Package answers holds a learner's in-progress selections for one attempt.
package answers

import (
	"github.com/abhisek/quizdeck/internal/quiz"
)

// Store maps question IDs to selected option IDs. It has no I/O and no
// timers; only learner actions write to it.
type Store struct {
	selections map[string][]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{selections: make(map[string][]string)}
}

// Set records a click on optionID for questionID and returns the full
// updated selection map.
//
// Single-choice types replace the selection, so clicking the selected option
// again keeps it selected. MULTIPLE toggles optionID.
func (s *Store) Set(questionID, optionID string, qtype quiz.QuestionType) map[string][]string {
	if qtype.SingleChoice() {
		s.selections[questionID] = []string{optionID}
		return s.All()
	}

	current := s.selections[questionID]
	next := make([]string, 0, len(current)+1)
	found := false
	for _, id := range current {
		if id == optionID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, optionID)
	}

	if len(next) == 0 {
		delete(s.selections, questionID)
	} else {
		s.selections[questionID] = next
	}
	return s.All()
}

// All returns a copy of every selection.
func (s *Store) All() map[string][]string {
	out := make(map[string][]string, len(s.selections))
	for q, ids := range s.selections {
		out[q] = append([]string(nil), ids...)
	}
	return out
}

// Selected returns the option IDs selected for questionID.
func (s *Store) Selected(questionID string) []string {
	return append([]string(nil), s.selections[questionID]...)
}

// IsSelected reports whether optionID is selected for questionID.
func (s *Store) IsSelected(questionID, optionID string) bool {
	for _, id := range s.selections[questionID] {
		if id == optionID {
			return true
		}
	}
	return false
}

// Answered reports whether questionID has at least one selection.
func (s *Store) Answered(questionID string) bool {
	return len(s.selections[questionID]) > 0
}

// Count returns the number of answered questions.
func (s *Store) Count() int {
	return len(s.selections)
}

// Unanswered returns the IDs from questionIDs with no selection.
func (s *Store) Unanswered(questionIDs []string) []string {
	var out []string
	for _, id := range questionIDs {
		if !s.Answered(id) {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot builds the submission payload in questionIDs order. Unanswered
// questions are left out.
func (s *Store) Snapshot(questionIDs []string) []quiz.Answer {
	out := make([]quiz.Answer, 0, len(s.selections))
	for _, id := range questionIDs {
		selected := s.selections[id]
		if len(selected) == 0 {
			continue
		}
		out = append(out, quiz.Answer{
			QuestionID:        id,
			SelectedOptionIDs: append([]string(nil), selected...),
		})
	}
	return out
}

// Reset discards every selection.
func (s *Store) Reset() {
	s.selections = make(map[string][]string)
}
