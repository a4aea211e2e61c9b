package answers

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quizdeck/internal/quiz"
)

func TestSet_SingleReplaces(t *testing.T) {
	s := New()
	s.Set("q1", "a", quiz.TypeSingle)
	got := s.Set("q1", "b", quiz.TypeSingle)
	assert.Equal(t, []string{"b"}, got["q1"])
}

func TestSet_SingleReclickKeepsSelection(t *testing.T) {
	for _, qt := range []quiz.QuestionType{quiz.TypeSingle, quiz.TypeTrueFalse} {
		s := New()
		s.Set("q1", "a", qt)
		got := s.Set("q1", "a", qt)
		assert.Equal(t, []string{"a"}, got["q1"], "type %s", qt)
	}
}

func TestSet_SingleCardinalityNeverExceedsOne(t *testing.T) {
	options := []string{"a", "b", "c", "d"}
	r := rand.New(rand.NewPCG(1, 2))
	for _, qt := range []quiz.QuestionType{quiz.TypeSingle, quiz.TypeTrueFalse} {
		s := New()
		for i := 0; i < 200; i++ {
			got := s.Set("q1", options[r.IntN(len(options))], qt)
			if len(got["q1"]) > 1 {
				t.Fatalf("%s: selection has %d options after %d clicks", qt, len(got["q1"]), i+1)
			}
		}
	}
}

func TestSet_MultipleToggleIsOwnInverse(t *testing.T) {
	s := New()
	s.Set("q2", "b", quiz.TypeMultiple)
	before := s.All()

	s.Set("q2", "c", quiz.TypeMultiple)
	assert.Equal(t, []string{"b", "c"}, s.Selected("q2"))

	after := s.Set("q2", "c", quiz.TypeMultiple)
	assert.Equal(t, before, after)
}

func TestSet_MultipleToggleToEmptyClearsQuestion(t *testing.T) {
	s := New()
	s.Set("q2", "b", quiz.TypeMultiple)
	got := s.Set("q2", "b", quiz.TypeMultiple)
	_, ok := got["q2"]
	assert.False(t, ok)
	assert.False(t, s.Answered("q2"))
	assert.Equal(t, 0, s.Count())
}

func TestSet_ReturnsCopy(t *testing.T) {
	s := New()
	got := s.Set("q1", "a", quiz.TypeSingle)
	got["q1"][0] = "tampered"
	assert.Equal(t, []string{"a"}, s.Selected("q1"))
}

func TestUnansweredAndSnapshot(t *testing.T) {
	s := New()
	ids := []string{"q1", "q2", "q3"}
	s.Set("q3", "x", quiz.TypeMultiple)
	s.Set("q1", "a", quiz.TypeSingle)

	assert.Equal(t, []string{"q2"}, s.Unanswered(ids))
	assert.Equal(t, []quiz.Answer{
		{QuestionID: "q1", SelectedOptionIDs: []string{"a"}},
		{QuestionID: "q3", SelectedOptionIDs: []string{"x"}},
	}, s.Snapshot(ids))
	assert.True(t, s.IsSelected("q3", "x"))

	s.Reset()
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Snapshot(ids))
}
