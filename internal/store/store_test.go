package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		ID:                  "quiz-1",
		CourseID:            "c1",
		ModuleID:            "m1",
		Title:               "Basics",
		PassingScorePercent: 70,
		Questions: []quiz.Question{
			{
				ID: "q1", Text: "Pick A", Type: quiz.TypeSingle, Weight: 1,
				Options: []quiz.AnswerOption{{ID: "a", Text: "A", IsCorrect: true}, {ID: "b", Text: "B"}},
			},
		},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"courses", "modules", "lessons", "quizzes", "quiz_revisions", "attempts", "attempt_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.CatalogRepo().SaveCourse(ctx, course.Course{ID: "c1", Title: "Go"}); err != nil {
		t.Fatalf("save course: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	courses, err := s.CatalogRepo().Courses(ctx)
	if err != nil {
		t.Fatalf("courses: %v", err)
	}
	if len(courses) != 1 || courses[0].Title != "Go" {
		t.Errorf("courses = %+v, want one course titled Go", courses)
	}
}

func TestCatalogModulesAndLessonsOrdered(t *testing.T) {
	s := openTestStore(t)
	repo := s.CatalogRepo()
	ctx := context.Background()

	for _, m := range []course.Module{
		{ID: "m3", CourseID: "c1", Title: "Three", Order: 3},
		{ID: "m1", CourseID: "c1", Title: "One", Order: 1},
		{ID: "m2", CourseID: "c1", Title: "Two", Order: 2},
		{ID: "x1", CourseID: "c2", Title: "Other", Order: 1},
	} {
		if err := repo.SaveModule(ctx, m); err != nil {
			t.Fatalf("save module: %v", err)
		}
	}
	for _, l := range []course.Lesson{
		{ID: "l2", ModuleID: "m2", Title: "Second", Order: 2},
		{ID: "l1", ModuleID: "m2", Title: "First", Order: 1},
	} {
		if err := repo.SaveLesson(ctx, l); err != nil {
			t.Fatalf("save lesson: %v", err)
		}
	}

	modules, err := repo.Modules(ctx, "c1")
	if err != nil {
		t.Fatalf("modules: %v", err)
	}
	var ids []string
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	if len(ids) != 3 || ids[0] != "m1" || ids[1] != "m2" || ids[2] != "m3" {
		t.Errorf("module order = %v, want [m1 m2 m3]", ids)
	}

	lessons, err := repo.Lessons(ctx, "m2")
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if len(lessons) != 2 || lessons[0].ID != "l1" {
		t.Errorf("lessons = %+v, want l1 first", lessons)
	}

	empty, err := repo.Lessons(ctx, "m3")
	if err != nil {
		t.Fatalf("lessons of empty module: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no lessons, got %d", len(empty))
	}
}

func TestSaveModuleReplaces(t *testing.T) {
	s := openTestStore(t)
	repo := s.CatalogRepo()
	ctx := context.Background()

	if err := repo.SaveModule(ctx, course.Module{ID: "m1", CourseID: "c1", Title: "Old", Order: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveModule(ctx, course.Module{ID: "m1", CourseID: "c1", Title: "New", Order: 5}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	modules, err := repo.Modules(ctx, "c1")
	if err != nil {
		t.Fatalf("modules: %v", err)
	}
	if len(modules) != 1 || modules[0].Title != "New" || modules[0].Order != 5 {
		t.Errorf("modules = %+v, want single replaced module", modules)
	}
}

func TestQuizRevisions(t *testing.T) {
	s := openTestStore(t)
	repo := s.CatalogRepo()
	ctx := context.Background()

	q := testQuiz()
	rev1, err := repo.SaveQuiz(ctx, q)
	if err != nil {
		t.Fatalf("save quiz: %v", err)
	}

	// Saving the same definition again keeps the revision.
	again, err := repo.SaveQuiz(ctx, q)
	if err != nil {
		t.Fatalf("resave quiz: %v", err)
	}
	if again != rev1 {
		t.Errorf("revision changed on identical save: %s != %s", again, rev1)
	}

	q.Questions[0].Weight = 5
	rev2, err := repo.SaveQuiz(ctx, q)
	if err != nil {
		t.Fatalf("save changed quiz: %v", err)
	}
	if rev2 == rev1 {
		t.Fatal("expected a new revision after changing the definition")
	}

	cur, curRev, err := repo.Quiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if curRev != rev2 || cur.Questions[0].Weight != 5 {
		t.Errorf("current = rev %s weight %d, want rev %s weight 5", curRev, cur.Questions[0].Weight, rev2)
	}

	old, err := repo.QuizRevision(ctx, "quiz-1", rev1)
	if err != nil {
		t.Fatalf("old revision: %v", err)
	}
	if old.Questions[0].Weight != 1 {
		t.Errorf("old weight = %d, want 1", old.Questions[0].Weight)
	}
	if !old.Questions[0].Options[0].IsCorrect {
		t.Error("stored definition lost correctness flags")
	}

	refs, err := repo.QuizRefs(ctx, "c1")
	if err != nil {
		t.Fatalf("quiz refs: %v", err)
	}
	if len(refs) != 1 || refs[0].ModuleID != "m1" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestQuizNotFound(t *testing.T) {
	s := openTestStore(t)
	repo := s.CatalogRepo()
	ctx := context.Background()

	if _, _, err := repo.Quiz(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Quiz err = %v, want ErrNotFound", err)
	}
	if _, err := repo.QuizRevision(ctx, "missing", "deadbeef"); !errors.Is(err, ErrNotFound) {
		t.Errorf("QuizRevision err = %v, want ErrNotFound", err)
	}
}

func TestAttemptCreateAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, tok := range []string{"t1", "t2", "t3"} {
		err := repo.Create(ctx, &quiz.Attempt{
			ID:          "a" + tok,
			Token:       tok,
			QuizID:      "quiz-1",
			UserID:      "u1",
			Revision:    "r1",
			Answers:     []quiz.Answer{{QuestionID: "q1", SelectedOptionIDs: []string{"a"}}},
			Score:       i,
			MaxScore:    2,
			Percentage:  i * 50,
			Passed:      i == 2,
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create %s: %v", tok, err)
		}
	}
	// Another user's attempt must not show up.
	if err := repo.Create(ctx, &quiz.Attempt{ID: "other", Token: "t9", QuizID: "quiz-1", UserID: "u2", SubmittedAt: base}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	attempts, err := repo.List(ctx, "quiz-1", "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("len = %d, want 3", len(attempts))
	}
	if attempts[0].Token != "t3" || attempts[2].Token != "t1" {
		t.Errorf("order = %s..%s, want t3..t1", attempts[0].Token, attempts[2].Token)
	}
	if !attempts[0].Passed || attempts[0].Percentage != 100 {
		t.Errorf("latest = %+v", attempts[0])
	}
	if len(attempts[0].Answers) != 1 || attempts[0].Answers[0].SelectedOptionIDs[0] != "a" {
		t.Errorf("answers not round-tripped: %+v", attempts[0].Answers)
	}
	if !attempts[2].SubmittedAt.Equal(base) {
		t.Errorf("submitted_at = %v, want %v", attempts[2].SubmittedAt, base)
	}
}

func TestAttemptDuplicateToken(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	a := &quiz.Attempt{ID: "a1", Token: "tok", QuizID: "quiz-1", UserID: "u1", SubmittedAt: time.Now()}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := *a
	dup.ID = "a2"
	if err := repo.Create(ctx, &dup); !errors.Is(err, ErrDuplicateToken) {
		t.Fatalf("duplicate err = %v, want ErrDuplicateToken", err)
	}

	got, err := repo.ByToken(ctx, "tok")
	if err != nil {
		t.Fatalf("by token: %v", err)
	}
	if got.ID != "a1" {
		t.Errorf("id = %s, want a1", got.ID)
	}

	if _, err := repo.ByToken(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing token err = %v, want ErrNotFound", err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestEventAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []AttemptEventData{
		{Kind: EventPreview, QuizID: "quiz-1", UserID: "u1"},
		{Kind: EventSubmit, QuizID: "quiz-1", UserID: "u1", Token: "t1", Detail: "score=1/1"},
		{Kind: EventReplay, QuizID: "quiz-1", UserID: "u1", Token: "t1"},
		{Kind: EventPreview, QuizID: "quiz-2", UserID: "u1"},
	}
	for _, e := range events {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("append %s: %v", e.Kind, err)
		}
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Sequence <= all[i-1].Sequence {
			t.Errorf("sequence not increasing at %d: %d <= %d", i, all[i].Sequence, all[i-1].Sequence)
		}
	}

	quiz1, err := repo.List(ctx, QueryOpts{QuizID: "quiz-1"})
	if err != nil {
		t.Fatalf("list quiz-1: %v", err)
	}
	if len(quiz1) != 3 {
		t.Errorf("quiz-1 events = %d, want 3", len(quiz1))
	}

	submits, err := repo.List(ctx, QueryOpts{Kind: EventSubmit})
	if err != nil {
		t.Fatalf("list submits: %v", err)
	}
	if len(submits) != 1 || submits[0].Detail != "score=1/1" || submits[0].Token != "t1" {
		t.Errorf("submits = %+v", submits)
	}

	after, err := repo.List(ctx, QueryOpts{After: all[1].Sequence, Limit: 1})
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 1 || after[0].Sequence != all[2].Sequence {
		t.Errorf("after = %+v, want sequence %d", after, all[2].Sequence)
	}
}
