package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// catalogRepo implements CatalogRepo.
type catalogRepo struct {
	db *sql.DB
}

func (r *catalogRepo) SaveCourse(ctx context.Context, c course.Course) error {
	ins := builder.Insert(coursesTable.Name).
		Columns("id", "title").
		Values(c.ID, c.Title).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save course %s: %w", c.ID, err)
	}
	return nil
}

func (r *catalogRepo) SaveModule(ctx context.Context, m course.Module) error {
	ins := builder.Insert(modulesTable.Name).
		Columns("id", "course_id", "title", "position").
		Values(m.ID, m.CourseID, m.Title, m.Order).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save module %s: %w", m.ID, err)
	}
	return nil
}

func (r *catalogRepo) SaveLesson(ctx context.Context, l course.Lesson) error {
	ins := builder.Insert(lessonsTable.Name).
		Columns("id", "module_id", "title", "position").
		Values(l.ID, l.ModuleID, l.Title, l.Order).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save lesson %s: %w", l.ID, err)
	}
	return nil
}

func (r *catalogRepo) SaveQuiz(ctx context.Context, q *quiz.Quiz) (string, error) {
	revision, err := quiz.Revision(q)
	if err != nil {
		return "", err
	}
	definition, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("marshal quiz %s: %w", q.ID, err)
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rev := builder.Insert(quizRevisionsTable.Name).
		Columns("quiz_id", "revision", "definition", "created_at").
		Values(q.ID, revision, string(definition), now).
		OnConflict(entsql.ConflictColumns("quiz_id", "revision"), entsql.DoNothing())
	if _, err := execQuery(ctx, tx, rev); err != nil {
		return "", fmt.Errorf("save revision of quiz %s: %w", q.ID, err)
	}

	cur := builder.Insert(quizzesTable.Name).
		Columns("id", "course_id", "module_id", "title", "revision", "updated_at").
		Values(q.ID, q.CourseID, q.ModuleID, q.Title, revision, now).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if _, err := execQuery(ctx, tx, cur); err != nil {
		return "", fmt.Errorf("save quiz %s: %w", q.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit quiz %s: %w", q.ID, err)
	}
	return revision, nil
}

func (r *catalogRepo) Courses(ctx context.Context) ([]course.Course, error) {
	sel := builder.Select("id", "title").
		From(builder.Table(coursesTable.Name)).
		OrderBy("id")

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var out []course.Course
	for rows.Next() {
		var c course.Course
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *catalogRepo) Modules(ctx context.Context, courseID string) ([]course.Module, error) {
	sel := builder.Select("id", "course_id", "title", "position").
		From(builder.Table(modulesTable.Name)).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("position", "id")

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query modules of course %s: %w", courseID, err)
	}
	defer rows.Close()

	var out []course.Module
	for rows.Next() {
		var m course.Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Order); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *catalogRepo) Lessons(ctx context.Context, moduleID string) ([]course.Lesson, error) {
	sel := builder.Select("id", "module_id", "title", "position").
		From(builder.Table(lessonsTable.Name)).
		Where(entsql.EQ("module_id", moduleID)).
		OrderBy("position", "id")

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query lessons of module %s: %w", moduleID, err)
	}
	defer rows.Close()

	var out []course.Lesson
	for rows.Next() {
		var l course.Lesson
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Order); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *catalogRepo) QuizRefs(ctx context.Context, courseID string) ([]course.QuizRef, error) {
	sel := builder.Select("id", "module_id", "title").
		From(builder.Table(quizzesTable.Name)).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("module_id", "id")

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query quizzes of course %s: %w", courseID, err)
	}
	defer rows.Close()

	var out []course.QuizRef
	for rows.Next() {
		var q course.QuizRef
		if err := rows.Scan(&q.ID, &q.ModuleID, &q.Title); err != nil {
			return nil, fmt.Errorf("scan quiz ref: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *catalogRepo) Quiz(ctx context.Context, id string) (*quiz.Quiz, string, error) {
	sel := builder.Select("revision").
		From(builder.Table(quizzesTable.Name)).
		Where(entsql.EQ("id", id))

	query, args := sel.Query()
	var revision string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("query quiz %s: %w", id, err)
	}

	q, err := r.QuizRevision(ctx, id, revision)
	if err != nil {
		return nil, "", err
	}
	return q, revision, nil
}

func (r *catalogRepo) QuizRevision(ctx context.Context, id, revision string) (*quiz.Quiz, error) {
	sel := builder.Select("definition").
		From(builder.Table(quizRevisionsTable.Name)).
		Where(entsql.And(
			entsql.EQ("quiz_id", id),
			entsql.EQ("revision", revision),
		))

	query, args := sel.Query()
	var definition string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quiz %s revision %s: %w", id, revision, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query quiz %s revision %s: %w", id, revision, err)
	}

	var q quiz.Quiz
	if err := json.Unmarshal([]byte(definition), &q); err != nil {
		return nil, fmt.Errorf("unmarshal quiz %s revision %s: %w", id, revision, err)
	}
	return &q, nil
}

func (r *catalogRepo) query(ctx context.Context, q querier) (*sql.Rows, error) {
	query, args := q.Query()
	return r.db.QueryContext(ctx, query, args...)
}
