package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizdeck/internal/quiz"
)

var attemptColumns = []string{
	"id", "token", "quiz_id", "user_id", "revision", "answers",
	"score", "max_score", "percentage", "passed", "submitted_at",
}

// attemptRepo implements AttemptRepo.
type attemptRepo struct {
	db *sql.DB
}

func (r *attemptRepo) Create(ctx context.Context, a *quiz.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	ins := builder.Insert(attemptsTable.Name).
		Columns(attemptColumns...).
		Values(a.ID, a.Token, a.QuizID, a.UserID, a.Revision, string(answers),
			a.Score, a.MaxScore, a.Percentage, a.Passed, a.SubmittedAt.UTC()).
		OnConflict(entsql.ConflictColumns("token"), entsql.DoNothing())

	res, err := execQuery(ctx, r.db, ins)
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("token %s: %w", a.Token, ErrDuplicateToken)
	}
	return nil
}

func (r *attemptRepo) ByToken(ctx context.Context, token string) (*quiz.Attempt, error) {
	sel := builder.Select(attemptColumns...).
		From(builder.Table(attemptsTable.Name)).
		Where(entsql.EQ("token", token))

	query, args := sel.Query()
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attempt with token %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query attempt: %w", err)
	}
	return a, nil
}

func (r *attemptRepo) List(ctx context.Context, quizID, userID string) ([]quiz.Attempt, error) {
	sel := builder.Select(attemptColumns...).
		From(builder.Table(attemptsTable.Name)).
		Where(entsql.And(
			entsql.EQ("quiz_id", quizID),
			entsql.EQ("user_id", userID),
		)).
		OrderBy(entsql.Desc("submitted_at"), entsql.Desc("id"))

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []quiz.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(s scanner) (*quiz.Attempt, error) {
	var a quiz.Attempt
	var answers string
	err := s.Scan(&a.ID, &a.Token, &a.QuizID, &a.UserID, &a.Revision, &answers,
		&a.Score, &a.MaxScore, &a.Percentage, &a.Passed, &a.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return &a, nil
}
