package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-arena/internal/domain"
)

// QuestionStore reads and writes the question catalog in Postgres. Options
// are stored as a JSONB array so the core always consumes an already-parsed
// list of strings.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

const questionColumns = `id, stem, options, correct_answer, explanation, category, time_limit_sec, base_points, created_at, updated_at`

func (s *QuestionStore) FindByID(ctx context.Context, id int64) (domain.Question, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id=$1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("find question: %w", err)
	}
	return q, nil
}

func (s *QuestionStore) FindByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions WHERE category=$1 ORDER BY id`, category)
	if err != nil {
		return nil, fmt.Errorf("find by category: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (s *QuestionStore) FindRandom(ctx context.Context, n int) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY random() LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("find random: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (s *QuestionStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// List returns the whole catalog ordered by id.
func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// Create inserts a question and returns it with the generated id.
func (s *QuestionStore) Create(ctx context.Context, q domain.Question) (domain.Question, error) {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return domain.Question{}, fmt.Errorf("encode options: %w", err)
	}
	now := time.Now().UTC()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO questions (stem, options, correct_answer, explanation, category, time_limit_sec, base_points, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
		 RETURNING id, created_at, updated_at`,
		q.Stem, options, q.CorrectAnswer, q.Explanation, q.Category, q.TimeLimitSec, q.BasePoints, now)
	if err := row.Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

// Update rewrites a question in place and bumps updated_at.
func (s *QuestionStore) Update(ctx context.Context, q domain.Question) (domain.Question, error) {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return domain.Question{}, fmt.Errorf("encode options: %w", err)
	}
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE questions SET stem=$2, options=$3, correct_answer=$4, explanation=$5, category=$6, time_limit_sec=$7, base_points=$8, updated_at=$9
		 WHERE id=$1`,
		q.ID, q.Stem, options, q.CorrectAnswer, q.Explanation, q.Category, q.TimeLimitSec, q.BasePoints, now)
	if err != nil {
		return domain.Question{}, fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	q.UpdatedAt = now
	return q, nil
}

// Delete removes a question by id.
func (s *QuestionStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestion(row rowScanner) (domain.Question, error) {
	var q domain.Question
	var options []byte
	if err := row.Scan(&q.ID, &q.Stem, &options, &q.CorrectAnswer, &q.Explanation, &q.Category, &q.TimeLimitSec, &q.BasePoints, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return domain.Question{}, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return domain.Question{}, fmt.Errorf("decode options: %w", err)
	}
	return q, nil
}

func scanQuestions(rows pgx.Rows) ([]domain.Question, error) {
	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
