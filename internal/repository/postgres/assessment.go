package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/annagav/essaycoach/internal/domain"
)

type AssessmentRepo struct {
	db *DB
}

func NewAssessmentRepo(db *DB) *AssessmentRepo {
	return &AssessmentRepo{db: db}
}

func (r *AssessmentRepo) Create(ctx context.Context, a *domain.Assessment) error {
	query := `
        INSERT INTO assessments (id, user_id, level, task, body, words, overall_score, criteria, errors)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at
    `

	criteria, err := json.Marshal(a.Result.Criteria)
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}
	annotations, err := json.Marshal(a.Result.Errors)
	if err != nil {
		return fmt.Errorf("marshal errors: %w", err)
	}

	err = r.db.Pool.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		string(a.Level),
		string(a.Task),
		a.Text,
		a.Words,
		a.Result.OverallScore,
		criteria,
		annotations,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}

	return nil
}

func (r *AssessmentRepo) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	query := `
        SELECT id, user_id, level, task, body, words, overall_score, criteria, errors, created_at
        FROM assessments
        WHERE id = $1
    `

	a, err := scanAssessment(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	return a, nil
}

func (r *AssessmentRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Assessment, error) {
	query := `
        SELECT id, user_id, level, task, body, words, overall_score, criteria, errors, created_at
        FROM assessments
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}

func (r *AssessmentRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM assessments WHERE user_id = $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}

	return count, nil
}

func scanAssessment(row pgx.Row) (*domain.Assessment, error) {
	var a domain.Assessment
	var criteria, annotations []byte

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Level,
		&a.Task,
		&a.Text,
		&a.Words,
		&a.Result.OverallScore,
		&criteria,
		&annotations,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(criteria, &a.Result.Criteria); err != nil {
		return nil, fmt.Errorf("unmarshal criteria: %w", err)
	}
	if err := json.Unmarshal(annotations, &a.Result.Errors); err != nil {
		return nil, fmt.Errorf("unmarshal errors: %w", err)
	}

	return &a, nil
}
