package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/annagav/essaycoach/internal/domain"
)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	query := `
        INSERT INTO users (id, username, level, task)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
        RETURNING id, username, level, task, created_at
    `

	var user domain.User
	err := r.db.Pool.QueryRow(ctx, query,
		telegramID,
		username,
		string(domain.LevelCAE),
		string(domain.TaskEssay),
	).Scan(
		&user.ID,
		&user.Username,
		&user.Level,
		&user.Task,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}

	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, username, level, task, created_at FROM users WHERE id = $1`

	var user domain.User
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Level,
		&user.Task,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET username = $2, level = $3, task = $4 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query,
		user.ID,
		user.Username,
		string(user.Level),
		string(user.Task),
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
