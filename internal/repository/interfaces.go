package repository

import (
	"context"

	"github.com/annagav/essaycoach/internal/domain"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type AssessmentRepository interface {
	Create(ctx context.Context, assessment *domain.Assessment) error
	GetByID(ctx context.Context, id string) (*domain.Assessment, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Assessment, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}
