package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/annagav/essaycoach/internal/domain"
	"github.com/annagav/essaycoach/internal/repository"
)

type UserService interface {
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error)
	SetLevel(ctx context.Context, userID int64, level domain.ExamLevel) (*domain.User, error)
	SetTask(ctx context.Context, userID int64, task domain.TaskType) (*domain.User, error)
}

type UserServiceDeps struct {
	Users  repository.UserRepository
	Logger *zap.Logger
}

type userService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(deps UserServiceDeps) UserService {
	return &userService{
		users:  deps.Users,
		logger: deps.Logger,
	}
}

func (s *userService) GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	return s.users.GetOrCreate(ctx, telegramID, username)
}

func (s *userService) SetLevel(ctx context.Context, userID int64, level domain.ExamLevel) (*domain.User, error) {
	if !level.IsValid() {
		return nil, domain.ErrInvalidLevel
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Level = level
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user level updated",
		zap.Int64("user_id", userID),
		zap.String("level", string(level)),
	)

	return user, nil
}

func (s *userService) SetTask(ctx context.Context, userID int64, task domain.TaskType) (*domain.User, error) {
	if !task.IsValid() {
		return nil, domain.ErrInvalidTask
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Task = task
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user task updated",
		zap.Int64("user_id", userID),
		zap.String("task", string(task)),
	)

	return user, nil
}
