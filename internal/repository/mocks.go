package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/annagav/essaycoach/internal/domain"
)

type MockUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*domain.User

	DefaultLevel domain.ExamLevel
	DefaultTask  domain.TaskType
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:        make(map[int64]*domain.User),
		DefaultLevel: domain.LevelCAE,
		DefaultTask:  domain.TaskEssay,
	}
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, exists := m.users[telegramID]; exists {
		if user.Username != username {
			user.Username = username
		}
		return user, nil
	}

	user := &domain.User{
		ID:        telegramID,
		Username:  username,
		Level:     m.DefaultLevel,
		Task:      m.DefaultTask,
		CreatedAt: time.Now(),
	}
	m.users[telegramID] = user
	return user, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if user, exists := m.users[id]; exists {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return domain.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

type MockAssessmentRepository struct {
	mu          sync.RWMutex
	assessments map[string]*domain.Assessment

	CreateErr error
}

func NewMockAssessmentRepository() *MockAssessmentRepository {
	return &MockAssessmentRepository{
		assessments: make(map[string]*domain.Assessment),
	}
}

func (m *MockAssessmentRepository) Create(ctx context.Context, assessment *domain.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}

	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now()
	}
	stored := *assessment
	m.assessments[assessment.ID] = &stored
	return nil
}

func (m *MockAssessmentRepository) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if a, exists := m.assessments[id]; exists {
		return a, nil
	}
	return nil, domain.ErrAssessmentNotFound
}

func (m *MockAssessmentRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Assessment
	for _, a := range m.assessments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}

	// свежие первыми, как в постгресе
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockAssessmentRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cnt := 0
	for _, a := range m.assessments {
		if a.UserID == userID {
			cnt++
		}
	}
	return cnt, nil
}
