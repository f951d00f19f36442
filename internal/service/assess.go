package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/annagav/essaycoach/internal/analysis"
	"github.com/annagav/essaycoach/internal/cache"
	"github.com/annagav/essaycoach/internal/domain"
	"github.com/annagav/essaycoach/internal/llm"
	"github.com/annagav/essaycoach/internal/metrics"
	"github.com/annagav/essaycoach/internal/prompt"
	"github.com/annagav/essaycoach/internal/repository"
)

type AssessmentService interface {
	Assess(ctx context.Context, sub *domain.Submission) (*domain.Assessment, error)
	History(ctx context.Context, userID int64) ([]domain.Assessment, error)
	GetByID(ctx context.Context, id string) (*domain.Assessment, error)
}

type AssessConfig struct {
	LLMTimeout     time.Duration
	CacheTTL       time.Duration
	HistoryLimit   int
	PersistResults bool
	Provider       string // метка провайдера для метрик
}

// AssessmentServiceDeps - зависимости для AssessmentService.
type AssessmentServiceDeps struct {
	Assessments repository.AssessmentRepository
	LLM         llm.Client
	Cache       cache.Cache
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Config      AssessConfig
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	llm         llm.Client
	cache       cache.Cache
	logger      *zap.Logger
	metrics     *metrics.Metrics
	config      AssessConfig
}

func NewAssessmentService(deps AssessmentServiceDeps) AssessmentService {
	if deps.Config.LLMTimeout == 0 {
		deps.Config.LLMTimeout = 90 * time.Second
	}
	if deps.Config.CacheTTL == 0 {
		deps.Config.CacheTTL = time.Hour
	}
	if deps.Config.HistoryLimit == 0 {
		deps.Config.HistoryLimit = 10
	}
	if deps.Config.Provider == "" {
		deps.Config.Provider = "unknown"
	}

	return &assessmentService{
		assessments: deps.Assessments,
		llm:         deps.LLM,
		cache:       deps.Cache,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		config:      deps.Config,
	}
}

func (s *assessmentService) Assess(ctx context.Context, sub *domain.Submission) (*domain.Assessment, error) {
	startTime := time.Now()

	s.metrics.IncRequestsInFlight()
	defer s.metrics.DecRequestsInFlight()

	sub.Sanitize()
	if err := sub.Validate(); err != nil {
		s.metrics.RecordRequest("assess", "validation_error", time.Since(startTime))
		return nil, err
	}

	words := sub.WordCount()

	s.logger.Info("assessing submission",
		zap.Int64("user_id", sub.UserID),
		zap.String("level", string(sub.Level)),
		zap.String("task", string(sub.Task)),
		zap.Int("words", words),
	)

	result, cached := s.cachedResult(sub)
	if !cached {
		var err error
		result, err = s.analyzeWithLLM(ctx, sub)
		if err != nil {
			s.metrics.RecordRequest("assess", "llm_error", time.Since(startTime))
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(s.cacheKey(sub), result, s.config.CacheTTL)
		}
	}

	assessment := &domain.Assessment{
		ID:        uuid.NewString(),
		UserID:    sub.UserID,
		Level:     sub.Level,
		Task:      sub.Task,
		Text:      sub.Text,
		Words:     words,
		Result:    result,
		CreatedAt: time.Now(),
	}

	s.metrics.RecordAssessment(string(sub.Level), string(sub.Task))
	s.metrics.RecordErrorSpans(len(result.LocatedErrors()), len(result.Errors))

	// сохраняем в фоне, ошибка записи не должна ломать ответ пользователю
	if s.config.PersistResults {
		go func(a domain.Assessment) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.assessments.Create(ctx, &a); err != nil {
				s.logger.Warn("failed to persist assessment",
					zap.Error(err),
					zap.String("assessment_id", a.ID),
				)
			}
		}(*assessment)
	}

	s.logger.Info("submission assessed",
		zap.Int64("user_id", sub.UserID),
		zap.String("assessment_id", assessment.ID),
		zap.Int("overall_score", result.OverallScore),
		zap.Int("errors_found", len(result.Errors)),
		zap.Bool("from_cache", cached),
	)

	s.metrics.RecordRequest("assess", "success", time.Since(startTime))

	return assessment, nil
}

func (s *assessmentService) History(ctx context.Context, userID int64) ([]domain.Assessment, error) {
	return s.assessments.ListByUser(ctx, userID, s.config.HistoryLimit)
}

func (s *assessmentService) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	return s.assessments.GetByID(ctx, id)
}

func (s *assessmentService) analyzeWithLLM(ctx context.Context, sub *domain.Submission) (domain.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	llmStart := time.Now()
	raw, err := s.llm.CompleteWithSystem(ctx, prompt.System(sub.Level, sub.Task), prompt.User(sub))
	if err != nil {
		s.metrics.RecordLLMRequest(s.config.Provider, "error", time.Since(llmStart))
		s.logger.Error("llm request failed",
			zap.Error(err),
			zap.Int64("user_id", sub.UserID),
		)
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", domain.ErrLLMFailed, err)
	}
	s.metrics.RecordLLMRequest(s.config.Provider, "success", time.Since(llmStart))

	// разбор никогда не падает: на мусоре вернутся дефолтные оценки
	return analysis.Parse(raw, sub.Text), nil
}

func (s *assessmentService) cachedResult(sub *domain.Submission) (domain.AnalysisResult, bool) {
	if s.cache == nil {
		return domain.AnalysisResult{}, false
	}

	if v, ok := s.cache.Get(s.cacheKey(sub)); ok {
		if result, ok := v.(domain.AnalysisResult); ok {
			s.metrics.RecordCacheHit()
			return result, true
		}
	}

	s.metrics.RecordCacheMiss()
	return domain.AnalysisResult{}, false
}

func (s *assessmentService) cacheKey(sub *domain.Submission) string {
	hash := sha256.Sum256([]byte(string(sub.Level) + "|" + string(sub.Task) + "|" + sub.Text))
	return fmt.Sprintf("assess:%x", hash[:8])
}
