package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/annagav/essaycoach/internal/cache/memory"
	"github.com/annagav/essaycoach/internal/config"
	"github.com/annagav/essaycoach/internal/httpapi"
	"github.com/annagav/essaycoach/internal/llm"
	"github.com/annagav/essaycoach/internal/llm/gigachat"
	"github.com/annagav/essaycoach/internal/llm/mock"
	"github.com/annagav/essaycoach/internal/llm/openrouter"
	"github.com/annagav/essaycoach/internal/metrics"
	"github.com/annagav/essaycoach/internal/ratelimit"
	"github.com/annagav/essaycoach/internal/repository/postgres"
	"github.com/annagav/essaycoach/internal/service"
	"github.com/annagav/essaycoach/internal/telegram"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("error loading .env file:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil && err != context.Canceled {
		logger.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepo(db)
	assessRepo := postgres.NewAssessmentRepo(db)

	llmClient, err := buildLLMClient(cfg, logger)
	if err != nil {
		return err
	}

	m := metrics.New()
	resultCache := memory.NewWithContext(ctx)
	defer resultCache.Stop()

	limiter := ratelimit.New(ctx, ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	})

	assessSvc := service.NewAssessmentService(service.AssessmentServiceDeps{
		Assessments: assessRepo,
		LLM:         llmClient,
		Cache:       resultCache,
		Logger:      logger,
		Metrics:     m,
		Config: service.AssessConfig{
			LLMTimeout:     cfg.Assessment.LLMTimeout,
			CacheTTL:       cfg.Cache.TTL,
			HistoryLimit:   cfg.Assessment.HistoryLimit,
			PersistResults: cfg.Assessment.PersistResults,
			Provider:       cfg.LLM.Provider,
		},
	})

	userSvc := service.NewUserService(service.UserServiceDeps{
		Users:  userRepo,
		Logger: logger,
	})

	bot, err := telegram.New(telegram.BotConfig{
		Token: cfg.Telegram.Token,
		Debug: cfg.Telegram.Debug,
	}, userSvc, assessSvc, limiter, logger, m)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	server := httpapi.NewServer(httpapi.ServerConfig{
		Addr: cfg.HTTP.Addr,
	}, assessSvc, limiter, logger, m)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bot.Run(ctx) })
	g.Go(func() error { return server.Run(ctx) })

	logger.Info("essaycoach started",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("http_addr", cfg.HTTP.Addr),
	)

	return g.Wait()
}

func buildLLMClient(cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "openrouter":
		return openrouter.New(openrouter.Config{
			APIKey:  cfg.LLM.OpenRouter.APIKey,
			Model:   cfg.LLM.OpenRouter.Model,
			BaseURL: cfg.LLM.OpenRouter.BaseURL,
		}, logger), nil
	case "gigachat":
		return gigachat.New(gigachat.Config{
			AuthKey:      cfg.LLM.GigaChat.AuthKey,
			ClientID:     cfg.LLM.GigaChat.ClientID,
			ClientSecret: cfg.LLM.GigaChat.ClientSecret,
			Scope:        cfg.LLM.GigaChat.Scope,
			AuthURL:      cfg.LLM.GigaChat.AuthURL,
			BaseURL:      cfg.LLM.GigaChat.BaseURL,
			Model:        cfg.LLM.GigaChat.Model,
		}, logger), nil
	case "mock":
		logger.Warn("using mock llm provider, responses are canned")
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}
