// Package httpapi - REST-интерфейс к проверке работ, второй фронтенд рядом с ботом.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/annagav/essaycoach/internal/metrics"
	"github.com/annagav/essaycoach/internal/ratelimit"
	"github.com/annagav/essaycoach/internal/service"
)

type ServerConfig struct {
	Addr string
}

type Server struct {
	assessService service.AssessmentService
	logger        *zap.Logger
	metrics       *metrics.Metrics
	rateLimiter   *ratelimit.Limiter
	engine        *gin.Engine
	addr          string
}

func NewServer(cfg ServerConfig, assessSvc service.AssessmentService, limiter *ratelimit.Limiter, logger *zap.Logger, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		assessService: assessSvc,
		logger:        logger,
		metrics:       m,
		rateLimiter:   limiter,
		addr:          cfg.Addr,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.corsMiddleware())

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := engine.Group("/api/v1")
	api.Use(s.rateLimitMiddleware())
	{
		api.POST("/assessments", s.handleCreateAssessment)
		api.GET("/assessments", s.handleListAssessments)
		api.GET("/assessments/:id/html", s.handleAssessmentHTML)
	}

	s.engine = engine
	return s
}

// Run блокируется до отмены контекста, затем гасит сервер
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("http server stopped")
		return ctx.Err()
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if !s.rateLimiter.Allow(key) {
			s.metrics.RecordRateLimitHit("http")
			c.Header("Retry-After", s.rateLimiter.ResetTime(key).UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "rate limit exceeded",
				"reset_at": s.rateLimiter.ResetTime(key).UTC().Format(time.RFC3339),
			})
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
