package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/annagav/essaycoach/internal/domain"
	"github.com/annagav/essaycoach/internal/render"
)

type assessmentRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Level  string `json:"level" binding:"required"`
	Task   string `json:"task" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type assessmentResponse struct {
	ID           string                   `json:"id"`
	UserID       int64                    `json:"user_id"`
	Level        string                   `json:"level"`
	Task         string                   `json:"task"`
	Words        int                      `json:"words"`
	OverallScore int                      `json:"overallScore"`
	Criteria     []domain.Criterion       `json:"criteria"`
	Errors       []domain.ErrorAnnotation `json:"errors"`
	CreatedAt    time.Time                `json:"created_at"`
}

func toResponse(a *domain.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Level:        string(a.Level),
		Task:         string(a.Task),
		Words:        a.Words,
		OverallScore: a.Result.OverallScore,
		Criteria:     a.Result.Criteria,
		Errors:       a.Result.Errors,
		CreatedAt:    a.CreatedAt,
	}
}

func (s *Server) handleCreateAssessment(c *gin.Context) {
	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	sub := &domain.Submission{
		UserID: req.UserID,
		Level:  domain.ExamLevel(req.Level),
		Task:   domain.TaskType(req.Task),
		Text:   req.Text,
	}

	assessment, err := s.assessService.Assess(c.Request.Context(), sub)
	if err != nil {
		status, msg := mapError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, toResponse(assessment))
}

func (s *Server) handleListAssessments(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid user_id query parameter is required"})
		return
	}

	history, err := s.assessService.History(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("failed to list assessments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load assessments"})
		return
	}

	out := make([]assessmentResponse, 0, len(history))
	for i := range history {
		out = append(out, toResponse(&history[i]))
	}

	c.JSON(http.StatusOK, gin.H{"assessments": out})
}

func (s *Server) handleAssessmentHTML(c *gin.Context) {
	assessment, err := s.assessService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
			return
		}
		s.logger.Error("failed to load assessment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load assessment"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(render.Report(assessment)))
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest, "text is empty"
	case errors.Is(err, domain.ErrTextTooShort):
		return http.StatusBadRequest, "text is too short"
	case errors.Is(err, domain.ErrTextTooLong):
		return http.StatusBadRequest, "text is too long"
	case errors.Is(err, domain.ErrNotEnglish):
		return http.StatusBadRequest, "text does not look like English"
	case errors.Is(err, domain.ErrNotMeaningful):
		return http.StatusBadRequest, "text does not look meaningful"
	case errors.Is(err, domain.ErrInvalidLevel):
		return http.StatusBadRequest, "invalid exam level, use CAE or CPE"
	case errors.Is(err, domain.ErrInvalidTask):
		return http.StatusBadRequest, "invalid task type"
	case errors.Is(err, domain.ErrLLMFailed):
		return http.StatusBadGateway, "assessment backend unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
