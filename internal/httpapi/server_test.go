package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/annagav/essaycoach/internal/domain"
	"github.com/annagav/essaycoach/internal/ratelimit"
	"github.com/annagav/essaycoach/internal/service"
)

type stubAssessService struct {
	LastSubmission *domain.Submission
	Assessment     *domain.Assessment
	HistoryResult  []domain.Assessment
	Err            error
}

func (s *stubAssessService) Assess(ctx context.Context, sub *domain.Submission) (*domain.Assessment, error) {
	s.LastSubmission = sub
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Assessment != nil {
		return s.Assessment, nil
	}
	return &domain.Assessment{
		ID:     "id-1",
		UserID: sub.UserID,
		Level:  sub.Level,
		Task:   sub.Task,
		Text:   sub.Text,
		Words:  25,
		Result: domain.AnalysisResult{
			OverallScore: 4,
			Criteria: []domain.Criterion{
				{Kind: domain.CriterionContent, Score: 4, Feedback: "ok"},
				{Kind: domain.CriterionCommunicative, Score: 4, Feedback: "ok"},
				{Kind: domain.CriterionOrganisation, Score: 4, Feedback: "ok"},
				{Kind: domain.CriterionLanguage, Score: 4, Feedback: "ok"},
			},
		},
	}, nil
}

func (s *stubAssessService) History(ctx context.Context, userID int64) ([]domain.Assessment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.HistoryResult, nil
}

func (s *stubAssessService) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Assessment == nil {
		return nil, domain.ErrAssessmentNotFound
	}
	return s.Assessment, nil
}

var _ service.AssessmentService = (*stubAssessService)(nil)

func newTestServer(svc service.AssessmentService, perMinute int) *Server {
	return NewServer(
		ServerConfig{Addr: ":0"},
		svc,
		ratelimit.New(context.Background(), ratelimit.Config{RequestsPerMinute: perMinute}),
		zap.NewNop(),
		nil,
	)
}

func postAssessment(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestCreateAssessment(t *testing.T) {
	svc := &stubAssessService{}
	s := newTestServer(svc, 100)

	body, _ := json.Marshal(map[string]interface{}{
		"user_id": 42,
		"level":   "CAE",
		"task":    "essay",
		"text":    "Nowadays many people believe that technology has changed our lives completely.",
	})

	w := postAssessment(t, s, string(body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", w.Code, w.Body.String())
	}

	var resp assessmentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.OverallScore != 4 {
		t.Errorf("overallScore = %d, want 4", resp.OverallScore)
	}
	if len(resp.Criteria) != 4 {
		t.Errorf("criteria = %d, want 4", len(resp.Criteria))
	}
	if svc.LastSubmission.Level != domain.LevelCAE {
		t.Errorf("submission level = %v, want CAE", svc.LastSubmission.Level)
	}
}

func TestCreateAssessment_BadRequest(t *testing.T) {
	s := newTestServer(&stubAssessService{}, 100)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing fields", `{"user_id": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postAssessment(t, s, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCreateAssessment_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"too short", domain.ErrTextTooShort, http.StatusBadRequest},
		{"bad level", domain.ErrInvalidLevel, http.StatusBadRequest},
		{"not english", domain.ErrNotEnglish, http.StatusBadRequest},
		{"llm failed", domain.ErrLLMFailed, http.StatusBadGateway},
	}

	body := `{"user_id": 1, "level": "CAE", "task": "essay", "text": "some text"}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubAssessService{Err: tt.err}, 100)
			w := postAssessment(t, s, body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestListAssessments(t *testing.T) {
	svc := &stubAssessService{
		HistoryResult: []domain.Assessment{
			{ID: "a", UserID: 42, Level: domain.LevelCAE, Task: domain.TaskEssay},
			{ID: "b", UserID: 42, Level: domain.LevelCPE, Task: domain.TaskReview},
		},
	}
	s := newTestServer(svc, 100)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments?user_id=42", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Assessments []assessmentResponse `json:"assessments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if len(resp.Assessments) != 2 {
		t.Errorf("assessments = %d, want 2", len(resp.Assessments))
	}
}

func TestListAssessments_MissingUserID(t *testing.T) {
	s := newTestServer(&stubAssessService{}, 100)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAssessmentHTML(t *testing.T) {
	start, end := 0, 6
	svc := &stubAssessService{
		Assessment: &domain.Assessment{
			ID:    "id-1",
			Level: domain.LevelCAE,
			Task:  domain.TaskEssay,
			Text:  "I seen him yesterday.",
			Words: 4,
			Result: domain.AnalysisResult{
				OverallScore: 4,
				Errors: []domain.ErrorAnnotation{
					{Text: "I seen", Correction: "I saw", Category: domain.CategoryGrammar, Start: &start, End: &end},
				},
			},
		},
	}
	s := newTestServer(svc, 100)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments/id-1/html", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(w.Body.String(), `<mark class="err-grammar"`) {
		t.Error("rendered page should highlight the error")
	}
}

func TestAssessmentHTML_NotFound(t *testing.T) {
	s := newTestServer(&stubAssessService{}, 100)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments/missing/html", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&stubAssessService{}, 100)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(&stubAssessService{}, 1)

	body := `{"user_id": 1, "level": "CAE", "task": "essay", "text": "text"}`

	if w := postAssessment(t, s, body); w.Code != http.StatusCreated {
		t.Fatalf("first request status = %d, want 201", w.Code)
	}

	w := postAssessment(t, s, body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if !strings.Contains(w.Body.String(), "reset_at") {
		t.Error("429 response should include reset_at")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&stubAssessService{}, 100)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/assessments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}
