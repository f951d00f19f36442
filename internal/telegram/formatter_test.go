package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/annagav/essaycoach/internal/domain"
)

func sampleAssessment() *domain.Assessment {
	start, end := 2, 10
	return &domain.Assessment{
		ID:     "abc",
		UserID: 1,
		Level:  domain.LevelCAE,
		Task:   domain.TaskEssay,
		Text:   "I seen him yesterday at the station.",
		Words:  7,
		Result: domain.AnalysisResult{
			OverallScore: 4,
			Criteria: []domain.Criterion{
				{Kind: domain.CriterionContent, Score: 4, Feedback: "Covers the task."},
				{Kind: domain.CriterionCommunicative, Score: 4, Feedback: "Register fits."},
				{Kind: domain.CriterionOrganisation, Score: 5, Feedback: "Clear structure."},
				{Kind: domain.CriterionLanguage, Score: 3, Feedback: "Tense slips."},
			},
			Errors: []domain.ErrorAnnotation{
				{Text: "seen him", Correction: "saw him", Category: domain.CategoryGrammar, Explanation: "past simple", Start: &start, End: &end},
				{Text: "recieve", Correction: "receive", Category: domain.CategorySpelling, Explanation: "spelling"},
			},
		},
		CreatedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatAssessment(t *testing.T) {
	got := FormatAssessment(sampleAssessment())

	for _, fragment := range []string{
		"C1 Advanced (CAE)",
		"Общая оценка: <b>4/5</b>",
		"Content",
		"Communicative Achievement",
		"Organisation",
		"Language",
		"<u>seen him</u>",
		"saw him",
		"recieve", // ненайденная ошибка попадает в замечания
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("FormatAssessment() missing %q", fragment)
		}
	}
}

func TestFormatAssessment_EscapesUserText(t *testing.T) {
	a := sampleAssessment()
	a.Text = "I think <b>bold</b> claims are wrong."
	a.Result.Errors = nil

	got := FormatAssessment(a)

	if strings.Contains(got, "<b>bold</b>") {
		t.Error("user text must be escaped in telegram HTML")
	}
}

func TestFormatHistory(t *testing.T) {
	history := []domain.Assessment{
		*sampleAssessment(),
		*sampleAssessment(),
	}

	got := FormatHistory(history)

	if !strings.Contains(got, "Всего: 2") {
		t.Errorf("FormatHistory() missing total, got:\n%s", got)
	}
	if !strings.Contains(got, "14.03.2025") {
		t.Errorf("FormatHistory() missing date, got:\n%s", got)
	}
}

func TestSplitMessage_Short(t *testing.T) {
	messages := SplitMessage("short text", 4096)
	if len(messages) != 1 {
		t.Fatalf("SplitMessage() len = %d, want 1", len(messages))
	}
	if messages[0] != "short text" {
		t.Errorf("SplitMessage() = %q", messages[0])
	}
}

func TestSplitMessage_LongText(t *testing.T) {
	text := strings.Repeat("word ", 2000) // ~10000 символов

	messages := SplitMessage(text, 4096)

	if len(messages) < 2 {
		t.Fatalf("SplitMessage() len = %d, want >= 2", len(messages))
	}

	var total int
	for i, m := range messages {
		if len(m) > 4096 {
			t.Errorf("message %d length = %d, exceeds 4096", i, len(m))
		}
		total += len(m)
	}
	if total != len(text) {
		t.Errorf("total length = %d, want %d (no content lost)", total, len(text))
	}
}

func TestSplitMessage_DoesNotBreakTags(t *testing.T) {
	var sb strings.Builder
	for sb.Len() < 5000 {
		sb.WriteString("plain words here <b>highlighted fragment</b> and more text ")
	}
	text := sb.String()

	messages := SplitMessage(text, 4096)

	for i, m := range messages {
		opens := strings.Count(m, "<")
		closes := strings.Count(m, ">")
		if opens != closes {
			t.Errorf("message %d has unbalanced tag brackets: %d < vs %d >", i, opens, closes)
		}
	}
}

func TestIsInsideHTMLTag(t *testing.T) {
	text := "ab <b>cd</b> ef"

	tests := []struct {
		pos  int
		want bool
	}{
		{0, false},  // до тега
		{4, true},   // внутри <b>
		{6, false},  // между тегами
		{9, true},   // внутри </b>
		{13, false}, // после тегов
	}

	for _, tt := range tests {
		if got := isInsideHTMLTag(text, tt.pos); got != tt.want {
			t.Errorf("isInsideHTMLTag(%q, %d) = %v, want %v", text, tt.pos, got, tt.want)
		}
	}
}
