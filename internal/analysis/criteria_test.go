package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/annagav/essaycoach/internal/domain"
)

const wellFormed = `Content (4/5): The essay addresses all points of the task.
Communicative Achievement (3/5): The register is mostly appropriate
but slips into informality.
Organisation (4/5): Clear paragraphing and logical flow.
Language (5/5): Wide range of structures used accurately.`

func TestExtractCriteria_WellFormed(t *testing.T) {
	criteria := ExtractCriteria(wellFormed)

	if len(criteria) != 4 {
		t.Fatalf("ExtractCriteria() returned %d criteria, want 4", len(criteria))
	}

	wantScores := map[domain.CriterionKind]float64{
		domain.CriterionContent:       4,
		domain.CriterionCommunicative: 3,
		domain.CriterionOrganisation:  4,
		domain.CriterionLanguage:      5,
	}

	for i, kind := range domain.CriterionOrder {
		if criteria[i].Kind != kind {
			t.Errorf("criteria[%d].Kind = %q, want %q", i, criteria[i].Kind, kind)
		}
		if criteria[i].Score != wantScores[kind] {
			t.Errorf("criteria[%d].Score = %v, want %v", i, criteria[i].Score, wantScores[kind])
		}
		if criteria[i].Feedback == "" {
			t.Errorf("criteria[%d].Feedback is empty", i)
		}
	}

	// перенос строки внутри feedback схлопывается в пробел
	if got := criteria[1].Feedback; strings.Contains(got, "\n") {
		t.Errorf("feedback contains newline: %q", got)
	}
	if want := "The register is mostly appropriate but slips into informality."; criteria[1].Feedback != want {
		t.Errorf("feedback = %q, want %q", criteria[1].Feedback, want)
	}
}

func TestExtractCriteria_ScrambledOrder(t *testing.T) {
	segment := `Language (2/5): weak.
Content (5/5): strong.
Organisation (3/5): fine.
Communicative Achievement (4/5): good.`

	criteria := ExtractCriteria(segment)

	for i, kind := range domain.CriterionOrder {
		if criteria[i].Kind != kind {
			t.Errorf("criteria[%d].Kind = %q, want %q", i, criteria[i].Kind, kind)
		}
	}
	if criteria[0].Score != 5 || criteria[3].Score != 2 {
		t.Errorf("scores not matched to categories: %+v", criteria)
	}
}

func TestExtractCriteria_MissingCategories(t *testing.T) {
	segment := `Content (4/5): covers the task.`

	criteria := ExtractCriteria(segment)

	if len(criteria) != 4 {
		t.Fatalf("ExtractCriteria() returned %d criteria, want 4", len(criteria))
	}

	if criteria[0].Score != 4 {
		t.Errorf("Content score = %v, want 4", criteria[0].Score)
	}

	for _, i := range []int{1, 2, 3} {
		c := criteria[i]
		if c.Score != domain.DefaultCriterionScore {
			t.Errorf("%s score = %v, want default %d", c.Kind, c.Score, domain.DefaultCriterionScore)
		}
		if !strings.Contains(c.Feedback, string(c.Kind)) {
			t.Errorf("%s feedback %q does not name the category", c.Kind, c.Feedback)
		}
	}
}

func TestExtractCriteria_EmptyInput(t *testing.T) {
	criteria := ExtractCriteria("")

	if len(criteria) != 4 {
		t.Fatalf("ExtractCriteria(\"\") returned %d criteria, want 4", len(criteria))
	}
	for i, c := range criteria {
		if c.Kind != domain.CriterionOrder[i] {
			t.Errorf("criteria[%d].Kind = %q, want %q", i, c.Kind, domain.CriterionOrder[i])
		}
		if c.Score != domain.DefaultCriterionScore {
			t.Errorf("%s score = %v, want %d", c.Kind, c.Score, domain.DefaultCriterionScore)
		}
	}
}

func TestExtractCriteria_DecimalScores(t *testing.T) {
	segment := `Content (3.5/5): decent.
Communicative Achievement (4.5/5): strong.
Organisation (4/5): fine.
Language (2.5/5): limited range.`

	criteria := ExtractCriteria(segment)

	if criteria[0].Score != 3.5 {
		t.Errorf("Content score = %v, want 3.5", criteria[0].Score)
	}
	if criteria[1].Score != 4.5 {
		t.Errorf("Communicative Achievement score = %v, want 4.5", criteria[1].Score)
	}
	if criteria[3].Score != 2.5 {
		t.Errorf("Language score = %v, want 2.5", criteria[3].Score)
	}
}

func TestExtractCriteria_AmericanSpelling(t *testing.T) {
	segment := `Organization (4/5): well structured.`

	criteria := ExtractCriteria(segment)

	if criteria[2].Kind != domain.CriterionOrganisation {
		t.Fatalf("criteria[2].Kind = %q, want Organisation", criteria[2].Kind)
	}
	if criteria[2].Score != 4 {
		t.Errorf("Organisation score = %v, want 4", criteria[2].Score)
	}
}

func TestExtractCriteria_LooseFormat(t *testing.T) {
	// без скобок и двоеточия после балла - ловится вторым проходом
	segment := `Here is my evaluation.
Content: 4/5 - all points are covered
Communicative Achievement score is 3/5, register wobbles
Organisation 5/5
Language: 4/5 minor slips only`

	criteria := ExtractCriteria(segment)

	wantScores := []float64{4, 3, 5, 4}
	for i, want := range wantScores {
		if criteria[i].Score != want {
			t.Errorf("%s score = %v, want %v", criteria[i].Kind, criteria[i].Score, want)
		}
	}

	if !strings.Contains(criteria[0].Feedback, "all points are covered") {
		t.Errorf("Content feedback = %q, want trailing text preserved", criteria[0].Feedback)
	}
	// строка без хвоста получает сгенерированный feedback
	if !strings.Contains(criteria[2].Feedback, "Organisation") {
		t.Errorf("Organisation feedback = %q, want generated placeholder", criteria[2].Feedback)
	}
}

func TestExtractCriteria_LastResortScoreOnly(t *testing.T) {
	segment := `The content of this piece deserves 4/5 overall, though
the rest is hard to judge.`

	criteria := ExtractCriteria(segment)

	if criteria[0].Score != 4 {
		t.Errorf("Content score = %v, want 4 recovered from free text", criteria[0].Score)
	}
	if criteria[3].Score != domain.DefaultCriterionScore {
		t.Errorf("Language score = %v, want default", criteria[3].Score)
	}
}

func TestExtractCriteria_ScoreClamped(t *testing.T) {
	segment := `Content (9/5): impossible score.`

	criteria := ExtractCriteria(segment)

	if criteria[0].Score != 5 {
		t.Errorf("Content score = %v, want clamped to 5", criteria[0].Score)
	}
}

func TestExtractCriteria_Idempotent(t *testing.T) {
	first := ExtractCriteria(wellFormed)

	var sb strings.Builder
	for _, c := range first {
		fmt.Fprintf(&sb, "%s (%g/5): %s\n", c.Kind, c.Score, c.Feedback)
	}

	second := ExtractCriteria(sb.String())

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("criteria[%d] changed on re-run: %+v != %+v", i, first[i], second[i])
		}
	}
}
