package prompt

import (
	"strings"
	"testing"

	"github.com/annagav/essaycoach/internal/domain"
)

func TestSystem(t *testing.T) {
	got := System(domain.LevelCAE, domain.TaskProposal)

	for _, want := range []string{
		"C1 Advanced (CAE)",
		"proposal",
		"Content (N/5):",
		"Communicative Achievement (N/5):",
		"Organisation (N/5):",
		"Language (N/5):",
		"ERRORS:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("System() missing %q", want)
		}
	}
}

func TestSystem_AllTasksCovered(t *testing.T) {
	for _, task := range domain.TaskTypes {
		got := System(domain.LevelCPE, task)
		if strings.Contains(got, "%!") {
			t.Errorf("System(%s) has a formatting artifact: %s", task, got)
		}
	}
}

func TestUser(t *testing.T) {
	sub := &domain.Submission{
		Level: domain.LevelCPE,
		Task:  domain.TaskReview,
		Text:  "The film was excellent in every respect.",
	}

	got := User(sub)

	if !strings.Contains(got, "CPE") {
		t.Error("User() missing exam level")
	}
	if !strings.Contains(got, "review") {
		t.Error("User() missing task type")
	}
	if !strings.Contains(got, sub.Text) {
		t.Error("User() missing writing text")
	}
	if !strings.Contains(got, "Word count: 7") {
		t.Errorf("User() wrong word count:\n%s", got)
	}
}
