// Package prompt собирает промпты для проверки письменной работы.
package prompt

import (
	"fmt"
	"strings"

	"github.com/annagav/essaycoach/internal/domain"
)

// системный промпт фиксирует текстовый контракт, который потом разбирает analysis
const systemTemplate = `You are an experienced Cambridge English writing examiner assessing a %s %s.

Evaluate the writing against the four official criteria, each scored 0-5.

Response format (exactly this structure):
Content (N/5): <feedback>
Communicative Achievement (N/5): <feedback>
Organisation (N/5): <feedback>
Language (N/5): <feedback>
ERRORS:
[{"text": "<exact quote from the writing>", "correction": "<suggested fix>", "type": "grammar|spelling|vocabulary|style", "explanation": "<short explanation>"}]

Rules:
1. Use every criterion name exactly as written above
2. "text" must quote the writing verbatim, before correction
3. List each error once, even if it repeats
4. Return an empty list [] if there are no errors
5. No markdown, no extra commentary after the error list`

var taskDescriptions = map[domain.TaskType]string{
	domain.TaskEssay:    "discursive essay",
	domain.TaskProposal: "proposal",
	domain.TaskReport:   "report",
	domain.TaskReview:   "review",
	domain.TaskLetter:   "formal letter",
}

func System(level domain.ExamLevel, task domain.TaskType) string {
	desc, ok := taskDescriptions[task]
	if !ok {
		desc = task.String()
	}
	return fmt.Sprintf(systemTemplate, level.FullName(), desc)
}

func User(sub *domain.Submission) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Exam level: %s\n", sub.Level)
	fmt.Fprintf(&sb, "Task type: %s\n", sub.Task)
	fmt.Fprintf(&sb, "Word count: %d\n\n", sub.WordCount())
	sb.WriteString("Student writing:\n")
	sb.WriteString(sub.Text)

	return sb.String()
}
