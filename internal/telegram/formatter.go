package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/annagav/essaycoach/internal/domain"
	"github.com/annagav/essaycoach/internal/render"
)

func FormatAssessment(a *domain.Assessment) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%s · %s</b>\n", a.Level.FullName(), a.Task)
	fmt.Fprintf(&sb, "Общая оценка: <b>%d/5</b> (%d слов)\n\n", a.Result.OverallScore, a.Words)

	for _, c := range a.Result.Criteria {
		fmt.Fprintf(&sb, "%s <b>%s</b> — %g/5\n%s\n\n",
			getScoreIcon(c.Score),
			html.EscapeString(string(c.Kind)),
			c.Score,
			html.EscapeString(c.Feedback),
		)
	}

	if located := a.Result.LocatedErrors(); len(located) > 0 {
		sb.WriteString("━━━━━━━━━━━━━━━━━━━━━\n")
		sb.WriteString("<b>Ваш текст с отмеченными ошибками:</b>\n\n")
		sb.WriteString(render.HighlightTelegram(a.Text, a.Result.Errors))
		sb.WriteString("\n\n")

		sb.WriteString("<b>Исправления:</b>\n")
		for i, e := range located {
			fmt.Fprintf(&sb, "%d. <u>%s</u> → <b>%s</b> [%s]\n   %s\n",
				i+1,
				html.EscapeString(e.Text),
				html.EscapeString(e.Correction),
				e.Category.ForDisplay(),
				html.EscapeString(e.Explanation),
			)
		}
	}

	if unlocated := unlocatedErrors(a.Result.Errors); len(unlocated) > 0 {
		sb.WriteString("\n<b>Ещё замечания:</b>\n")
		for _, e := range unlocated {
			fmt.Fprintf(&sb, "• %s → <b>%s</b> [%s]: %s\n",
				html.EscapeString(e.Text),
				html.EscapeString(e.Correction),
				e.Category.ForDisplay(),
				html.EscapeString(e.Explanation),
			)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func FormatHistory(history []domain.Assessment) string {
	var sb strings.Builder
	sb.WriteString("<b>Последние работы:</b>\n\n")

	for i, a := range history {
		fmt.Fprintf(&sb, "%d. %s · %s — <b>%d/5</b>, %d слов (%s)\n",
			i+1,
			a.Level,
			a.Task,
			a.Result.OverallScore,
			a.Words,
			a.CreatedAt.Format("02.01.2006"),
		)
	}

	sb.WriteString(fmt.Sprintf("\nВсего: %d", len(history)))
	return sb.String()
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// ищем пробел или перевод строки, не ломая HTML-теги
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}

		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}

	// внутри тега - ищем конец
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				for j := i + 1; j < len(text) && j < i+50; j++ {
					if text[j] == '\n' || text[j] == ' ' {
						return j + 1
					}
				}
				return i + 1
			}
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}

func getScoreIcon(score float64) string {
	switch {
	case score >= 4.5:
		return "●"
	case score >= 3:
		return "◐"
	default:
		return "○"
	}
}

func unlocatedErrors(errors []domain.ErrorAnnotation) []domain.ErrorAnnotation {
	var out []domain.ErrorAnnotation
	for _, e := range errors {
		if !e.Located() {
			out = append(out, e)
		}
	}
	return out
}
