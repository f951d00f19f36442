// Package render отвечает за HTML-представление результата проверки:
// подсветка найденных ошибок прямо в тексте работы плюс список того,
// что не удалось привязать к позиции.
package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/annagav/essaycoach/internal/domain"
)

// HighlightHTML вставляет <mark> вокруг найденных спанов. Текст и атрибуты
// экранируются, спаны не пересекаются по построению, сортируем по Start.
func HighlightHTML(text string, errors []domain.ErrorAnnotation) string {
	located := make([]domain.ErrorAnnotation, 0, len(errors))
	for _, e := range errors {
		if e.Located() {
			located = append(located, e)
		}
	}
	sort.Slice(located, func(i, j int) bool {
		return *located[i].Start < *located[j].Start
	})

	var b strings.Builder
	pos := 0
	for _, e := range located {
		start, end := *e.Start, *e.End
		if start < pos || end > len(text) || start >= end {
			continue
		}
		b.WriteString(html.EscapeString(text[pos:start]))

		category := e.Category.ForDisplay()
		title := e.Correction
		if e.Explanation != "" {
			title = e.Correction + " — " + e.Explanation
		}
		fmt.Fprintf(&b, `<mark class="err-%s" title="%s">%s</mark>`,
			category,
			html.EscapeString(title),
			html.EscapeString(text[start:end]))
		pos = end
	}
	b.WriteString(html.EscapeString(text[pos:]))
	return b.String()
}

// HighlightTelegram - вариант для telegram HTML: <mark> там нет,
// ошибки подчёркиваем
func HighlightTelegram(text string, errors []domain.ErrorAnnotation) string {
	located := make([]domain.ErrorAnnotation, 0, len(errors))
	for _, e := range errors {
		if e.Located() {
			located = append(located, e)
		}
	}
	sort.Slice(located, func(i, j int) bool {
		return *located[i].Start < *located[j].Start
	})

	var b strings.Builder
	pos := 0
	for _, e := range located {
		start, end := *e.Start, *e.End
		if start < pos || end > len(text) || start >= end {
			continue
		}
		b.WriteString(html.EscapeString(text[pos:start]))
		b.WriteString("<u>")
		b.WriteString(html.EscapeString(text[start:end]))
		b.WriteString("</u>")
		pos = end
	}
	b.WriteString(html.EscapeString(text[pos:]))
	return b.String()
}

var categoryLegend = []struct {
	Category domain.ErrorCategory
	Label    string
}{
	{domain.CategoryGrammar, "Grammar"},
	{domain.CategorySpelling, "Spelling"},
	{domain.CategoryVocabulary, "Vocabulary"},
	{domain.CategoryStyle, "Style"},
}

const pageStyle = `<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; line-height: 1.6; }
mark { border-radius: 2px; padding: 0 2px; }
mark.err-grammar { background: #ffd6d6; }
mark.err-spelling { background: #ffe9b8; }
mark.err-vocabulary { background: #d6e4ff; }
mark.err-style { background: #e2d6ff; }
.legend span { margin-right: 1rem; }
.scores td { padding: 2px 12px 2px 0; }
</style>`

// Report собирает полную HTML-страницу отчёта по одной проверке.
func Report(a *domain.Assessment) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>Writing assessment %s</title>\n", html.EscapeString(a.ID))
	b.WriteString(pageStyle)
	b.WriteString("\n</head>\n<body>\n")

	fmt.Fprintf(&b, "<h1>%s — %s</h1>\n",
		html.EscapeString(a.Level.FullName()),
		html.EscapeString(string(a.Task)))
	fmt.Fprintf(&b, "<p>Overall score: <strong>%d/5</strong> · %d words</p>\n",
		a.Result.OverallScore, a.Words)

	b.WriteString("<table class=\"scores\">\n")
	for _, c := range a.Result.Criteria {
		fmt.Fprintf(&b, "<tr><td>%s</td><td><strong>%g/5</strong></td><td>%s</td></tr>\n",
			html.EscapeString(string(c.Kind)),
			c.Score,
			html.EscapeString(c.Feedback))
	}
	b.WriteString("</table>\n")

	b.WriteString("<h2>Your text</h2>\n<p>")
	b.WriteString(strings.ReplaceAll(HighlightHTML(a.Text, a.Result.Errors), "\n", "<br>\n"))
	b.WriteString("</p>\n")

	b.WriteString("<p class=\"legend\">")
	for _, l := range categoryLegend {
		fmt.Fprintf(&b, `<span><mark class="err-%s">%s</mark></span>`, l.Category, l.Label)
	}
	b.WriteString("</p>\n")

	if unlocated := unlocatedErrors(a.Result.Errors); len(unlocated) > 0 {
		b.WriteString("<h2>Other issues</h2>\n<ul>\n")
		for _, e := range unlocated {
			fmt.Fprintf(&b, "<li><em>%s</em> → %s (%s): %s</li>\n",
				html.EscapeString(e.Text),
				html.EscapeString(e.Correction),
				e.Category.ForDisplay(),
				html.EscapeString(e.Explanation))
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
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
