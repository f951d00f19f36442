package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/annagav/essaycoach/internal/domain"
)

const criterionNames = `(content|communicative achievement|organi[sz]ation|language)`

var (
	// строгий заголовок: "Content (4/5):" или "Language (3.5/5):"
	headerPattern = regexp.MustCompile(`(?i)` + criterionNames + `\s*\((\d+(?:\.\d+)?)\s*/\s*5\)\s*:`)

	// слабый вариант: имя категории где-то в строке, одна цифра перед /5
	loosePattern = regexp.MustCompile(`(?i)` + criterionNames + `.*?(\d)\s*/\s*5[)\s:]*(.*)`)

	// последняя попытка: имя категории, дальше где-нибудь N/5
	lastResortPatterns = map[domain.CriterionKind]*regexp.Regexp{
		domain.CriterionContent:       regexp.MustCompile(`(?is)content.*?(\d+(?:\.\d+)?)\s*/\s*5`),
		domain.CriterionCommunicative: regexp.MustCompile(`(?is)communicative achievement.*?(\d+(?:\.\d+)?)\s*/\s*5`),
		domain.CriterionOrganisation:  regexp.MustCompile(`(?is)organi[sz]ation.*?(\d+(?:\.\d+)?)\s*/\s*5`),
		domain.CriterionLanguage:      regexp.MustCompile(`(?is)language.*?(\d+(?:\.\d+)?)\s*/\s*5`),
	}
)

// ExtractCriteria разбирает блок оценок и всегда возвращает ровно четыре
// критерия в каноническом порядке. Формат ответа модели не гарантирован,
// поэтому извлечение идёт в три прохода: строгий шаблон, построчный слабый
// шаблон, и значения по умолчанию для того что так и не нашлось.
func ExtractCriteria(segment string) []domain.Criterion {
	found := make(map[domain.CriterionKind]domain.Criterion, 4)

	// проход 1: строгие заголовки, feedback до следующего заголовка
	locs := headerPattern.FindAllStringSubmatchIndex(segment, -1)
	for i, loc := range locs {
		kind := kindFromName(segment[loc[2]:loc[3]])
		if _, ok := found[kind]; ok {
			continue
		}

		end := len(segment)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		found[kind] = domain.Criterion{
			Kind:     kind,
			Score:    parseScore(segment[loc[4]:loc[5]]),
			Feedback: collapseSpaces(segment[loc[1]:end]),
		}
	}

	// проход 2: построчный поиск недостающих категорий
	if len(found) < len(domain.CriterionOrder) {
		for _, line := range strings.Split(segment, "\n") {
			m := loosePattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			kind := kindFromName(m[1])
			if _, ok := found[kind]; ok {
				continue
			}

			feedback := collapseSpaces(m[3])
			if feedback == "" {
				feedback = defaultFeedback(kind)
			}
			found[kind] = domain.Criterion{
				Kind:     kind,
				Score:    parseScore(m[2]),
				Feedback: feedback,
			}
		}
	}

	// проход 3: хотя бы оценку, иначе значение по умолчанию
	for _, kind := range domain.CriterionOrder {
		if _, ok := found[kind]; ok {
			continue
		}

		score := float64(domain.DefaultCriterionScore)
		if m := lastResortPatterns[kind].FindStringSubmatch(segment); m != nil {
			score = parseScore(m[1])
		}
		found[kind] = domain.Criterion{
			Kind:     kind,
			Score:    score,
			Feedback: defaultFeedback(kind),
		}
	}

	criteria := make([]domain.Criterion, 0, len(domain.CriterionOrder))
	for _, kind := range domain.CriterionOrder {
		criteria = append(criteria, found[kind])
	}
	return criteria
}

func kindFromName(name string) domain.CriterionKind {
	switch strings.ToLower(name) {
	case "content":
		return domain.CriterionContent
	case "communicative achievement":
		return domain.CriterionCommunicative
	case "organisation", "organization":
		return domain.CriterionOrganisation
	default:
		return domain.CriterionLanguage
	}
}

func parseScore(s string) float64 {
	score, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.DefaultCriterionScore
	}
	if score < 0 {
		return 0
	}
	if score > 5 {
		return 5
	}
	return score
}

func defaultFeedback(kind domain.CriterionKind) string {
	return fmt.Sprintf("No detailed feedback was provided for %s.", kind)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
