package domain

import "time"

// CriterionKind - одна из четырёх фиксированных категорий оценивания
type CriterionKind string

const (
	CriterionContent       CriterionKind = "Content"
	CriterionCommunicative CriterionKind = "Communicative Achievement"
	CriterionOrganisation  CriterionKind = "Organisation"
	CriterionLanguage      CriterionKind = "Language"
)

// CriterionOrder - канонический порядок категорий в результате
var CriterionOrder = []CriterionKind{
	CriterionContent,
	CriterionCommunicative,
	CriterionOrganisation,
	CriterionLanguage,
}

const DefaultCriterionScore = 3

type Criterion struct {
	Kind     CriterionKind `json:"name"`
	Score    float64       `json:"score"`
	Feedback string        `json:"feedback"`
}

type ErrorCategory string

const (
	CategoryGrammar    ErrorCategory = "grammar"
	CategorySpelling   ErrorCategory = "spelling"
	CategoryVocabulary ErrorCategory = "vocabulary"
	CategoryStyle      ErrorCategory = "style"

	// register сводится к style ещё на этапе разбора
	categoryRegister ErrorCategory = "register"
)

func (c ErrorCategory) IsValid() bool {
	switch c {
	case CategoryGrammar, CategorySpelling, CategoryVocabulary, CategoryStyle:
		return true
	}
	return false
}

// Normalize переводит register в style, остальные значения не трогает
// (неизвестные категории сводятся к style только при отображении).
func (c ErrorCategory) Normalize() ErrorCategory {
	if c == categoryRegister {
		return CategoryStyle
	}
	return c
}

// ForDisplay - категория для отображения: всё неизвестное считается style
func (c ErrorCategory) ForDisplay() ErrorCategory {
	if c.IsValid() {
		return c
	}
	return CategoryStyle
}

// ErrorAnnotation - одна отмеченная языковая проблема. Start/End - полуинтервал
// [start, end) в тексте работы; nil если место не нашлось.
type ErrorAnnotation struct {
	Text        string        `json:"text"`
	Correction  string        `json:"correction"`
	Category    ErrorCategory `json:"type"`
	Explanation string        `json:"explanation"`
	Start       *int          `json:"start,omitempty"`
	End         *int          `json:"end,omitempty"`
}

func (e *ErrorAnnotation) Locate(start, end int) {
	e.Start = &start
	e.End = &end
}

func (e *ErrorAnnotation) Located() bool {
	return e.Start != nil && e.End != nil
}

type AnalysisResult struct {
	OverallScore int               `json:"overallScore"`
	Criteria     []Criterion       `json:"criteria"`
	Errors       []ErrorAnnotation `json:"errors"`
}

// LocatedErrors возвращает только ошибки с найденной позицией
func (r *AnalysisResult) LocatedErrors() []ErrorAnnotation {
	var located []ErrorAnnotation
	for _, e := range r.Errors {
		if e.Located() {
			located = append(located, e)
		}
	}
	return located
}

// Assessment - сохранённый результат проверки одной работы
type Assessment struct {
	ID        string
	UserID    int64
	Level     ExamLevel
	Task      TaskType
	Text      string
	Words     int
	Result    AnalysisResult
	CreatedAt time.Time
}

type User struct {
	ID        int64 // telegram id
	Username  string
	Level     ExamLevel
	Task      TaskType
	CreatedAt time.Time
}
