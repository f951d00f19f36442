// Package analysis восстанавливает структуру из свободного текста ответа
// модели: четыре оценки по критериям и список ошибок с позициями в работе.
// Разбор никогда не падает - при любом мусоре на входе результат структурно
// полный (4 критерия, возможно пустой список ошибок).
package analysis

import (
	"math"

	"github.com/annagav/essaycoach/internal/domain"
)

// Parse - точка входа конвейера разбора: делит ответ модели на два блока,
// извлекает критерии из первого и ошибки из второго.
func Parse(modelOutput, writing string) domain.AnalysisResult {
	analysisSeg, errorsSeg := SplitSegments(modelOutput)
	criteria := ExtractCriteria(analysisSeg)

	return domain.AnalysisResult{
		OverallScore: OverallScore(criteria),
		Criteria:     criteria,
		Errors:       LocateErrors(errorsSeg, writing),
	}
}

// OverallScore - среднее по критериям, округлённое до целого.
// Без критериев возвращает оценку по умолчанию.
func OverallScore(criteria []domain.Criterion) int {
	if len(criteria) == 0 {
		return domain.DefaultCriterionScore
	}

	var sum float64
	for _, c := range criteria {
		sum += c.Score
	}
	return int(math.Round(sum / float64(len(criteria))))
}
