package analysis

import (
	"encoding/json"

	"github.com/annagav/essaycoach/internal/domain"
)

// errorRecord - один элемент JSON-списка ошибок из ответа модели
type errorRecord struct {
	Text        string `json:"text"`
	Correction  string `json:"correction"`
	Type        string `json:"type"`
	Explanation string `json:"explanation"`
}

// LocateErrors разбирает блок ошибок и привязывает каждую ошибку к позиции
// в тексте работы. Модель может выдать несколько JSON-списков, в том числе
// битых: каждый фрагмент декодируется независимо, битые отбрасываются.
// Маска занятых символов гарантирует что повторяющаяся фраза получит разные
// вхождения и подсветки никогда не пересекутся (первое свободное совпадение
// слева выигрывает).
func LocateErrors(errorsSeg, writing string) []domain.ErrorAnnotation {
	var annotations []domain.ErrorAnnotation
	for _, frag := range extractFragments(errorsSeg) {
		var records []errorRecord
		if err := json.Unmarshal([]byte(frag), &records); err != nil {
			continue
		}
		for _, rec := range records {
			annotations = append(annotations, domain.ErrorAnnotation{
				Text:        rec.Text,
				Correction:  rec.Correction,
				Category:    domain.ErrorCategory(rec.Type).Normalize(),
				Explanation: rec.Explanation,
			})
		}
	}

	used := make([]bool, len(writing))
	lowered := asciiLower(writing)

	for i := range annotations {
		if annotations[i].Text == "" {
			continue
		}

		needle := asciiLower(annotations[i].Text)
		n := len(needle)
		for off := 0; off+n <= len(lowered); off++ {
			if lowered[off:off+n] != needle || rangeUsed(used, off, off+n) {
				continue
			}
			annotations[i].Locate(off, off+n)
			markUsed(used, off, off+n)
			break
		}
	}

	return annotations
}

// extractFragments вырезает все сбалансированные [...] фрагменты верхнего уровня
func extractFragments(s string) []string {
	var frags []string
	depth, start := 0, -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			if depth == 0 {
				start = i
			}
			depth++
		case ']':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				frags = append(frags, s[start:i+1])
				start = -1
			}
		}
	}
	return frags
}

func rangeUsed(used []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if used[i] {
			return true
		}
	}
	return false
}

func markUsed(used []bool, start, end int) {
	for i := start; i < end; i++ {
		used[i] = true
	}
}

// asciiLower - байтовый ASCII case-fold, длина строки не меняется,
// поэтому смещения в оригинале и в сложенной копии совпадают
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
