package domain

import (
	"strings"
	"unicode"
)

const (
	MinWords = 20
	MaxWords = 1000

	// минимальная доля латинских букв среди всех букв
	minLatinRatio = 0.85
	// минимум различных слов, иначе текст скорее всего мусор
	minDistinctWords = 3
)

type Submission struct {
	UserID int64
	Level  ExamLevel
	Task   TaskType
	Text   string
}

func (s *Submission) Validate() error {
	if !s.Level.IsValid() {
		return ErrInvalidLevel
	}
	if !s.Task.IsValid() {
		return ErrInvalidTask
	}

	text := strings.TrimSpace(s.Text)
	if text == "" {
		return ErrEmptyText
	}

	words := strings.Fields(text)
	if len(words) < MinWords {
		return ErrTextTooShort
	}
	if len(words) > MaxWords {
		return ErrTextTooLong
	}

	if !looksEnglish(text) {
		return ErrNotEnglish
	}
	if !looksMeaningful(words) {
		return ErrNotMeaningful
	}

	return nil
}

func (s *Submission) Sanitize() {
	s.Text = strings.TrimSpace(s.Text)
}

func (s *Submission) WordCount() int {
	return len(strings.Fields(s.Text))
}

// looksEnglish - грубая эвристика: доля латинских букв среди всех букв.
// Полноценное определение языка здесь не нужно, отсекаем только явно не-английский ввод.
func looksEnglish(text string) bool {
	var letters, latin int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			latin++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(latin)/float64(letters) >= minLatinRatio
}

func looksMeaningful(words []string) bool {
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[strings.ToLower(w)] = struct{}{}
	}
	return len(distinct) >= minDistinctWords
}
