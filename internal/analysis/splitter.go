package analysis

import "strings"

// ErrorsMarker разделяет ответ модели на блок с оценками и блок с ошибками.
const ErrorsMarker = "ERRORS:"

// SplitSegments делит сырой ответ модели по первому вхождению маркера.
// Без маркера весь текст считается блоком оценок, блок ошибок пустой.
// Маркер остаётся в начале блока ошибок.
func SplitSegments(raw string) (analysisSeg, errorsSeg string) {
	idx := strings.Index(raw, ErrorsMarker)
	if idx == -1 {
		return raw, ""
	}
	return raw[:idx], raw[idx:]
}
