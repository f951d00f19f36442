package telegram

import (
	"strings"

	"github.com/annagav/essaycoach/internal/domain"
)

// ParseLevelArg разбирает аргумент команды /level
func ParseLevelArg(arg string) (domain.ExamLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(arg)) {
	case "CAE", "C1", "ADVANCED":
		return domain.LevelCAE, true
	case "CPE", "C2", "PROFICIENCY":
		return domain.LevelCPE, true
	default:
		return "", false
	}
}

// ParseTaskArg разбирает аргумент команды /task
func ParseTaskArg(arg string) (domain.TaskType, bool) {
	task := domain.TaskType(strings.ToLower(strings.TrimSpace(arg)))
	if task.IsValid() {
		return task, true
	}
	return "", false
}
