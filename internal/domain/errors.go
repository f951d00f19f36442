package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

var (
	ErrUserNotFound = errors.New("user not found")
)

var (
	ErrEmptyText     = errors.New("empty writing text")
	ErrTextTooShort  = errors.New("writing is too short")
	ErrTextTooLong   = errors.New("writing is too long")
	ErrNotEnglish    = errors.New("writing does not look like English")
	ErrNotMeaningful = errors.New("writing does not look like meaningful text")
	ErrInvalidLevel  = errors.New("invalid exam level")
	ErrInvalidTask   = errors.New("invalid task type")
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrLLMFailed          = errors.New("llm request failed")
)
