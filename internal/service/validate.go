package service

import (
	"net/http"
	"strings"
	"unicode/utf8"

	internal_errors "github.com/driftwood-dev/driftwood/internal/errors"
)

const (
	maxTitleLen  = 200
	maxBodyLen   = 40000
	maxReasonLen = 1000
)

// TextValidator checks user-authored text fields. All failures are 400s
// with a message safe to show the user.
type TextValidator struct{}

func (TextValidator) Title(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return badRequest("Title can't be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLen {
		return badRequest("Title is too long")
	}
	return nil
}

func (TextValidator) Body(body string) error {
	if strings.TrimSpace(body) == "" {
		return badRequest("Body can't be empty")
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return badRequest("Body is too long")
	}
	return nil
}

func (TextValidator) Reason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return badRequest("Reason can't be empty")
	}
	if utf8.RuneCountInString(reason) > maxReasonLen {
		return badRequest("Reason is too long")
	}
	return nil
}

func badRequest(msg string) error {
	return &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest}
}
