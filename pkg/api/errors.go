package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrResourceUnavailable is matched by every error produced for an upstream
// response with a non-success status.
var ErrResourceUnavailable = errors.New("resource unavailable")

// StatusError describes a failed upstream call in the shape of RFC 7807
// problem details, so the CLI can print something readable.
type StatusError struct {
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

func (se *StatusError) Error() string {
	if se.Instance == "" {
		return fmt.Sprintf("%d %s: %s", se.Status, se.Title, se.Detail)
	}
	return fmt.Sprintf("%d %s: %s (%s)", se.Status, se.Title, se.Detail, se.Instance)
}

func (se *StatusError) Unwrap() error {
	return ErrResourceUnavailable
}

// NewStatusError builds the error for a response with the given status code.
// detail says which resource was being fetched.
func NewStatusError(status int, detail, instance string) *StatusError {
	title := http.StatusText(status)
	if title == "" {
		title = "Unknown Status"
	}
	return &StatusError{
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// IsSuccess reports whether status is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
