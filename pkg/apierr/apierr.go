// Package apierr maps service errors onto HTTP responses.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Code string

const (
	CodeValidationFailed Code = "validation_failed"
	CodeNotFound         Code = "not_found"
	CodeUnauthorized     Code = "unauthorized"
	CodeConflict         Code = "conflict"
	CodeUpstreamFailed   Code = "upstream_failed"
	CodeInternal         Code = "internal_server_error"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
	Status  int    `json:"-"`
	cause   error
}

func (e *APIError) Error() string { return fmt.Sprintf("[%s] %s", e.Code, e.Message) }

func (e *APIError) Unwrap() error { return e.cause }

func New(code Code, status int, message string, details any) *APIError {
	return &APIError{Code: code, Message: message, Details: details, Status: status}
}

// FieldErrors maps field name to a human readable problem.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Err returns nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return Validation("validation failed", f)
}

func Validation(message string, details any) *APIError {
	return New(CodeValidationFailed, http.StatusBadRequest, message, details)
}

func NotFound(what string) *APIError {
	return New(CodeNotFound, http.StatusNotFound, what+" not found", nil)
}

func Unauthorized(message string) *APIError {
	return New(CodeUnauthorized, http.StatusUnauthorized, message, nil)
}

func Conflict(message string) *APIError {
	return New(CodeConflict, http.StatusConflict, message, nil)
}

// Upstream wraps a failure of a remote collaborator.
func Upstream(service string, err error) *APIError {
	e := New(CodeUpstreamFailed, http.StatusBadGateway, service+" request failed", nil)
	if err != nil {
		e.Details = err.Error()
	}
	e.cause = err
	return e
}

func Internal(err error) *APIError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &APIError{Code: CodeInternal, Message: msg, Status: http.StatusInternalServerError, cause: err}
}

// From classifies any error into an APIError.
func From(err error) *APIError {
	var apiErr *APIError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record")
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return New(codeForStatus(he.Code), he.Code, fmt.Sprint(he.Message), nil)
	}
	return Internal(err)
}

func codeForStatus(status int) Code {
	switch {
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeUnauthorized
	case status == http.StatusConflict:
		return CodeConflict
	case status >= 500:
		return CodeInternal
	}
	return CodeValidationFailed
}

// Respond writes err as {"error","code","details"}.
func Respond(c echo.Context, err error) error {
	e := From(err)
	return c.JSON(e.Status, e)
}

// BadJSON is the response for a request body that does not bind.
func BadJSON(c echo.Context) error {
	return Respond(c, Validation("bad json", nil))
}

// ErrorHandler replaces echo's default so routing errors share the same body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	_ = Respond(c, err)
}
