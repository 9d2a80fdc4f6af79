// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error type services return to handlers.

An [AppError] carries everything respond.Error needs: the HTTP status, a
stable machine code, a client-safe message and optional field details. The
wrapped Cause is for logs only.

Services wrap storage errors with fmt.Errorf("x_failed: %w", err); the
AppError stays reachable through the chain and [As] finds it.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is a client-facing failure.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`

	// RetryAfter is sent as the Retry-After header when positive.
	RetryAfter time.Duration `json:"-"`
}

// FieldError names one rejected input field by its JSON key.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another AppError by code, so errors.Is(err, apperr.NotFound("x"))
// holds for any NOT_FOUND error.
func (e *AppError) Is(target error) bool {
	var other *AppError
	return errors.As(target, &other) && other.Code == e.Code
}

const (
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnprocessable      = "UNPROCESSABLE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

var statusOf = map[string]int{
	CodeNotFound:           http.StatusNotFound,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeConflict:           http.StatusConflict,
	CodeValidation:         http.StatusBadRequest,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeUnprocessable:      http.StatusUnprocessableEntity,
	CodeInternal:           http.StatusInternalServerError,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusOf[code]}
}

// # Client Errors

// NotFound reports a missing resource: NotFound("Course") reads "Course not found".
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found")
}

// Unauthorized rejects a missing or bad credential. The message must not say
// which check failed.
func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

// Forbidden rejects an authenticated caller whose roles do not suffice.
func Forbidden(message string) *AppError {
	return newError(CodeForbidden, message)
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

// ValidationError rejects malformed input, optionally per field.
func ValidationError(message string, details ...FieldError) *AppError {
	appError := newError(CodeValidation, message)
	appError.Details = details
	return appError
}

// RateLimited rejects a throttled client. retryAfter is rounded up to whole seconds.
func RateLimited(retryAfter time.Duration) *AppError {
	seconds := int((retryAfter + time.Second - 1) / time.Second)
	appError := newError(CodeRateLimited, fmt.Sprintf("Too many requests. Try again in %ds.", seconds))
	appError.RetryAfter = time.Duration(seconds) * time.Second
	return appError
}

// Unprocessable rejects a well-formed request that would break a rule.
func Unprocessable(message string) *AppError {
	return newError(CodeUnprocessable, message)
}

// # Server Errors

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	appError := newError(CodeInternal, "An unexpected error occurred")
	appError.Cause = cause
	return appError
}

// ServiceUnavailable reports a dependency outage.
func ServiceUnavailable(message string) *AppError {
	return newError(CodeServiceUnavailable, message)
}

// # Inspection

// As returns the first AppError in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// HasCode reports whether err carries an AppError with code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}

func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
