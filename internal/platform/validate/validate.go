// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate checks request payloads and path values, and reports every
// failed rule as one VALIDATION_ERROR [apperr.AppError].
//
// # Rules
//
// Payloads declare their rules with go-playground struct tags. Two tags are
// added to the stock set:
//
//	rolecode  a 4-character wire role string of '0' and '1' ("0110")
//	role      a role name, case-insensitive ("Teacher")
//
// Field errors are named after the JSON key, so a client sees "grant[0]"
// rather than "Grant[0]".
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/cursus/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Struct validates a tagged payload. It returns nil when every rule passes.
func Struct(payload any) error {
	return toAppError(engine.Struct(payload), "")
}

// Var validates a single value against tag and reports failures under field.
//
//	validate.Var("id", chi.URLParam(request, "id"), "uuid")
func Var(field string, value any, tag string) error {
	return toAppError(engine.Var(value, tag), field)
}

// toAppError converts validator output. For single values the library leaves
// the field name empty, so field is used instead.
func toAppError(err error, field string) error {
	if err == nil {
		return nil
	}

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return apperr.Internal(fmt.Errorf("validate_failed: %w", err))
	}

	details := make([]apperr.FieldError, 0, len(failures))
	for _, failure := range failures {
		name := failure.Field()
		if name == "" {
			name = field
		}
		details = append(details, apperr.FieldError{Field: name, Message: describe(failure)})
	}
	return apperr.ValidationError("Validation failed", details...)
}
