// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads handler inputs: JSON bodies, path parameters and
the caller identity the gate attached to the context.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/ctxutil"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON decodes a single JSON object from the body into target.

Unknown fields are rejected, so a misspelled "rol" does not silently fall
back to the default role.

Returns:
  - error: a VALIDATION_ERROR [apperr.AppError], or nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	present, err := DecodeOptionalJSON(writer, request, target)
	if err != nil {
		return err
	}
	if !present {
		return apperr.ValidationError("Request body is empty")
	}
	return nil
}

// DecodeOptionalJSON is [DecodeJSON] for endpoints where the body may be
// omitted. It reports false, with no error, when the body is empty, whatever
// the declared Content-Length (chunked requests report -1).
func DecodeOptionalJSON(writer http.ResponseWriter, request *http.Request, target any) (bool, error) {
	if request.Body == nil || request.Body == http.NoBody {
		return false, nil
	}
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(target)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
	case errors.As(err, &tooLarge):
		return false, apperr.ValidationError("Request body too large")
	case errors.Is(err, io.EOF):
		return false, nil
	default:
		return false, validate.ErrInvalidJSON
	}

	// A second value after the object is a malformed body too.
	if decoder.More() {
		return false, validate.ErrInvalidJSON
	}
	return true, nil
}

// Param returns a chi URL parameter, or "".
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// RequiredClaims returns the verified claims. Behind the gate it never fails;
// the error covers a route mounted without it.
func RequiredClaims(request *http.Request) (*sec.Claims, error) {
	claims := ctxutil.Claims(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredSubject returns the caller's normalized email.
func RequiredSubject(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// CallerRole decodes the caller's role code. Anonymous requests and claims
// that do not decode yield the empty code, which holds no role.
func CallerRole(request *http.Request) sec.RoleCode {
	claims := ctxutil.Claims(request.Context())
	if claims == nil {
		return 0
	}
	code, err := claims.RoleCode()
	if err != nil {
		return 0
	}
	return code
}
