// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/respond"
	"github.com/taibuivan/cursus/pkg/pagination"
)

/*
TestError_AppError verifies that an [apperr.AppError] is rendered with its status and code.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, apperr.Forbidden("Insufficient permissions"))

	assert.Equal(t, http.StatusForbidden, recorder.Code)

	var body respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "Insufficient permissions", body.Error)
	assert.Empty(t, recorder.Header().Get("Retry-After"))
}

/*
TestError_HidesInternalCause verifies that unknown errors become a generic 500.
*/
func TestError_HidesInternalCause(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, errors.New("pq: relation users does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "relation")
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

func TestError_RetryAfter(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Error(recorder, httptest.NewRequest(http.MethodPost, "/", nil), apperr.RateLimited(90*time.Second))

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "90", recorder.Header().Get("Retry-After"))
}

func TestOK_OmitsMeta(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.OK(recorder, map[string]string{"id": "1"})

	assert.JSONEq(t, `{"data":{"id":"1"}}`, recorder.Body.String())
}

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Paginated(recorder, []string{"a", "b"}, pagination.NewMeta(1, 2, 5))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t,
		`{"data":["a","b"],"meta":{"page":1,"limit":2,"total":5,"total_pages":3,"has_next":true}}`,
		recorder.Body.String(),
	)
}
