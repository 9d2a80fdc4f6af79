// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cursus/pkg/pagination"
)

/*
TestFromQuery verifies defaults and clamping of the page window.
*/
func TestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: 20}},
		{"explicit", "page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"negative", "page=-2&limit=-1", pagination.Params{Page: 1, Limit: 20}},
		{"garbage", "page=x&limit=y", pagination.Params{Page: 1, Limit: 20}},
		{"capped", "limit=1000", pagination.Params{Page: 1, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, pagination.FromQuery(values))
		})
	}
}

func TestFromRequest(t *testing.T) {
	params := pagination.FromRequest(httptest.NewRequest("GET", "/api/v1/courses?page=2&limit=5", nil))
	assert.Equal(t, 5, params.Offset())
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(1, 20, 41)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)

	last := pagination.NewMeta(3, 20, 41)
	assert.False(t, last.HasNext)

	assert.Equal(t, 0, pagination.NewMeta(1, 0, 5).TotalPages)
}
