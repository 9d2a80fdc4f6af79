// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads page windows from list queries and describes the
// returned window in the response envelope.
//
// Pages are 1-indexed. A list query such as
//
//	GET /api/v1/users?page=2&limit=50
//
// maps to LIMIT 50 OFFSET 50. Out-of-range values are clamped rather than
// rejected so a stale client link still returns a page.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

// Query keys.
const (
	PageKey  = "page"
	LimitKey = "limit"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is one requested page window.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows skipped before the window.
func (params Params) Offset() int {
	return (max(params.Page, 1) - 1) * params.Limit
}

// Meta describes the window that was served.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta computes the page count for total rows split by limit.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}

// FromRequest reads the window from the request query string.
func FromRequest(request *http.Request) Params {
	return FromQuery(request.URL.Query())
}

// FromQuery reads the window from parsed query values.
func FromQuery(values url.Values) Params {
	page := intOr(values.Get(PageKey), 1)
	if page < 1 {
		page = 1
	}

	limit := intOr(values.Get(LimitKey), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: min(limit, MaxLimit)}
}

func intOr(raw string, fallback int) int {
	if parsed, err := strconv.Atoi(raw); err == nil {
		return parsed
	}
	return fallback
}
