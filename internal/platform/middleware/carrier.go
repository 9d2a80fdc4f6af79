// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/cursus/internal/platform/constants"
)

// Carrier extracts a raw access token from a request.
//
// It reports false when the request carries no token. A Carrier never
// validates the token; that is the verifier's job.
type Carrier interface {
	Extract(request *http.Request) (string, bool)
}

// BearerCarrier reads "Authorization: Bearer <token>".
type BearerCarrier struct{}

// Extract implements [Carrier]. Any other scheme counts as no token.
func (BearerCarrier) Extract(request *http.Request) (string, bool) {
	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// CookieCarrier reads the token from a named cookie.
type CookieCarrier struct {
	Name string
}

// Extract implements [Carrier].
func (carrier CookieCarrier) Extract(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(carrier.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// AnyCarrier tries each carrier in order and returns the first token found.
type AnyCarrier []Carrier

// Extract implements [Carrier].
func (carriers AnyCarrier) Extract(request *http.Request) (string, bool) {
	for _, carrier := range carriers {
		if token, ok := carrier.Extract(request); ok {
			return token, true
		}
	}
	return "", false
}
