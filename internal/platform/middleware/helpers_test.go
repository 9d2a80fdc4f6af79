// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/cursus/internal/platform/sec"
)

// forgeHS256 signs claims without the codec's checks.
func forgeHS256(claims sec.Claims) (string, error) {
	claims.Issuer = "cursus-test"
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(gateSecret)
}

// tamperPayload flips one character of the payload segment, keeping the signature.
func tamperPayload(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}
