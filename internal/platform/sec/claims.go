// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried inside an access token.
//
// The subject is the principal's normalized email. The role is carried in its
// wire form so the token stays byte-compatible with stored user rows.
// Claims are built at login, registration or refresh and are never persisted.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the 4-character role code, e.g. "1000".
	Role string `json:"role"`
}

// NewClaims builds a claim set valid from issuedAt for timeToLive.
// Timestamps are truncated to whole seconds, the precision of the wire format.
func NewClaims(subject string, role RoleCode, issuedAt time.Time, timeToLive time.Duration) Claims {
	issuedAt = issuedAt.Truncate(time.Second)
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
		Role: role.String(),
	}
}

// RoleCode decodes the role claim.
func (c *Claims) RoleCode() (RoleCode, error) {
	return ParseRoleCode(c.Role)
}
