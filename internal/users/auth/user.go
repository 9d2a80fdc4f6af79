// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and the use cases that
turn credentials into signed access tokens and rotating refresh tokens.

# Architecture

  - Service: Orchestrates business logic (Register, Login, Refresh, Logout).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Refresh tokens).
  - Security: bcrypt password hashes and HS256 access tokens carrying the role code.
*/
package auth

import (
	"time"

	"github.com/taibuivan/cursus/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Cursus platform.
type User struct {
	ID           string       `json:"id"`
	Pseudo       string       `json:"pseudo"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.RoleCode `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// RefreshSession is the server-side record behind an opaque refresh token.
//
// Only the SHA-256 digest of the token is used as a key, the token itself is
// never stored.
type RefreshSession struct {
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session is the result of a successful credential exchange.
type Session struct {
	AccessToken           string    `json:"access_token"`
	TokenType             string    `json:"token_type"`
	ExpiresIn             int       `json:"expires_in"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"refresh_token"`
	RefreshTokenExpiresAt time.Time `json:"-"`
	User                  *User     `json:"user"`
}

// ClientInfo identifies the device a session was opened from.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldPseudo       = "pseudo"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRole         = "role"
	FieldRefreshToken = "refresh_token"
)
