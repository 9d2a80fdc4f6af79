// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/cursus/internal/platform/sec"
)

// # User Data Access

// UserRepository stores accounts in users.account.
//
// Lookups return apperr NOT_FOUND when no row matches, and writes that hit the
// unique email index return apperr CONFLICT. Emails are stored normalized; the
// repository never normalizes them itself.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)

	// List returns one page ordered by creation time, plus the total count.
	List(context context.Context, limit, offset int) ([]*User, int, error)

	Create(context context.Context, user *User) error

	// Update writes pseudo, email, password hash and role code.
	Update(context context.Context, user *User) error

	/*
		UpdateRole replaces only the role code, leaving a concurrent profile
		edit untouched.

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	UpdateRole(context context.Context, id string, role sec.RoleCode) error

	Delete(context context.Context, id string) error
}

// # Refresh Token Data Access

// RefreshTokenRepository stores refresh sessions keyed by the token digest
// ([sec.HashToken]). The opaque token itself is never stored.
type RefreshTokenRepository interface {
	// Save stores session for ttl and indexes it under the owning user.
	Save(context context.Context, digest string, session *RefreshSession, ttl time.Duration) error

	/*
		Consume reads and deletes a session in one step, so a refresh token
		can be exchanged at most once even under concurrent requests.

		Returns:
		  - *RefreshSession: The stored session
		  - error: apperr.NotFound if absent, expired or already consumed
	*/
	Consume(context context.Context, digest string) (*RefreshSession, error)

	// Delete drops one session. An unknown digest is not an error.
	Delete(context context.Context, digest string) error

	// DeleteAllForUser drops every session the user owns.
	DeleteAllForUser(context context.Context, userID string) error
}
