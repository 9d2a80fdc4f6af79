// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user management: profile lookups, updates, role
administration and deletion.

# Architecture

  - Domain: This package depends on the auth package for the User entity and
    its repository.
  - Security: Route gating is done by [middleware.Gate]. The service adds the
    ownership rules a static role requirement cannot express (self or Admin,
    only Admin changes roles).
*/
package account

import (
	"context"

	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
// Implemented by [auth.PostgresUserRepository].
type AccountRepository interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	FindByEmail(context context.Context, email string) (*auth.User, error)
	List(context context.Context, limit, offset int) ([]*auth.User, int, error)
	Create(context context.Context, user *auth.User) error
	Update(context context.Context, user *auth.User) error
	UpdateRole(context context.Context, id string, role sec.RoleCode) error
	Delete(context context.Context, id string) error
}

// SessionRevoker drops every refresh token of a user. Implemented by [auth.Service].
type SessionRevoker interface {
	RevokeAllSessions(context context.Context, userID string) error
}

// # Inputs

// Actor is the authenticated caller of a user management operation.
type Actor struct {
	// Subject is the normalized email carried by the access token.
	Subject string
	Role    sec.RoleCode
}

// CreateInput holds an administrator-created account.
type CreateInput struct {
	Pseudo   string
	Email    string
	Password string
	Role     string
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Pseudo   *string
	Email    *string
	Password *string
	Role     *string
}

// RoleChange names the roles to add and remove from an account.
type RoleChange struct {
	Grant  []sec.Role
	Revoke []sec.Role
}

// # Field Identifiers

const (
	FieldID       = "id"
	FieldPseudo   = "pseudo"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
	FieldGrant    = "grant"
	FieldRevoke   = "revoke"
)
