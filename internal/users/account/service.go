// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/users/auth"
	"github.com/taibuivan/cursus/pkg/normalize"
	"github.com/taibuivan/cursus/pkg/pagination"
	"github.com/taibuivan/cursus/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
type Service struct {
	accountRepository AccountRepository
	sessionRevoker    SessionRevoker
	defaultRole       sec.RoleCode
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	accountRepo AccountRepository,
	revoker SessionRevoker,
	defaultRole sec.RoleCode,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRevoker:    revoker,
		defaultRole:       defaultRole,
		logger:            logger,
	}
}

// # Lookups

/*
GetByID retrieves an account by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetByID(context context.Context, id string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
GetByEmail retrieves an account by email. The lookup key is normalized first.
*/
func (service *Service) GetByEmail(context context.Context, email string) (*auth.User, error) {
	user, err := service.accountRepository.FindByEmail(context, normalize.Email(email))
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
EmailUsed reports whether an account already uses email.
*/
func (service *Service) EmailUsed(context context.Context, email string) (bool, error) {
	_, err := service.accountRepository.FindByEmail(context, normalize.Email(email))
	if err == nil {
		return true, nil
	}
	if apperr.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("account_service_email_lookup_failed: %w", err)
}

/*
List returns one page of accounts.

Returns:
  - []*auth.User: The page
  - pagination.Meta: Page metadata
  - error: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*auth.User, pagination.Meta, error) {
	users, total, err := service.accountRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Mutations

/*
Create registers an account on behalf of an administrator.

Description: Unlike self-registration the role code is taken as given. An
empty role means the default role.

Returns:
  - *auth.User: The created account
  - error: Validation, Conflict or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {

	// 1. Resolve role
	role := service.defaultRole
	if input.Role != "" {
		parsed, err := parseRole(input.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	// 2. Hash
	hash, err := hashPlaintext(input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Persist
	email := normalize.Email(input.Email)
	pseudo := strings.TrimSpace(input.Pseudo)
	if pseudo == "" {
		pseudo, _, _ = strings.Cut(email, "@")
	}

	user := &auth.User{
		ID:           uuid.New(),
		Pseudo:       pseudo,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.Info("account_created",
		slog.String("user_id", user.ID),
		slog.String("role", role.String()),
	)
	return user, nil
}

/*
Update applies a partial update to an account.

Description: A caller may update their own account. Admins may update any
account. Only Admins may change the role code. A new password is accepted as
plaintext only and hashed exactly once; a password change revokes the
account's refresh tokens.

Parameters:
  - context: context.Context
  - actor: Actor
  - id: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: Forbidden, Validation, Conflict or storage failures
*/
func (service *Service) Update(context context.Context, actor Actor, id string, input UpdateInput) (*auth.User, error) {

	// 1. Load target
	user, err := service.accountRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// 2. Ownership
	isAdmin := actor.Role.IsAdmin()
	isSelf := actor.Subject == user.Email
	if !isAdmin && !isSelf {
		return nil, apperr.Forbidden("You can only update your own account")
	}

	// 3. Apply delta updates
	if input.Pseudo != nil {
		user.Pseudo = strings.TrimSpace(*input.Pseudo)
	}

	if input.Email != nil {
		user.Email = normalize.Email(*input.Email)
	}

	if input.Role != nil {
		role, err := parseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		if role != user.Role && !isAdmin {
			return nil, apperr.Forbidden("Only administrators may change roles")
		}
		if err := guardSelfDemotion(isSelf, user.Role, role); err != nil {
			return nil, err
		}
		user.Role = role
	}

	passwordChanged := false
	if input.Password != nil {
		hash, err := hashPlaintext(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		passwordChanged = true
	}

	// 4. Persist
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	if passwordChanged {
		if err := service.sessionRevoker.RevokeAllSessions(context, user.ID); err != nil {
			return nil, fmt.Errorf("account_service_update_revoke_failed: %w", err)
		}
	}

	service.logger.Info("account_updated", slog.String("user_id", user.ID))
	return user, nil
}

/*
ChangeRoles grants and revokes named roles, producing a new role code.

Description: A role may not appear in both lists. An administrator cannot
revoke their own Admin role.

Returns:
  - *auth.User: The account with its new role code
  - error: Validation, Unprocessable, NotFound or storage failures
*/
func (service *Service) ChangeRoles(context context.Context, actor Actor, id string, change RoleChange) (*auth.User, error) {
	for _, role := range change.Grant {
		if slices.Contains(change.Revoke, role) {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   FieldRevoke,
				Message: fmt.Sprintf("Role %q is both granted and revoked", role),
			})
		}
	}

	// 1. Load target
	user, err := service.accountRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("account_service_roles_lookup_failed: %w", err)
	}

	// 2. Compute the new code
	code := user.Role
	for _, role := range change.Grant {
		code = code.With(role)
	}
	for _, role := range change.Revoke {
		code = code.Without(role)
	}

	if err := guardSelfDemotion(user.Email == actor.Subject, user.Role, code); err != nil {
		return nil, err
	}

	// 3. Persist
	if code != user.Role {
		if err := service.accountRepository.UpdateRole(context, user.ID, code); err != nil {
			return nil, fmt.Errorf("account_service_roles_update_failed: %w", err)
		}
		service.logger.Info("account_roles_changed",
			slog.String("user_id", user.ID),
			slog.String("from", user.Role.String()),
			slog.String("to", code.String()),
		)
		user.Role = code
	}

	return user, nil
}

/*
Delete removes an account and every refresh token it owns.
*/
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.accountRepository.Delete(context, id); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	if err := service.sessionRevoker.RevokeAllSessions(context, id); err != nil {
		return fmt.Errorf("account_service_delete_revoke_failed: %w", err)
	}

	service.logger.Info("account_deleted", slog.String("user_id", id))
	return nil
}

// # Helpers

// guardSelfDemotion keeps an administrator from dropping their own admin bit.
func guardSelfDemotion(isSelf bool, current, next sec.RoleCode) error {
	if isSelf && current.IsAdmin() && !next.IsAdmin() {
		return apperr.Unprocessable("Administrators cannot revoke their own admin role")
	}
	return nil
}

func parseRole(value string) (sec.RoleCode, error) {
	role, err := sec.ParseRoleCode(value)
	if err != nil {
		return 0, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldRole,
			Message: "Must be a 4-character role code of 0 and 1",
		})
	}
	return role, nil
}

// hashPlaintext refuses values that are already bcrypt hashes.
func hashPlaintext(password string) (string, error) {
	if sec.LooksHashed(password) {
		return "", apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldPassword,
			Message: "Must be a plaintext password",
		})
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("account_service_hash_failed: %w", err)
	}
	return hash, nil
}
