// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/constants"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/pkg/normalize"
	"github.com/taibuivan/cursus/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs access tokens. Implemented by [sec.TokenCodec].
type TokenIssuer interface {
	// IssueSession builds and signs a claim set valid from now for timeToLive.
	//
	// # Returns
	//   - The signed token and the claims it carries, or an err if signing fails.
	IssueSession(subject string, role sec.RoleCode, now time.Time, timeToLive time.Duration) (string, *sec.Claims, error)
}

// LoginObserver counts login attempts by result.
type LoginObserver interface {
	ObserveLogin(result string)
}

// Policy holds the session lifetimes and the role given to self-registered users.
type Policy struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	DefaultRole     sec.RoleCode
}

// Service implements user authentication use cases.
//
// # Sessions
//
// An access token is never stored; it lives until its expiry. The refresh
// token is the revocable half: it is kept under its digest, consumed on use,
// and reissued with a fresh access token whose role is re-read from the user.
type Service struct {
	userRepository         UserRepository
	refreshTokenRepository RefreshTokenRepository
	tokenIssuer            TokenIssuer
	policy                 Policy
	loginObserver          LoginObserver
	now                    func() time.Time
	logger                 *slog.Logger
}

// ServiceOption customizes a [Service].
type ServiceOption func(*Service)

// WithLoginObserver reports login attempts to observer.
func WithLoginObserver(observer LoginObserver) ServiceOption {
	return func(service *Service) { service.loginObserver = observer }
}

// WithServiceClock replaces the wall clock, for tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(service *Service) { service.now = now }
}

// WithLogger sets the logger used for security events.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(service *Service) { service.logger = logger }
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	refreshRepo RefreshTokenRepository,
	issuer TokenIssuer,
	policy Policy,
	options ...ServiceOption,
) *Service {
	service := &Service{
		userRepository:         userRepo,
		refreshTokenRepository: refreshRepo,
		tokenIssuer:            issuer,
		policy:                 policy,
		now:                    time.Now,
		logger:                 slog.Default(),
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// errInvalidCredentials is the single answer to every failed login.
func errInvalidCredentials() *apperr.AppError {
	return apperr.Unauthorized("Invalid login credentials")
}

// errInvalidRefreshToken is the single answer to every failed refresh.
func errInvalidRefreshToken() *apperr.AppError {
	return apperr.Unauthorized("Refresh token is invalid or expired")
}

// timingHash is compared against when the email is unknown so both login
// failure paths cost one bcrypt comparison.
var timingHash = sync.OnceValue(func() string {
	hash, err := sec.HashPassword("cursus-unknown-account")
	if err != nil {
		return ""
	}
	return hash
})

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Pseudo   string
	Email    string
	Password string

	// Role is the requested wire role code. Empty means the default role.
	Role string

	// Caller is the role code of the authenticated requester, zero when anonymous.
	Caller sec.RoleCode

	Client ClientInfo
}

/*
Register validates, hashes, and persists a brand new user account, then opens
a session for it.

Description: Only an authenticated Admin may register an account with a role
other than the default one.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: Tokens for the new account
  - err: Validation, Forbidden, Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {

	// 1. Resolve the requested role
	role := service.policy.DefaultRole
	if input.Role != "" {
		parsed, err := sec.ParseRoleCode(input.Role)
		if err != nil {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   FieldRole,
				Message: "Must be a 4-character role code of 0 and 1",
			})
		}
		role = parsed
	}
	if role != service.policy.DefaultRole && !input.Caller.IsAdmin() {
		return nil, apperr.Forbidden("Only administrators may assign roles")
	}

	// 2. Verify email uniqueness. Return a client-safe Conflict err.
	email := normalize.Email(input.Email)
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	// 3. Hash the plaintext password
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// 4. Persist
	pseudo := strings.TrimSpace(input.Pseudo)
	if pseudo == "" {
		pseudo, _, _ = strings.Cut(email, "@")
	}

	user := &User{
		ID:           uuid.New(),
		Pseudo:       pseudo,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.Info("auth_user_registered",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)

	// 5. Open the first session
	return service.IssueSession(context, user, input.Client)
}

// # Authentication Flow

// LoginInput holds credentials for a login attempt.
type LoginInput struct {
	Email    string
	Password string
	Client   ClientInfo
}

/*
Login verifies credentials and opens a session.

Description: Unknown email and wrong password produce the same error and cost
the same bcrypt work.

Returns:
  - *Session: Access and refresh tokens
  - err: Unauthorized on any credential failure
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {

	// 1. Look the account up
	user, err := service.userRepository.FindByEmail(context, normalize.Email(input.Email))
	if err != nil {
		if !apperr.IsNotFound(err) {
			service.observeLogin(LoginResultError)
			return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
		}
		sec.CheckPasswordHash(input.Password, timingHash())
		service.observeLogin(LoginResultInvalid)
		return nil, errInvalidCredentials()
	}

	// 2. Compare the password
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.observeLogin(LoginResultInvalid)
		service.logger.Info("auth_login_failed", slog.String("user_id", user.ID))
		return nil, errInvalidCredentials()
	}

	// 3. Open the session
	session, err := service.IssueSession(context, user, input.Client)
	if err != nil {
		service.observeLogin(LoginResultError)
		return nil, err
	}

	service.observeLogin(LoginResultSuccess)
	service.logger.Info("auth_login_succeeded", slog.String("user_id", user.ID))
	return session, nil
}

/*
IssueSession signs an access token for user and stores a fresh refresh token.

Description: The token subject is the normalized email and the role claim is
the user's current role code.

Parameters:
  - context: context.Context
  - user: *User
  - client: ClientInfo

Returns:
  - *Session: Token pair
  - err: Signing or storage failures
*/
func (service *Service) IssueSession(context context.Context, user *User, client ClientInfo) (*Session, error) {

	// One clock read for the whole session
	now := service.now().UTC()

	// 1. Access token
	accessToken, claims, err := service.tokenIssuer.IssueSession(user.Email, user.Role, now, service.policy.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_sign_failed: %w", err)
	}

	// 2. Refresh token (opaque, stored hashed)
	refreshToken, err := sec.GenerateSecureToken(constants.RefreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	refreshExpiresAt := now.Add(service.policy.RefreshTokenTTL)
	record := &RefreshSession{
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: refreshExpiresAt,
	}
	if err := service.refreshTokenRepository.Save(context, sec.HashToken(refreshToken), record, service.policy.RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_save_failed: %w", err)
	}

	return &Session{
		AccessToken:           accessToken,
		TokenType:             constants.BearerScheme,
		ExpiresIn:             int(service.policy.AccessTokenTTL.Seconds()),
		ExpiresAt:             claims.ExpiresAt.Time,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		User:                  user,
	}, nil
}

// # Session Lifecycle

/*
Refresh rotates a refresh token and issues a new access token.

Description: The account is re-read so role changes made since the last login
are reflected in the new token.

Returns:
  - *Session: New token pair
  - err: Unauthorized if the token is unknown, expired, already used, or its
    account no longer exists
*/
func (service *Service) Refresh(context context.Context, refreshToken string, client ClientInfo) (*Session, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Refresh token is required")
	}

	// 1. Consume the old token
	record, err := service.refreshTokenRepository.Consume(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errInvalidRefreshToken()
		}
		return nil, fmt.Errorf("auth_service_refresh_failed: %w", err)
	}
	if !service.now().Before(record.ExpiresAt) {
		return nil, errInvalidRefreshToken()
	}

	// 2. Reload the account
	user, err := service.userRepository.FindByID(context, record.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errInvalidRefreshToken()
		}
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	// 3. Issue the replacement pair
	return service.IssueSession(context, user, client)
}

/*
Logout revokes a refresh token. Unknown or empty tokens are ignored.
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := service.refreshTokenRepository.Delete(context, sec.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
RevokeAllSessions deletes every refresh token of a user. Access tokens already
issued stay valid until they expire.
*/
func (service *Service) RevokeAllSessions(context context.Context, userID string) error {
	if err := service.refreshTokenRepository.DeleteAllForUser(context, userID); err != nil {
		return fmt.Errorf("auth_service_revoke_failed: %w", err)
	}
	return nil
}

func (service *Service) observeLogin(result string) {
	if service.loginObserver != nil {
		service.loginObserver.ObserveLogin(result)
	}
}
