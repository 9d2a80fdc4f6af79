// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/users/auth"
	"github.com/taibuivan/cursus/internal/users/auth/authtest"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type countingObserver struct {
	mu      sync.Mutex
	results map[string]int
}

func (observer *countingObserver) ObserveLogin(result string) {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	if observer.results == nil {
		observer.results = make(map[string]int)
	}
	observer.results[result]++
}

type fixture struct {
	service  *auth.Service
	users    *authtest.UserStore
	codec    *sec.TokenCodec
	observer *countingObserver
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := sec.NewTokenCodec(testSecret, "cursus-test")
	require.NoError(t, err)

	users := authtest.NewUserStore()
	refreshTokens, _ := authtest.NewRefreshStore(t)

	fx := &fixture{
		users:    users,
		codec:    codec,
		observer: &countingObserver{},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	fx.service = auth.NewService(users, refreshTokens, codec, auth.Policy{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		DefaultRole:     sec.DefaultRoleCode,
	},
		auth.WithLoginObserver(fx.observer),
		auth.WithServiceClock(func() time.Time { return fx.now }),
	)
	return fx
}

/*
TestService_Register verifies the default role, email normalization and the
issued access token.
*/
func TestService_Register(t *testing.T) {
	fx := newFixture(t)

	session, err := fx.service.Register(context.Background(), auth.RegisterInput{
		Email:    "  Alice@Example.COM ",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", session.User.Email)
	assert.Equal(t, "alice", session.User.Pseudo)
	assert.Equal(t, sec.DefaultRoleCode, session.User.Role)
	assert.NotEqual(t, "correct horse", session.User.PasswordHash)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, 900, session.ExpiresIn)

	claims, err := fx.codec.Verify(session.AccessToken, fx.now)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "1000", claims.Role)
}

/*
TestService_Register_Duplicate verifies a second registration with the same
email (after normalization) is a conflict.
*/
func TestService_Register_Duplicate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, auth.RegisterInput{Email: "bob@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = fx.service.Register(ctx, auth.RegisterInput{Email: "BOB@example.com", Password: "password2"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestService_Register_RoleAssignment verifies only an admin caller may ask for
a non-default role.
*/
func TestService_Register_RoleAssignment(t *testing.T) {
	admin := sec.NewRoleCode(sec.RoleAdmin)

	tests := []struct {
		name   string
		role   string
		caller sec.RoleCode
		code   string
	}{
		{name: "anonymous default", role: "1000"},
		{name: "anonymous teacher", role: "0100", code: apperr.CodeForbidden},
		{name: "teacher asks admin", role: "0001", caller: sec.NewRoleCode(sec.RoleTeacher), code: apperr.CodeForbidden},
		{name: "admin creates teacher", role: "0100", caller: admin},
		{name: "malformed", role: "01", code: apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			session, err := fx.service.Register(context.Background(), auth.RegisterInput{
				Email:    "new@example.com",
				Password: "password1",
				Role:     tt.role,
				Caller:   tt.caller,
			})
			if tt.code != "" {
				assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, session.User.Role.String())
		})
	}
}

/*
TestService_Login verifies success, wrong password and unknown email, and that
failures are indistinguishable.
*/
func TestService_Login(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.users.Seed(authtest.NewUser(t, "u-1", "carol@example.com", "s3cret-pass", sec.NewRoleCode(sec.RoleTeacher)))

	session, err := fx.service.Login(ctx, auth.LoginInput{Email: "Carol@Example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	claims, err := fx.codec.Verify(session.AccessToken, fx.now)
	require.NoError(t, err)
	assert.Equal(t, "0100", claims.Role)

	_, wrongPassword := fx.service.Login(ctx, auth.LoginInput{Email: "carol@example.com", Password: "nope"})
	_, unknownEmail := fx.service.Login(ctx, auth.LoginInput{Email: "dave@example.com", Password: "nope"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.True(t, apperr.HasCode(wrongPassword, apperr.CodeUnauthorized))

	assert.Equal(t, 1, fx.observer.results[auth.LoginResultSuccess])
	assert.Equal(t, 2, fx.observer.results[auth.LoginResultInvalid])
}

/*
TestService_Refresh verifies rotation, single use and that a role change made
after login is carried by the refreshed token.
*/
func TestService_Refresh(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.users.Seed(authtest.NewUser(t, "u-1", "erin@example.com", "password1", sec.DefaultRoleCode))

	first, err := fx.service.Login(ctx, auth.LoginInput{Email: "erin@example.com", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, fx.users.UpdateRole(ctx, "u-1", sec.NewRoleCode(sec.RoleLearner, sec.RoleConceptor)))

	second, err := fx.service.Refresh(ctx, first.RefreshToken, auth.ClientInfo{})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	claims, err := fx.codec.Verify(second.AccessToken, fx.now)
	require.NoError(t, err)
	assert.Equal(t, "1010", claims.Role)

	// The rotated token is gone
	_, err = fx.service.Refresh(ctx, first.RefreshToken, auth.ClientInfo{})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	// Past its lifetime the new token is refused
	fx.now = fx.now.Add(24 * time.Hour)
	_, err = fx.service.Refresh(ctx, second.RefreshToken, auth.ClientInfo{})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestService_Refresh_DeletedUser verifies a refresh token dies with its account.
*/
func TestService_Refresh_DeletedUser(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.users.Seed(authtest.NewUser(t, "u-1", "frank@example.com", "password1", sec.DefaultRoleCode))

	session, err := fx.service.Login(ctx, auth.LoginInput{Email: "frank@example.com", Password: "password1"})
	require.NoError(t, err)
	require.NoError(t, fx.users.Delete(ctx, "u-1"))

	_, err = fx.service.Refresh(ctx, session.RefreshToken, auth.ClientInfo{})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestService_LogoutAndRevoke verifies single and bulk revocation.
*/
func TestService_LogoutAndRevoke(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.users.Seed(authtest.NewUser(t, "u-1", "gina@example.com", "password1", sec.DefaultRoleCode))

	login := func() *auth.Session {
		session, err := fx.service.Login(ctx, auth.LoginInput{Email: "gina@example.com", Password: "password1"})
		require.NoError(t, err)
		return session
	}

	single := login()
	require.NoError(t, fx.service.Logout(ctx, single.RefreshToken))
	require.NoError(t, fx.service.Logout(ctx, single.RefreshToken))
	require.NoError(t, fx.service.Logout(ctx, ""))
	_, err := fx.service.Refresh(ctx, single.RefreshToken, auth.ClientInfo{})
	assert.Error(t, err)

	laptop, phone := login(), login()
	require.NoError(t, fx.service.RevokeAllSessions(ctx, "u-1"))
	for _, session := range []*auth.Session{laptop, phone} {
		_, err := fx.service.Refresh(ctx, session.RefreshToken, auth.ClientInfo{})
		assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	}
}
