// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/users/account"
	"github.com/taibuivan/cursus/internal/users/auth/authtest"
)

func newTestService(t *testing.T) (*account.Service, *authtest.UserStore) {
	t.Helper()

	users := authtest.NewUserStore()
	users.Seed(authtest.NewUser(t, "u-1", "jane@example.com", "password1", sec.DefaultRoleCode))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(users, keepSessions{}, sec.DefaultRoleCode, logger), users
}

/*
TestRun_GrantRevoke verifies that grant and revoke edit only the named positions.
*/
func TestRun_GrantRevoke(t *testing.T) {
	service, users := newTestService(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, service, []string{"grant", "jane@example.com", "teacher", "Conceptor"}, &out))
	assert.Equal(t, "u-1\tjane@example.com\t1110\tlearner,teacher,conceptor\n", out.String())

	out.Reset()
	require.NoError(t, run(ctx, service, []string{"revoke", "jane@example.com", "learner"}, &out))
	assert.Contains(t, out.String(), "\t0110\t")

	stored, err := users.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "0110", stored.Role.String())
}

/*
TestRun_CreateAdmin verifies that create-admin stores an admin-only role code.
*/
func TestRun_CreateAdmin(t *testing.T) {
	service, users := newTestService(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, service, []string{"create-admin", "-pseudo", "root", "Root@Example.com", "password1"}, &out))
	assert.Contains(t, out.String(), "root@example.com\t0001\tadmin")

	stored, err := users.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, stored.Role.IsAdmin())
	assert.Equal(t, "root", stored.Pseudo)
}

/*
TestRun_Errors verifies usage and lookup failures.
*/
func TestRun_Errors(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"promote", "jane@example.com"}},
		{"show without email", []string{"show"}},
		{"grant without role", []string{"grant", "jane@example.com"}},
		{"unknown role", []string{"grant", "jane@example.com", "owner"}},
		{"unknown account", []string{"show", "nobody@example.com"}},
		{"create-admin missing password", []string{"create-admin", "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(ctx, service, tt.args, io.Discard))
		})
	}
}
