// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package secret_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cursus/internal/platform/secret"
)

var validKey = []byte(strings.Repeat("k", secret.MinJWTSecretLength))

/*
TestNew validates presence and length of the signing secret.
*/
func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		values map[string][]byte
		ok     bool
	}{
		{"valid", map[string][]byte{secret.JWTSecret: validKey}, true},
		{"missing", map[string][]byte{}, false},
		{"empty", map[string][]byte{secret.JWTSecret: {}}, false},
		{"too_short", map[string][]byte{secret.JWTSecret: []byte("short")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := secret.New(tt.values)
			if tt.ok {
				require.NoError(t, err)
				assert.NotNil(t, store)
			} else {
				assert.ErrorIs(t, err, secret.ErrSecretUnavailable)
			}
		})
	}
}

/*
TestStore_Immutable verifies that neither the input nor a returned value can change the store.
*/
func TestStore_Immutable(t *testing.T) {
	input := append([]byte(nil), validKey...)
	store, err := secret.New(map[string][]byte{secret.JWTSecret: input})
	require.NoError(t, err)

	input[0] = 'x'
	first, ok := store.Get(secret.JWTSecret)
	require.True(t, ok)
	assert.Equal(t, validKey, first)

	first[0] = 'y'
	second, _ := store.Get(secret.JWTSecret)
	assert.Equal(t, validKey, second)

	_, ok = store.Get("UNKNOWN")
	assert.False(t, ok)

	_, err = store.MustGet("UNKNOWN")
	assert.ErrorIs(t, err, secret.ErrSecretUnavailable)
}

/*
TestLoad reads the secret from the environment and unsets it.
*/
func TestLoad(t *testing.T) {
	t.Setenv(secret.JWTSecret, string(validKey))

	store, err := secret.Load()
	require.NoError(t, err)

	key, ok := store.Get(secret.JWTSecret)
	require.True(t, ok)
	assert.Equal(t, validKey, key)

	_, present := os.LookupEnv(secret.JWTSecret)
	assert.False(t, present)
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv(secret.JWTSecret, "")
	os.Unsetenv(secret.JWTSecret)

	_, err := secret.Load()
	assert.ErrorIs(t, err, secret.ErrSecretUnavailable)
}
