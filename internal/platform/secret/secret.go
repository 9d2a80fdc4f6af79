// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package secret holds the process secrets loaded once at startup.

A [Store] is built in main before the listener opens and handed by
constructor to whatever needs a key. It has no setters: after [Load] returns
the contents never change, so concurrent readers need no locking.

Usage:

	store, err := secret.Load()
	if err != nil {
	    // errors.Is(err, secret.ErrSecretUnavailable): refuse to serve traffic
	}
	key, _ := store.Get(secret.JWTSecret)
*/
package secret

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// JWTSecret is the name of the HS256 signing key.
const JWTSecret = "JWT_SECRET"

// MinJWTSecretLength is the minimum accepted size of the signing key, in bytes.
const MinJWTSecretLength = 32

// ErrSecretUnavailable is returned when a required secret is missing or unusable.
// It is fatal: the process must not start serving.
var ErrSecretUnavailable = errors.New("secret: required secret unavailable")

// environment is the env schema for the secrets read at startup.
type environment struct {
	JWTSecret string `env:"JWT_SECRET,unset"`
}

// Store is an immutable name to bytes mapping.
type Store struct {
	values map[string][]byte
}

// New builds a store from values, copying every entry.
// Every secret must be present and at least the minimum length.
func New(values map[string][]byte) (*Store, error) {
	key, ok := values[JWTSecret]
	if !ok || len(key) == 0 {
		return nil, fmt.Errorf("%w: %s is not set", ErrSecretUnavailable, JWTSecret)
	}
	if len(key) < MinJWTSecretLength {
		return nil, fmt.Errorf("%w: %s must be at least %d bytes", ErrSecretUnavailable, JWTSecret, MinJWTSecretLength)
	}

	copied := make(map[string][]byte, len(values))
	for name, value := range values {
		copied[name] = append([]byte(nil), value...)
	}
	return &Store{values: copied}, nil
}

// Load reads the secrets from the environment. The variables are unset after
// reading so child processes do not inherit them.
func Load() (*Store, error) {
	var vars environment
	if err := env.Parse(&vars); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSecretUnavailable, err)
	}

	return New(map[string][]byte{JWTSecret: []byte(vars.JWTSecret)})
}

// Get returns a copy of the named secret.
func (store *Store) Get(name string) ([]byte, bool) {
	value, ok := store.values[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), value...), true
}

// MustGet returns the named secret or [ErrSecretUnavailable].
func (store *Store) MustGet(name string) ([]byte, error) {
	value, ok := store.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSecretUnavailable, name)
	}
	return value, nil
}
