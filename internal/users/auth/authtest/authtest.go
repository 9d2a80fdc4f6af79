// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides in-memory and miniredis-backed repositories for
// tests that exercise the auth flows without Postgres.
package authtest

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/users/auth"
)

// UserStore is a goroutine-safe in-memory [auth.UserRepository].
type UserStore struct {
	mu    sync.Mutex
	byID  map[string]*auth.User
	clock func() time.Time
}

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{byID: make(map[string]*auth.User), clock: time.Now}
}

// Seed inserts users directly, bypassing uniqueness checks.
func (store *UserStore) Seed(users ...*auth.User) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range users {
		copied := *user
		store.byID[user.ID] = &copied
	}
}

func (store *UserStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	user, ok := store.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (store *UserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range store.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *UserStore) List(_ context.Context, limit, offset int) ([]*auth.User, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	all := make([]*auth.User, 0, len(store.byID))
	for _, user := range store.byID {
		copied := *user
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []*auth.User{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (store *UserStore) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, existing := range store.byID {
		if existing.Email == user.Email {
			return apperr.Conflict("User already exists")
		}
	}
	now := store.clock().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	copied := *user
	store.byID[user.ID] = &copied
	return nil
}

func (store *UserStore) Update(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.byID[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	for id, existing := range store.byID {
		if id != user.ID && existing.Email == user.Email {
			return apperr.Conflict("User already exists")
		}
	}
	user.UpdatedAt = store.clock().UTC()
	copied := *user
	store.byID[user.ID] = &copied
	return nil
}

func (store *UserStore) UpdateRole(_ context.Context, id string, role sec.RoleCode) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	user, ok := store.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Role = role
	user.UpdatedAt = store.clock().UTC()
	return nil
}

func (store *UserStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.byID[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(store.byID, id)
	return nil
}

// NewRefreshStore starts a miniredis server for the duration of the test and
// returns the Redis refresh token repository bound to it.
func NewRefreshStore(t testing.TB) (*auth.RedisRefreshTokenRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewRefreshTokenRepository(client), server
}

// NewUser builds a stored user with a bcrypt hash of password.
func NewUser(t testing.TB, id, email, password string, role sec.RoleCode) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &auth.User{
		ID:           id,
		Pseudo:       id,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
