// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/constants"
)

// RedisRefreshTokenRepository implements RefreshTokenRepository using Redis.
//
// # Layout
//
//   - auth:refresh_token:<digest>  JSON [RefreshSession], expires with the token
//   - auth:user_sessions:<userID>  set of live digests, used for revoke-all
type RedisRefreshTokenRepository struct {
	client redis.UniversalClient
}

// NewRefreshTokenRepository creates a new Redis-backed RefreshTokenRepository.
func NewRefreshTokenRepository(client redis.UniversalClient) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client}
}

func refreshTokenKey(digest string) string {
	return constants.RedisPrefixRefreshToken + digest
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSessions + userID
}

/*
Save stores a refresh session and indexes it under its owner.

Parameters:
  - context: context.Context
  - digest: string
  - session: *RefreshSession
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisRefreshTokenRepository) Save(context context.Context, digest string, session *RefreshSession, ttl time.Duration) error {

	// Encode the session payload
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_refresh_token_encode_failed: %w", err)
	}

	// Write token and owner index in one transaction
	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, refreshTokenKey(digest), payload, ttl)
		pipe.SAdd(context, userSessionsKey(session.UserID), digest)
		pipe.Expire(context, userSessionsKey(session.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_refresh_token_save_failed: %w", err)
	}

	return nil
}

/*
Consume reads and deletes a refresh session in one GETDEL round trip.

Description: Two concurrent refreshes with the same token cannot both succeed.

Returns:
  - *RefreshSession: The stored session
  - error: apperr.NotFound if the token is absent or expired
*/
func (repository *RedisRefreshTokenRepository) Consume(context context.Context, digest string) (*RefreshSession, error) {

	// Take the token
	payload, err := repository.client.GetDel(context, refreshTokenKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Refresh token")
		}
		return nil, fmt.Errorf("redis_refresh_token_consume_failed: %w", err)
	}

	// Decode
	var session RefreshSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("redis_refresh_token_decode_failed: %w", err)
	}

	// Drop the index entry; a stale member is harmless if this fails
	repository.client.SRem(context, userSessionsKey(session.UserID), digest)

	return &session, nil
}

/*
Delete revokes a single refresh session.
*/
func (repository *RedisRefreshTokenRepository) Delete(context context.Context, digest string) error {
	_, err := repository.Consume(context, digest)
	if err != nil && !apperr.IsNotFound(err) {
		return fmt.Errorf("redis_refresh_token_delete_failed: %w", err)
	}
	return nil
}

/*
DeleteAllForUser revokes every refresh session of a user.
*/
func (repository *RedisRefreshTokenRepository) DeleteAllForUser(context context.Context, userID string) error {
	indexKey := userSessionsKey(userID)

	// Collect the live digests
	digests, err := repository.client.SMembers(context, indexKey).Result()
	if err != nil {
		return fmt.Errorf("redis_refresh_token_list_failed: %w", err)
	}

	// Delete tokens and the index together
	keys := make([]string, 0, len(digests)+1)
	for _, digest := range digests {
		keys = append(keys, refreshTokenKey(digest))
	}
	keys = append(keys, indexKey)

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_revoke_all_failed: %w", err)
	}

	return nil
}
