// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
	"github.com/ledinhhoang/inkbound/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements [SessionRepository] using Redis.
//
// Layout:
//   - auth:session:{tokenHash} → JSON session, TTL to ExpiresAt
//   - auth:user_sessions:{userID} → set of the user's token hashes, used
//     for bulk revocation
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSessions + userID
}

/*
Create persists a session under its token hash with a TTL to ExpiresAt and
indexes the hash on the user's session set.
*/
func (repository *RedisSessionRepository) Create(context context.Context, tokenHash string, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis: failed to encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redis: refusing to store already-expired session")
	}

	pipe := repository.client.TxPipeline()
	pipe.Set(context, sessionKey(tokenHash), payload, ttl)
	pipe.SAdd(context, userSessionsKey(session.UserID), tokenHash)
	// The index outlives its members by the session TTL at most; expired
	// hashes are pruned lazily on bulk revocation.
	pipe.Expire(context, userSessionsKey(session.UserID), RefreshTokenTTL)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis: failed to store session: %w", err)
	}

	return nil
}

/*
FindByTokenHash returns the live session for a token hash. An absent key
means the session is expired or revoked; both surface as NotFound.
*/
func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	payload, err := repository.client.Get(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis: failed to read session: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis: failed to decode session: %w", err)
	}

	return session, nil
}

/*
Revoke deletes the session under the token hash. Idempotent: revoking an
absent session is a no-op.
*/
func (repository *RedisSessionRepository) Revoke(context context.Context, tokenHash string) error {
	session, err := repository.FindByTokenHash(context, tokenHash)
	if err == nil {
		_ = repository.client.SRem(context, userSessionsKey(session.UserID), tokenHash).Err()
	}

	if err := repository.client.Del(context, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis: failed to revoke session: %w", err)
	}

	return nil
}

/*
RevokeAll deletes every session belonging to the user.
*/
func (repository *RedisSessionRepository) RevokeAll(context context.Context, userID string) error {
	return repository.revokeFromIndex(context, userID, "")
}

/*
RevokeOthers deletes all of the user's sessions except keepTokenHash.
Used after a password change to force re-login on every other device.
*/
func (repository *RedisSessionRepository) RevokeOthers(context context.Context, userID, keepTokenHash string) error {
	return repository.revokeFromIndex(context, userID, keepTokenHash)
}

// revokeFromIndex deletes the sessions indexed for a user, sparing the keep
// hash when non-empty.
func (repository *RedisSessionRepository) revokeFromIndex(context context.Context, userID, keepTokenHash string) error {
	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis: failed to list user sessions: %w", err)
	}

	pipe := repository.client.TxPipeline()
	for _, hash := range hashes {
		if hash == keepTokenHash {
			continue
		}
		pipe.Del(context, sessionKey(hash))
		pipe.SRem(context, userSessionsKey(userID), hash)
	}

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis: failed to revoke user sessions: %w", err)
	}

	return nil
}

// # Volatile Token Repositories

// redisTokenRepository stores opaque single-use tokens under a key prefix
// with their TTL as the single expiry authority. Shared by the reset and
// verification repositories, which differ only in key prefix.
type redisTokenRepository struct {
	client   *redis.Client
	prefix   string
	resource string
}

func (repository *redisTokenRepository) key(token string) string {
	return repository.prefix + token
}

func (repository *redisTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, repository.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to store token: %w", err)
	}
	return nil
}

func (repository *redisTokenRepository) Get(context context.Context, token string) (string, error) {
	userID, err := repository.client.Get(context, repository.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound(repository.resource)
		}
		return "", fmt.Errorf("redis: failed to read token: %w", err)
	}
	return userID, nil
}

func (repository *redisTokenRepository) Delete(context context.Context, token string) error {
	if err := repository.client.Del(context, repository.key(token)).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete token: %w", err)
	}
	return nil
}

// NewResetTokenRepository creates a Redis-backed [ResetTokenRepository].
func NewResetTokenRepository(client *redis.Client) ResetTokenRepository {
	return &redisTokenRepository{
		client:   client,
		prefix:   constants.RedisPrefixResetToken,
		resource: "Reset token",
	}
}

// NewVerificationTokenRepository creates a Redis-backed [VerificationTokenRepository].
func NewVerificationTokenRepository(client *redis.Client) VerificationTokenRepository {
	return &redisTokenRepository{
		client:   client,
		prefix:   constants.RedisPrefixVerifyToken,
		resource: "Verification token",
	}
}
