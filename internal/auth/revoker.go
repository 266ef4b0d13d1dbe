package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker is an optional redis-backed token revocation list.
//
// JWTs are stateless, which makes logout advisory: the cookie-less bearer
// token stays valid until it expires. When redis is configured, logout
// writes the token's fingerprint to redis with a TTL matching the token
// lifetime, and RequireAuth rejects revoked tokens immediately.
//
// A nil *Revoker is valid and means "revocation disabled" — every method
// degrades to a no-op, following the same optional-dependency pattern the
// server uses for object storage and email.
type Revoker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRevoker creates a Revoker backed by the given redis address.
// Returns an error if redis is unreachable — callers decide whether that
// is fatal (the server logs a warning and runs without revocation).
func NewRevoker(ctx context.Context, addr, password string, tokenTTL time.Duration) (*Revoker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("auth: connecting to redis at %s: %w", addr, err)
	}
	return &Revoker{client: client, ttl: tokenTTL}, nil
}

// Revoke marks a token string as invalid for the remainder of its lifetime.
func (r *Revoker) Revoke(ctx context.Context, tokenStr string) error {
	if r == nil {
		return nil
	}
	err := r.client.Set(ctx, revocationKey(tokenStr), "1", r.ttl).Err()
	if err != nil {
		return fmt.Errorf("auth: revoking token: %w", err)
	}
	return nil
}

// Revoked reports whether the token has been revoked. Errors talking to
// redis fail open: a flaky revocation list must not take down all auth.
func (r *Revoker) Revoked(ctx context.Context, tokenStr string) bool {
	if r == nil {
		return false
	}
	n, err := r.client.Exists(ctx, revocationKey(tokenStr)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Close releases the redis connection. Safe on nil.
func (r *Revoker) Close() error {
	if r == nil {
		return nil
	}
	return r.client.Close()
}

// revocationKey hashes the token so raw JWTs never land in redis, where
// they'd be readable by anyone with redis access.
func revocationKey(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return "revoked:" + hex.EncodeToString(sum[:])
}
