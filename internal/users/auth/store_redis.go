// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/castly/internal/platform/constants"
	"github.com/taibuivan/castly/internal/platform/ctxutil"
	"github.com/taibuivan/castly/internal/platform/sec"
)

// # Role Cache

// CachedRoleStore is a read-through Redis cache in front of a [RoleLoader].
//
// Redis is optional: any cache error is logged and the call falls through to
// the wrapped loader, so an outage costs latency, never availability.
type CachedRoleStore struct {
	client *redis.Client
	next   RoleLoader
	ttl    time.Duration
}

// NewCachedRoleStore wraps next with a Redis cache whose entries live for ttl.
func NewCachedRoleStore(client *redis.Client, next RoleLoader, ttl time.Duration) *CachedRoleStore {
	return &CachedRoleStore{client: client, next: next, ttl: ttl}
}

func roleKey(accountID string) string {
	return constants.RedisPrefixAvailableRoles + accountID
}

/*
LoadAvailableRoles returns the cached role set, loading and caching it on a miss.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - sec.RoleSet: Non-empty role set
  - error: Errors from the wrapped loader only
*/
func (store *CachedRoleStore) LoadAvailableRoles(context context.Context, accountID string) (sec.RoleSet, error) {
	logger := ctxutil.GetLogger(context)
	key := roleKey(accountID)

	// 1. Cache hit
	raw, err := store.client.Get(context, key).Bytes()
	switch {
	case err == nil:
		var roles sec.RoleSet
		if decodeErr := json.Unmarshal(raw, &roles); decodeErr == nil {
			return roles, nil
		}
		// A corrupt entry is treated as a miss and overwritten below.
		logger.WarnContext(context, "role_cache_corrupt_entry", slog.String("account_id", accountID))

	case !errors.Is(err, redis.Nil):
		logger.WarnContext(context, "role_cache_read_failed",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
	}

	// 2. Source of truth
	roles, err := store.next.LoadAvailableRoles(context, accountID)
	if err != nil {
		return sec.RoleSet{}, err
	}

	// 3. Populate
	encoded, err := json.Marshal(roles)
	if err == nil {
		err = store.client.Set(context, key, encoded, store.ttl).Err()
	}
	if err != nil {
		logger.WarnContext(context, "role_cache_write_failed",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
	}

	return roles, nil
}

/*
Invalidate removes the cached role set of an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Redis failures
*/
func (store *CachedRoleStore) Invalidate(context context.Context, accountID string) error {
	if err := store.client.Del(context, roleKey(accountID)).Err(); err != nil {
		return fmt.Errorf("redis_role_cache_invalidate_failed: %w", err)
	}
	return nil
}

// # Session Revocation

// SessionRevocations marks every session of an email issued before a given
// instant as dead. Markers expire after [constants.SessionTTL], by which time
// every older cookie has expired on its own.
type SessionRevocations struct {
	client *redis.Client
}

// NewSessionRevocations returns the Redis-backed revocation list.
func NewSessionRevocations(client *redis.Client) *SessionRevocations {
	return &SessionRevocations{client: client}
}

func revocationKey(email string) string {
	return constants.RedisPrefixRevokedSession + NormalizeEmail(email)
}

// Revoke records that sessions for email issued before at are no longer valid.
func (store *SessionRevocations) Revoke(context context.Context, email string, at time.Time) error {
	if err := store.client.Set(context, revocationKey(email), at.Unix(), constants.SessionTTL).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}
	return nil
}

// RevokedAt returns the revocation instant for email, or false when none is
// recorded.
func (store *SessionRevocations) RevokedAt(context context.Context, email string) (time.Time, bool, error) {
	unix, err := store.client.Get(context, revocationKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis_session_revocation_read_failed: %w", err)
	}
	return time.Unix(unix, 0), true, nil
}
