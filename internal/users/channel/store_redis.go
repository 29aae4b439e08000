// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidstream/internal/platform/constants"
)

// CachedStore decorates a [Store] with a Redis cache for anonymous profile reads.
//
// Only lookups without a viewer are cached, since IsSubscribed depends on who
// asks. Watch history always goes to the underlying store. Redis failures are
// logged and never surface to the caller.
type CachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedStore wraps next. A non-positive ttl disables caching entirely.
func NewCachedStore(next Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{next: next, client: client, ttl: ttl, logger: logger}
}

func profileKey(username string) string {
	return constants.RedisPrefixChannelProfile + username
}

/*
FindChannelProfile serves anonymous lookups from Redis when possible.

Parameters:
  - context: context.Context
  - username: string (normalized)
  - viewerID: string (may be empty)

Returns:
  - *ChannelProfile: Cached or freshly aggregated profile
  - error: Errors of the underlying store only
*/
func (repository *CachedStore) FindChannelProfile(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	if viewerID != "" || repository.ttl <= 0 {
		return repository.next.FindChannelProfile(context, username, viewerID)
	}

	key := profileKey(username)

	// 1. Cache lookup
	payload, err := repository.client.Get(context, key).Bytes()
	switch {
	case err == nil:
		var profile ChannelProfile
		if err := json.Unmarshal(payload, &profile); err == nil {
			return &profile, nil
		}
		repository.logger.WarnContext(context, "channel_cache_decode_failed", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		repository.logger.WarnContext(context, "channel_cache_get_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	// 2. Source of truth
	profile, err := repository.next.FindChannelProfile(context, username, viewerID)
	if err != nil {
		return nil, err
	}

	// 3. Populate
	encoded, err := json.Marshal(profile)
	if err != nil {
		return profile, nil
	}
	if err := repository.client.Set(context, key, encoded, repository.ttl).Err(); err != nil {
		repository.logger.WarnContext(context, "channel_cache_set_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	return profile, nil
}

// InvalidateProfile deletes the cached anonymous profile of username so the next
// read reflects changed account fields. Failures are logged; the entry then
// expires with its TTL.
func (repository *CachedStore) InvalidateProfile(context context.Context, username string) {
	if repository.ttl <= 0 {
		return
	}

	key := profileKey(username)
	if err := repository.client.Del(context, key).Err(); err != nil {
		repository.logger.WarnContext(context, "channel_cache_invalidate_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// FindWatchHistory is never cached.
func (repository *CachedStore) FindWatchHistory(context context.Context, userID string) ([]WatchHistoryItem, error) {
	return repository.next.FindWatchHistory(context, userID)
}
