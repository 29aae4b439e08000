// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/pkg/normalize"
)

// # Service Layer

// Service answers the channel profile and watch history queries.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new channel [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

/*
GetChannelProfile returns the channel of username as seen by viewerID.

Parameters:
  - context: context.Context
  - username: string (matched case-insensitively)
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *ChannelProfile: Profile with subscription statistics
  - error: ValidationError (blank username), NotFound
*/
func (service *Service) GetChannelProfile(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	username = normalize.Username(username)
	if username == "" {
		return nil, apperr.ValidationError(MsgUsernameMissing)
	}

	profile, err := service.store.FindChannelProfile(context, username, viewerID)
	if err != nil {
		return nil, err
	}

	if viewerID == "" {
		profile.IsSubscribed = false
	}

	return profile, nil
}

// GetWatchHistory returns the caller's watched videos, oldest entry first.
func (service *Service) GetWatchHistory(context context.Context, userID string) ([]WatchHistoryItem, error) {
	items, err := service.store.FindWatchHistory(context, userID)
	if err != nil {
		return nil, err
	}

	service.logger.DebugContext(context, "watch_history_fetched",
		slog.String("user_id", userID),
		slog.Int("items", len(items)),
	)

	return items, nil
}
