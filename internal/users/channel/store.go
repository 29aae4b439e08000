// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import "context"

// Store defines the read-side queries behind the channel endpoints.
type Store interface {
	// FindChannelProfile returns the profile for a normalized username.
	// viewerID may be empty, in which case IsSubscribed is always false.
	FindChannelProfile(ctx context.Context, username, viewerID string) (*ChannelProfile, error)

	// FindWatchHistory returns the watched videos of an account in stored order.
	FindWatchHistory(ctx context.Context, userID string) ([]WatchHistoryItem, error)
}
