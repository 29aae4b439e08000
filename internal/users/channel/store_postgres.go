// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/platform/database/schema"
	"github.com/taibuivan/vidstream/internal/platform/dberr"
	"github.com/taibuivan/vidstream/pkg/uuid"
)

const (
	resourceChannel = "Channel"
	resourceUser    = "User"
)

// # Channel Store

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
FindChannelProfile aggregates an account with its subscription statistics.

Description: One statement with two COUNT sub-selects over users.subscription
(subscribers of the channel, channels the account follows) and one EXISTS for
the viewer. A blank or malformed viewer ID is sent as NULL, which never matches.

Parameters:
  - context: context.Context
  - username: string (normalized)
  - viewerID: string (may be empty)

Returns:
  - *ChannelProfile: The aggregated profile
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresStore) FindChannelProfile(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	account, subscription := schema.UserAccount, schema.UserSubscription

	query := fmt.Sprintf(`
		SELECT a.%[3]s, a.%[4]s, a.%[5]s, a.%[6]s, a.%[7]s, a.%[8]s, a.%[9]s,
		       (SELECT COUNT(*) FROM %[2]s s WHERE s.%[10]s = a.%[3]s),
		       (SELECT COUNT(*) FROM %[2]s s WHERE s.%[11]s = a.%[3]s),
		       EXISTS (SELECT 1 FROM %[2]s s WHERE s.%[10]s = a.%[3]s AND s.%[11]s = $2::uuid)
		FROM %[1]s a
		WHERE a.%[5]s = $1`,
		account.Table, subscription.Table,
		account.ID, account.FullName, account.Username, account.Email,
		account.AvatarURL, account.CoverImageURL, account.CreatedAt,
		subscription.ChannelID, subscription.SubscriberID,
	)

	var viewer *string
	if uuid.Valid(viewerID) {
		viewer = &viewerID
	}

	profile := &ChannelProfile{}
	err := repository.pool.QueryRow(context, query, username, viewer).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Username,
		&profile.Email,
		&profile.Avatar,
		&profile.CoverImage,
		&profile.CreatedAt,
		&profile.SubscribersCount,
		&profile.ChannelsSubscribedToCount,
		&profile.IsSubscribed,
	)
	if err != nil {
		return nil, dberr.Wrap(err, resourceChannel, "postgres_channel_store_find_profile_failed")
	}

	return profile, nil
}

/*
FindWatchHistory resolves the watch history of an account into full videos.

Description: The UUID array is expanded WITH ORDINALITY so the result keeps the
stored order. IDs whose video no longer exists are skipped by the inner join.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []WatchHistoryItem: Possibly empty, never nil
  - error: apperr.NotFound when the account does not exist
*/
func (repository *PostgresStore) FindWatchHistory(context context.Context, userID string) ([]WatchHistoryItem, error) {
	account, video := schema.UserAccount, schema.MediaVideo

	if !uuid.Valid(userID) {
		return nil, apperr.NotFound(resourceUser)
	}

	// 1. The account must exist even when its history is empty
	var exists bool
	existsQuery := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, account.Table, account.ID)
	if err := repository.pool.QueryRow(context, existsQuery, userID).Scan(&exists); err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_channel_store_history_owner_failed")
	}
	if !exists {
		return nil, apperr.NotFound(resourceUser)
	}

	// 2. Expand and join
	query := fmt.Sprintf(`
		SELECT v.%[4]s, v.%[5]s, v.%[6]s, v.%[7]s, v.%[8]s, v.%[9]s, v.%[10]s, v.%[11]s, v.%[12]s, v.%[13]s,
		       o.%[14]s, o.%[15]s, o.%[16]s, o.%[17]s
		FROM %[1]s a
		CROSS JOIN LATERAL unnest(a.%[18]s) WITH ORDINALITY AS h(videoid, position)
		JOIN %[2]s v ON v.%[4]s = h.videoid
		JOIN %[1]s o ON o.%[14]s = v.%[3]s
		WHERE a.%[14]s = $1
		ORDER BY h.position`,
		account.Table, video.Table, video.OwnerID,
		video.ID, video.VideoFile, video.Thumbnail, video.Title, video.Description,
		video.Duration, video.Views, video.IsPublished, video.CreatedAt, video.UpdatedAt,
		account.ID, account.FullName, account.Username, account.AvatarURL,
		account.WatchHistory,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_channel_store_history_failed")
	}
	defer rows.Close()

	items := []WatchHistoryItem{}
	for rows.Next() {
		var item WatchHistoryItem
		if err := rows.Scan(
			&item.ID,
			&item.VideoFile,
			&item.Thumbnail,
			&item.Title,
			&item.Description,
			&item.Duration,
			&item.Views,
			&item.IsPublished,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Owner.ID,
			&item.Owner.FullName,
			&item.Owner.Username,
			&item.Owner.Avatar,
		); err != nil {
			return nil, dberr.Wrap(err, resourceUser, "postgres_channel_store_history_scan_failed")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_channel_store_history_rows_failed")
	}

	return items, nil
}
