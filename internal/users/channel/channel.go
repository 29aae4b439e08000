// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package channel serves the public face of an account: its channel profile with
subscription statistics, and the caller's own watch history.

Architecture:

  - Read-only: nothing in this package writes to users.subscription or media.video.
  - Store: [PostgresStore] answers every query in one statement; [CachedStore]
    decorates it with a Redis cache for anonymous profile reads.
*/
package channel

import "time"

// # Domain Models

// ChannelProfile is an account as seen by a (possibly anonymous) viewer.
type ChannelProfile struct {
	ID                        string    `json:"_id"`
	FullName                  string    `json:"fullName"`
	Username                  string    `json:"username"`
	Email                     string    `json:"email"`
	Avatar                    string    `json:"avatar"`
	CoverImage                string    `json:"coverImage"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
	CreatedAt                 time.Time `json:"createdAt"`
}

// Owner is the public projection of the account that uploaded a video.
type Owner struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// WatchHistoryItem is one watched video with its owner resolved.
type WatchHistoryItem struct {
	ID          string    `json:"_id"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	Owner       Owner     `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// # Messages

const (
	MsgUsernameMissing = "Username is missing"
	MsgChannelFetched  = "User channel fetched successfully"
	MsgHistoryFetched  = "Watch history fetched successfully"
)
