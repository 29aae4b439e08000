// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/users/channel"
)

const (
	aliceID = "0190a0c8-0000-7000-8000-00000000a11c"
	bobID   = "0190a0c8-0000-7000-8000-000000000b0b"
)

// fakeStore computes profiles from an in-memory subscription edge list.
type fakeStore struct {
	mu            sync.Mutex
	accounts      map[string]channel.ChannelProfile
	subscriptions [][2]string
	history       map[string][]channel.WatchHistoryItem
	profileCalls  int
}

func newFakeStore() *fakeStore {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &fakeStore{
		accounts: map[string]channel.ChannelProfile{
			"alice": {ID: aliceID, Username: "alice", FullName: "Alice Liddell", Email: "alice@x.com", CreatedAt: created},
			"bob":   {ID: bobID, Username: "bob", FullName: "Bob", Email: "bob@x.com", CreatedAt: created},
		},
		history: map[string][]channel.WatchHistoryItem{
			aliceID: {},
		},
	}
}

func (store *fakeStore) subscribe(subscriberID, channelID string) {
	store.subscriptions = append(store.subscriptions, [2]string{subscriberID, channelID})
}

func (store *fakeStore) FindChannelProfile(_ context.Context, username, viewerID string) (*channel.ChannelProfile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.profileCalls++

	account, ok := store.accounts[username]
	if !ok {
		return nil, apperr.NotFound("Channel")
	}

	profile := account
	for _, edge := range store.subscriptions {
		if edge[1] == account.ID {
			profile.SubscribersCount++
			if edge[0] == viewerID {
				profile.IsSubscribed = true
			}
		}
		if edge[0] == account.ID {
			profile.ChannelsSubscribedToCount++
		}
	}
	return &profile, nil
}

func (store *fakeStore) FindWatchHistory(_ context.Context, userID string) ([]channel.WatchHistoryItem, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	items, ok := store.history[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return items, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestGetChannelProfile_Statistics verifies both counts and the viewer-relative flag.
*/
func TestGetChannelProfile_Statistics(t *testing.T) {
	store := newFakeStore()
	store.subscribe(bobID, aliceID)
	store.subscribe(aliceID, bobID)
	service := channel.NewService(store, discardLogger())

	tests := []struct {
		name       string
		username   string
		viewer     string
		subscribed bool
	}{
		{"subscriber viewing", "alice", bobID, true},
		{"owner viewing", "alice", aliceID, false},
		{"anonymous viewing", "alice", "", false},
		{"case insensitive username", "  ALICE ", bobID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := service.GetChannelProfile(context.Background(), tt.username, tt.viewer)
			require.NoError(t, err)

			assert.Equal(t, aliceID, profile.ID)
			assert.Equal(t, int64(1), profile.SubscribersCount)
			assert.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
			assert.Equal(t, tt.subscribed, profile.IsSubscribed)
		})
	}
}

/*
TestGetChannelProfile_NoSubscriptions verifies zero counts for a fresh channel.
*/
func TestGetChannelProfile_NoSubscriptions(t *testing.T) {
	service := channel.NewService(newFakeStore(), discardLogger())

	profile, err := service.GetChannelProfile(context.Background(), "bob", aliceID)
	require.NoError(t, err)

	assert.Zero(t, profile.SubscribersCount)
	assert.Zero(t, profile.ChannelsSubscribedToCount)
	assert.False(t, profile.IsSubscribed)
}

/*
TestGetChannelProfile_Failures verifies the blank-username and unknown-channel errors.
*/
func TestGetChannelProfile_Failures(t *testing.T) {
	store := newFakeStore()
	service := channel.NewService(store, discardLogger())

	_, err := service.GetChannelProfile(context.Background(), "   ", "")
	require.True(t, apperr.IsValidation(err))
	assert.Equal(t, channel.MsgUsernameMissing, err.Error())
	assert.Zero(t, store.profileCalls)

	_, err = service.GetChannelProfile(context.Background(), "carol", "")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestGetWatchHistory verifies the empty history and the unknown-account error.
*/
func TestGetWatchHistory(t *testing.T) {
	store := newFakeStore()
	service := channel.NewService(store, discardLogger())

	items, err := service.GetWatchHistory(context.Background(), aliceID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	store.history[aliceID] = []channel.WatchHistoryItem{
		{ID: "v2", Title: "Second", Owner: channel.Owner{ID: bobID, Username: "bob"}},
		{ID: "v1", Title: "First", Owner: channel.Owner{ID: bobID, Username: "bob"}},
	}
	items, err = service.GetWatchHistory(context.Background(), aliceID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "v2", items[0].ID)
	assert.Equal(t, "bob", items[1].Owner.Username)

	_, err = service.GetWatchHistory(context.Background(), "0190a0c8-0000-7000-8000-000000000000")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestGetChannelProfile_ThreeSubscribers verifies the count with the viewer among the subscribers.
*/
func TestGetChannelProfile_ThreeSubscribers(t *testing.T) {
	store := newFakeStore()
	carolID := "0190a0c8-0000-7000-8000-0000000ca401"
	daveID := "0190a0c8-0000-7000-8000-0000000da7e0"
	for _, subscriber := range []string{bobID, carolID, daveID} {
		store.subscribe(subscriber, aliceID)
	}
	service := channel.NewService(store, discardLogger())

	viewed, err := service.GetChannelProfile(context.Background(), "alice", carolID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), viewed.SubscribersCount)
	assert.Zero(t, viewed.ChannelsSubscribedToCount)
	assert.True(t, viewed.IsSubscribed)

	anonymous, err := service.GetChannelProfile(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), anonymous.SubscribersCount)
	assert.False(t, anonymous.IsSubscribed)
}
