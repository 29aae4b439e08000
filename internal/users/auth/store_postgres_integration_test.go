// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/platform/postgres/pgtest"
	"github.com/taibuivan/vidstream/internal/users/auth"
	"github.com/taibuivan/vidstream/pkg/uuid"
)

func newAccount(username, email string) *auth.User {
	return &auth.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		FullName:       "Test " + username,
		Avatar:         "https://cdn.test/" + username + ".png",
		AvatarPublicID: "avatars/" + username,
		PasswordHash:   "$2a$04$hash",
	}
}

/*
TestPostgresUserRepository verifies the credential store against a real database.
*/
func TestPostgresUserRepository(t *testing.T) {
	ctx := context.Background()
	repository := auth.NewUserRepository(pgtest.Start(t))

	alice := newAccount("alice", "alice@x.com")
	require.NoError(t, repository.Create(ctx, alice))

	t.Run("find by id and identifiers", func(t *testing.T) {
		found, err := repository.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
		assert.Empty(t, found.WatchHistory)
		assert.False(t, found.HasSession())

		byEmail, err := repository.FindByUsernameOrEmail(ctx, "", "alice@x.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)

		_, err = repository.FindByUsernameOrEmail(ctx, "", "")
		assert.True(t, apperr.IsNotFound(err))

		_, err = repository.FindByID(ctx, uuid.New())
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("duplicates conflict", func(t *testing.T) {
		err := repository.Create(ctx, newAccount("alice", "other@x.com"))
		require.True(t, apperr.IsConflict(err))
		assert.Equal(t, "Username is already taken", err.Error())

		err = repository.Create(ctx, newAccount("other", "alice@x.com"))
		require.True(t, apperr.IsConflict(err))
		assert.Equal(t, "Email is already registered", err.Error())
	})

	t.Run("refresh token compare and swap", func(t *testing.T) {
		first := "token-1"
		require.NoError(t, repository.UpdateRefreshToken(ctx, alice.ID, &first))

		swapped, err := repository.SwapRefreshToken(ctx, alice.ID, "token-1", "token-2")
		require.NoError(t, err)
		assert.True(t, swapped)

		swapped, err = repository.SwapRefreshToken(ctx, alice.ID, "token-1", "token-3")
		require.NoError(t, err)
		assert.False(t, swapped)

		require.NoError(t, repository.UpdateRefreshToken(ctx, alice.ID, nil))
		found, err := repository.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Nil(t, found.RefreshToken)

		swapped, err = repository.SwapRefreshToken(ctx, alice.ID, "token-2", "token-4")
		require.NoError(t, err)
		assert.False(t, swapped)
	})

	t.Run("profile and asset updates", func(t *testing.T) {
		updated, err := repository.UpdateProfileFields(ctx, alice.ID, "Alice L.", "alice@y.com")
		require.NoError(t, err)
		assert.Equal(t, "Alice L.", updated.FullName)
		assert.Equal(t, "alice@y.com", updated.Email)

		updated, err = repository.UpdateAssetReference(ctx, alice.ID, auth.AssetCoverImage,
			auth.Asset{URL: "https://cdn.test/cover.png", PublicID: "covers/alice"})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/cover.png", updated.CoverImage)
		assert.Equal(t, "covers/alice", updated.CoverImagePublicID)
		assert.Equal(t, alice.Avatar, updated.Avatar)

		require.NoError(t, repository.UpdatePasswordHash(ctx, alice.ID, "$2a$04$other"))
		found, err := repository.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "$2a$04$other", found.PasswordHash)
	})
}
