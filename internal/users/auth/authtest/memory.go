// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides an in-memory [auth.UserRepository] for service tests.
//
// It mirrors the Postgres repository's observable behavior: unique username and
// email, NotFound for missing rows, and compare-and-swap rotation.
package authtest

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/users/auth"
	"github.com/taibuivan/vidstream/pkg/pointer"
)

var _ auth.UserRepository = (*MemoryRepository)(nil)

// MemoryRepository is a goroutine-safe in-memory account store.
type MemoryRepository struct {
	mu    sync.Mutex
	order []string
	users map[string]*auth.User

	// CreateErr, when set, is returned by Create without storing anything.
	CreateErr error
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*auth.User)}
}

// Seed stores user as-is, bypassing uniqueness checks.
func (repository *MemoryRepository) Seed(user *auth.User) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.users[user.ID]; !exists {
		repository.order = append(repository.order, user.ID)
	}
	repository.users[user.ID] = clone(user)
}

// StoredRefreshToken returns the raw stored token, or "" when there is no session.
func (repository *MemoryRepository) StoredRefreshToken(id string) string {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return ""
	}
	return pointer.Val(user.RefreshToken)
}

// Count returns the number of stored accounts.
func (repository *MemoryRepository) Count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.users)
}

func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return clone(user), nil
}

func (repository *MemoryRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, id := range repository.order {
		user := repository.users[id]
		if (username != "" && user.Username == username) || (email != "" && user.Email == email) {
			return clone(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *MemoryRepository) Create(_ context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.CreateErr != nil {
		return repository.CreateErr
	}

	for _, existing := range repository.users {
		if existing.Username == user.Username {
			return apperr.Conflict("Username is already taken")
		}
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.WatchHistory == nil {
		user.WatchHistory = []string{}
	}

	repository.order = append(repository.order, user.ID)
	repository.users[user.ID] = clone(user)
	return nil
}

func (repository *MemoryRepository) UpdateRefreshToken(_ context.Context, id string, token *string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("User")
	}

	if token == nil {
		user.RefreshToken = nil
	} else {
		user.RefreshToken = pointer.To(*token)
	}
	return nil
}

func (repository *MemoryRepository) SwapRefreshToken(_ context.Context, id, expected, replacement string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok || user.RefreshToken == nil || *user.RefreshToken != expected {
		return false, nil
	}

	user.RefreshToken = pointer.To(replacement)
	return true, nil
}

func (repository *MemoryRepository) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = passwordHash
	return nil
}

func (repository *MemoryRepository) UpdateProfileFields(_ context.Context, id, fullName, email string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	for otherID, other := range repository.users {
		if otherID != id && other.Email == email {
			return nil, apperr.Conflict("Email is already registered")
		}
	}

	user.FullName = fullName
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	return clone(user), nil
}

func (repository *MemoryRepository) UpdateAssetReference(_ context.Context, id string, kind auth.AssetKind, asset auth.Asset) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	switch kind {
	case auth.AssetAvatar:
		user.Avatar, user.AvatarPublicID = asset.URL, asset.PublicID
	case auth.AssetCoverImage:
		user.CoverImage, user.CoverImagePublicID = asset.URL, asset.PublicID
	}
	user.UpdatedAt = time.Now().UTC()
	return clone(user), nil
}

func clone(user *auth.User) *auth.User {
	copied := *user
	if user.WatchHistory != nil {
		copied.WatchHistory = make([]string, len(user.WatchHistory))
		copy(copied.WatchHistory, user.WatchHistory)
	}
	if user.RefreshToken != nil {
		copied.RefreshToken = pointer.To(*user.RefreshToken)
	}
	return &copied
}
