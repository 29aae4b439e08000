// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for accounts.
//
// Implementations translate storage failures into apperr kinds: a missing row is
// apperr.NotFound and a unique violation is apperr.Conflict.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity, including the password hash and refresh token
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsernameOrEmail returns the first account whose username equals
		username or whose email equals email. Blank criteria never match.

		Parameters:
		  - context: context.Context
		  - username: string (already normalized)
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByUsernameOrEmail(context context.Context, username, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict on a duplicate username or email
	*/
	Create(context context.Context, user *User) error

	// UpdateRefreshToken overwrites the stored refresh token. A nil token clears the session.
	UpdateRefreshToken(context context.Context, id string, token *string) error

	/*
		SwapRefreshToken replaces the stored refresh token only if it still equals
		expected.

		Returns:
		  - bool: false when another writer rotated or cleared the token first
		  - error: Persistence failures
	*/
	SwapRefreshToken(context context.Context, id, expected, replacement string) (bool, error)

	// UpdatePasswordHash replaces only the password hash.
	UpdatePasswordHash(context context.Context, id, passwordHash string) error

	// UpdateProfileFields updates the full name and email and returns the fresh record.
	UpdateProfileFields(context context.Context, id, fullName, email string) (*User, error)

	// UpdateAssetReference points the avatar or cover slot at a new asset and
	// returns the fresh record.
	UpdateAssetReference(context context.Context, id string, kind AssetKind, asset Asset) (*User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}
