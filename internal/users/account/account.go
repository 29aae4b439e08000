// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages the account lifecycle: registration, profile and
password changes, and avatar/cover replacement.

# Architecture

  - Persistence: reuses [auth.UserRepository]; this package owns no table.
  - Assets: uploads go through [AssetProvider]; superseded assets are deleted
    in the background and never fail the request.
*/
package account

import (
	"context"

	"github.com/taibuivan/vidstream/internal/users/auth"
)

// # External Contracts

// AssetProvider stores media files outside the database.
type AssetProvider interface {
	/*
		Upload stores the file at localPath.

		Returns:
		  - *auth.Asset: Public URL and provider ID
		  - error: Unreadable file or provider failure
	*/
	Upload(ctx context.Context, localPath string) (*auth.Asset, error)

	// Delete removes a previously uploaded asset by its provider ID.
	Delete(ctx context.Context, publicID string) error
}

// ProfileInvalidator drops any cached copy of a public channel profile after
// the account behind it changes. Failures are handled by the implementation.
type ProfileInvalidator interface {
	InvalidateProfile(ctx context.Context, username string)
}

// # Inputs

// RegisterInput holds the data required to create an account.
// AvatarPath and CoverImagePath point at files already staged on local disk.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// UpdateProfileInput holds the replaceable profile fields. Both are required.
type UpdateProfileInput struct {
	FullName string
	Email    string
}

// # Field Identifiers

const (
	FieldFullName    = "fullName"
	FieldEmail       = "email"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldOldPassword = "oldPassword"
	FieldNewPassword = "newPassword"
)

// # Client Messages

const (
	MsgAllFieldsRequired  = "All fields are required"
	MsgInvalidEmail       = "Invalid email"
	MsgAvatarRequired     = "Avatar file is required"
	MsgAvatarMissing      = "Avatar file is missing"
	MsgAvatarUploadFailed = "Error while uploading avatar"
	MsgCoverMissing       = "Cover image file is missing"
	MsgCoverUploadFailed  = "Error while uploading cover image"
	MsgInvalidOldPassword = "Invalid old password"
	MsgRegistered         = "User registered Successfully"
	MsgCurrentUser        = "User fetched successfully"
	MsgPasswordChanged    = "Password changed successfully"
	MsgAccountUpdated     = "Account details updated successfully"
	MsgAvatarUpdated      = "Avatar image updated successfully"
	MsgCoverUpdated       = "Cover image updated successfully"
)
