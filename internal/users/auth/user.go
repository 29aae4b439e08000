// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the account identity and session management layer.

It defines the core account entity, the credential store contract and the
session manager that issues, rotates and revokes access/refresh token pairs.

# Architecture

Entities defined here carry no storage or transport concerns. The account
lifecycle and channel packages build on top of them.
*/
package auth

import (
	"time"

	"github.com/taibuivan/vidstream/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
//
// The password hash and the stored refresh token never leave the process: both
// are excluded from JSON.
type User struct {
	ID                 string    `json:"_id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FullName           string    `json:"fullName"`
	Avatar             string    `json:"avatar"`
	AvatarPublicID     string    `json:"-"`
	CoverImage         string    `json:"coverImage"`
	CoverImagePublicID string    `json:"-"`
	WatchHistory       []string  `json:"watchHistory"`
	PasswordHash       string    `json:"-"`
	RefreshToken       *string   `json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Identity projects the claims embedded into an access token.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	}
}

// HasSession reports whether a refresh token is currently stored.
func (user *User) HasSession() bool {
	return user.RefreshToken != nil && *user.RefreshToken != ""
}

// Asset is a stored media object owned by an account.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// AssetKind selects which asset slot of an account is updated.
type AssetKind string

const (
	AssetAvatar     AssetKind = "avatar"
	AssetCoverImage AssetKind = "coverImage"
)

// Valid reports whether the kind names a known slot.
func (kind AssetKind) Valid() bool {
	return kind == AssetAvatar || kind == AssetCoverImage
}

// # Session Pair

// LoginSession is the result of a successful login or rotation.
type LoginSession struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}
