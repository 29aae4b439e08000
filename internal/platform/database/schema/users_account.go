// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column the stores query, so SQL is
// built from constants instead of scattered string literals.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table              string
	ID                 string
	Username           string
	Email              string
	FullName           string
	AvatarURL          string
	AvatarPublicID     string
	CoverImageURL      string
	CoverImagePublicID string
	Password           string
	RefreshToken       string
	WatchHistory       string
	CreatedAt          string
	UpdatedAt          string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:              "users.account",
	ID:                 "id",
	Username:           "username",
	Email:              "email",
	FullName:           "fullname",
	AvatarURL:          "avatarurl",
	AvatarPublicID:     "avatarpublicid",
	CoverImageURL:      "coverimageurl",
	CoverImagePublicID: "coverimagepublicid",
	Password:           "passwordhash",
	RefreshToken:       "refreshtoken",
	WatchHistory:       "watchhistory",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FullName, t.AvatarURL, t.AvatarPublicID,
		t.CoverImageURL, t.CoverImagePublicID, t.Password, t.RefreshToken,
		t.WatchHistory, t.CreatedAt, t.UpdatedAt,
	}
}

// Unique constraint names, matched by dberr when translating 23505 violations.
const (
	UserAccountUsernameKey = "account_username_key"
	UserAccountEmailKey    = "account_email_key"
)
