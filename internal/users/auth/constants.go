// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Field Identifiers

// Request field names shared by the session handlers and validators.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRefreshToken = "refreshToken"
)

// # Client Messages

const (
	MsgCredentialsRequired  = "Username or email is required"
	MsgUserNotFound         = "User does not exist"
	MsgInvalidCredentials   = "Invalid user credentials"
	MsgUnauthorizedRequest  = "Unauthorized request"
	MsgInvalidRefreshToken  = "Invalid refresh token"
	MsgRefreshExpiredOrUsed = "Refresh token is expired or used"
	MsgInvalidAccessToken   = "Invalid access token"
	MsgLoggedIn             = "User logged In Successfully"
	MsgLoggedOut            = "User logged Out"
	MsgAccessTokenRefreshed = "Access token refreshed"
)
