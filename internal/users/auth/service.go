// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/platform/sec"
	"github.com/taibuivan/vidstream/pkg/normalize"
	"github.com/taibuivan/vidstream/pkg/pointer"
)

// # Contracts & Types

// TokenProvider defines the contract for minting and verifying session tokens.
type TokenProvider interface {
	IssueAccessToken(identity sec.Identity) (string, error)
	IssueRefreshToken(userID string) (string, error)
	Verify(token string, kind sec.TokenKind) (*sec.AuthClaims, error)
}

// Service is the session manager: it issues, rotates and revokes token pairs.
//
// # Session Invariant
//
// Each account stores at most one refresh token. Login overwrites it, rotation
// replaces it only through a compare-and-swap, and logout clears it. A refresh
// token is therefore valid only while it is the stored value.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenProvider
	logger *slog.Logger
}

// NewService constructs a new session [Service] with necessary dependencies.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
// Either Username or Email identifies the account.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

/*
Login validates account credentials and issues a fresh session pair.

Description: The new refresh token overwrites whatever was stored before, so a
login on one client ends the session of any other client of the same account.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Tokens plus the authenticated account
  - error: ValidationError (no identifier) or Unauthorized (unknown account, wrong password)
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	username := normalize.Username(input.Username)
	email := normalize.Email(input.Email)

	if username == "" && email == "" {
		return nil, apperr.ValidationError(MsgCredentialsRequired)
	}

	// Resolve the account by whichever identifier was supplied
	user, err := service.users.FindByUsernameOrEmail(context, username, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(MsgUserNotFound)
		}
		return nil, err
	}

	// bcrypt comparison is constant-time
	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	session, err := service.issuePair(user)
	if err != nil {
		return nil, err
	}

	// Single session per account: unconditional overwrite
	if err := service.users.UpdateRefreshToken(context, user.ID, pointer.To(session.RefreshToken)); err != nil {
		return nil, fmt.Errorf("auth_service_login_persist_failed: %w", err)
	}
	user.RefreshToken = &session.RefreshToken

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	session.User = user
	return session, nil
}

/*
Logout ends the account's session by clearing the stored refresh token.

Description: Idempotent. Logging out an account that has no session, or no
longer exists, succeeds.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Storage failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.users.UpdateRefreshToken(context, userID, nil); err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_logged_out", slog.String("user_id", userID))
	return nil
}

// # Session Management

/*
Refresh implements refresh-token rotation.

Description: The presented token must verify, belong to an existing account
and equal the stored value. The replacement is persisted with a
compare-and-swap so that two concurrent rotations of the same token cannot
both succeed. The loser, like any replay, gets "expired or used".

Parameters:
  - context: context.Context
  - presented: string (refresh token from cookie or body)

Returns:
  - *LoginSession: New access and refresh tokens
  - error: Unauthorized for every rejected token, storage failures otherwise
*/
func (service *Service) Refresh(context context.Context, presented string) (*LoginSession, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return nil, apperr.Unauthorized(MsgUnauthorizedRequest)
	}

	claims, err := service.tokens.Verify(presented, sec.KindRefresh)
	if err != nil {
		return nil, apperr.Unauthorized(MsgInvalidRefreshToken).WithCause(err)
	}

	user, err := service.users.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(MsgInvalidRefreshToken)
		}
		return nil, err
	}

	// Replayed, superseded by a newer login, or cleared by logout
	if !user.HasSession() || subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(presented)) != 1 {
		service.logger.WarnContext(context, "refresh_token_rejected", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized(MsgRefreshExpiredOrUsed)
	}

	session, err := service.issuePair(user)
	if err != nil {
		return nil, err
	}

	swapped, err := service.users.SwapRefreshToken(context, user.ID, presented, session.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_persist_failed: %w", err)
	}
	if !swapped {
		service.logger.WarnContext(context, "refresh_token_race_lost", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized(MsgRefreshExpiredOrUsed)
	}

	service.logger.InfoContext(context, "session_rotated", slog.String("user_id", user.ID))
	return session, nil
}

/*
VerifyAccessToken resolves an access token into its claims.

Every failure (malformed, expired, forged, wrong kind) is reported as the same
Unauthorized error; the precise reason is kept as the cause for logs.
*/
func (service *Service) VerifyAccessToken(token string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.Verify(token, sec.KindAccess)
	if err != nil {
		return nil, apperr.Unauthorized(MsgInvalidAccessToken).WithCause(err)
	}
	return claims, nil
}

// issuePair mints an access token carrying the identity and a refresh token
// carrying only the account ID.
func (service *Service) issuePair(user *User) (*LoginSession, error) {
	accessToken, err := service.tokens.IssueAccessToken(user.Identity())
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_access_token_failed: %w", err))
	}

	refreshToken, err := service.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_token_failed: %w", err))
	}

	return &LoginSession{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
