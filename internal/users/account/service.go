// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/platform/constants"
	"github.com/taibuivan/vidstream/internal/platform/validate"
	"github.com/taibuivan/vidstream/internal/users/auth"
	"github.com/taibuivan/vidstream/pkg/normalize"
	"github.com/taibuivan/vidstream/pkg/uuid"
)

// # Service Layer

// Service orchestrates the account lifecycle.
type Service struct {
	users  auth.UserRepository
	hasher auth.PasswordHasher
	assets AssetProvider
	logger *slog.Logger

	// profiles is notified after a profile or asset change. May be nil.
	profiles ProfileInvalidator

	// detach runs background cleanup work.
	detach func(task func())
}

// Option customizes a [Service].
type Option func(*Service)

// WithDetach replaces how background cleanup is scheduled. Tests pass a
// function that runs the task inline.
func WithDetach(detach func(task func())) Option {
	return func(service *Service) {
		service.detach = detach
	}
}

// WithProfileInvalidator registers the cache to purge after profile changes.
func WithProfileInvalidator(profiles ProfileInvalidator) Option {
	return func(service *Service) {
		service.profiles = profiles
	}
}

// NewService constructs a new account [Service].
func NewService(users auth.UserRepository, hasher auth.PasswordHasher, assets AssetProvider, logger *slog.Logger, opts ...Option) *Service {
	service := &Service{
		users:  users,
		hasher: hasher,
		assets: assets,
		logger: logger,
		detach: func(task func()) { go task() },
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// # Registration

/*
Register validates, uploads media for, and persists a brand-new account.

Description: Required fields are checked before anything touches the asset
provider. A failed cover upload is tolerated; a failed avatar upload is not.
If the insert fails, the assets uploaded for it are discarded.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *auth.User: The stored account as re-read from the repository
  - error: ValidationError, Conflict, or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*auth.User, error) {
	fullName := normalize.Text(input.FullName)
	email := normalize.Email(input.Email)
	username := normalize.Username(input.Username)

	// 1. Field validation
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(input.Password) == "" {
		return nil, apperr.ValidationError(MsgAllFieldsRequired)
	}

	validator := &validate.Validator{}
	validator.Email(FieldEmail, email)
	if err := validator.ErrMessage(MsgInvalidEmail); err != nil {
		return nil, err
	}

	// 2. Identity uniqueness
	_, err := service.users.FindByUsernameOrEmail(context, username, email)
	if err == nil {
		return nil, apperr.Conflict("User with email or username already exists")
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	// 3. Media
	if input.AvatarPath == "" {
		return nil, apperr.ValidationError(MsgAvatarRequired)
	}

	avatar, err := service.assets.Upload(context, input.AvatarPath)
	if err != nil {
		service.logger.WarnContext(context, "avatar_upload_failed", slog.Any("error", err))
		return nil, apperr.ValidationError(MsgAvatarRequired).WithCause(err)
	}

	cover := &auth.Asset{}
	if input.CoverImagePath != "" {
		uploaded, err := service.assets.Upload(context, input.CoverImagePath)
		if err != nil {
			service.logger.WarnContext(context, "cover_upload_failed", slog.Any("error", err))
		} else {
			cover = uploaded
		}
	}

	// 4. Persistence
	passwordHash, err := service.hasher.Hash(input.Password)
	if err != nil {
		service.discardAssets(context, avatar.PublicID, cover.PublicID)
		return nil, apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
	}

	user := &auth.User{
		ID:                 uuid.New(),
		Username:           username,
		Email:              email,
		FullName:           fullName,
		Avatar:             avatar.URL,
		AvatarPublicID:     avatar.PublicID,
		CoverImage:         cover.URL,
		CoverImagePublicID: cover.PublicID,
		WatchHistory:       []string{},
		PasswordHash:       passwordHash,
	}

	if err := service.users.Create(context, user); err != nil {
		service.discardAssets(context, avatar.PublicID, cover.PublicID)
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, apperr.Internal(fmt.Errorf("account_service_register_failed: %w", err))
	}

	// 5. Read back what was actually stored
	created, err := service.users.FindByID(context, user.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_register_reload_failed: %w", err))
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", created.ID),
		slog.String("username", created.Username),
	)

	return created, nil
}

// # Profile Management

/*
GetCurrentUser returns the account of the authenticated caller.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The account (secrets are excluded from JSON)
  - error: NotFound or storage failures
*/
func (service *Service) GetCurrentUser(context context.Context, userID string) (*auth.User, error) {
	return service.users.FindByID(context, userID)
}

/*
ChangePassword replaces the password after checking the current one.

Returns:
  - error: ValidationError (blank fields), Unauthorized (wrong old password)
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, oldPassword).
		Required(FieldNewPassword, newPassword)
	if err := validator.ErrMessage(MsgAllFieldsRequired); err != nil {
		return err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	// The stored hash stays untouched on a wrong old password
	if !service.hasher.Verify(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized(MsgInvalidOldPassword)
	}

	passwordHash, err := service.hasher.Hash(newPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("account_service_change_password_hash_failed: %w", err))
	}

	if err := service.users.UpdatePasswordHash(context, userID, passwordHash); err != nil {
		return err
	}

	service.logger.InfoContext(context, "user_password_changed", slog.String("user_id", userID))
	return nil
}

/*
UpdateProfile replaces the full name and email of an account.

Returns:
  - *auth.User: The updated account
  - error: ValidationError, Conflict (email taken), or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	fullName := normalize.Text(input.FullName)
	email := normalize.Email(input.Email)

	if fullName == "" || email == "" {
		return nil, apperr.ValidationError(MsgAllFieldsRequired)
	}

	validator := &validate.Validator{}
	validator.Email(FieldEmail, email)
	if err := validator.ErrMessage(MsgInvalidEmail); err != nil {
		return nil, err
	}

	user, err := service.users.UpdateProfileFields(context, userID, fullName, email)
	if err != nil {
		return nil, err
	}

	service.invalidateProfile(context, user.Username)

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))
	return user, nil
}

// # Asset Replacement

// ReplaceAvatar uploads a new avatar and schedules deletion of the previous one.
func (service *Service) ReplaceAvatar(context context.Context, userID, localPath string) (*auth.User, error) {
	return service.replaceAsset(context, userID, auth.AssetAvatar, localPath, MsgAvatarMissing, MsgAvatarUploadFailed)
}

// ReplaceCoverImage uploads a new cover image and schedules deletion of the previous one.
func (service *Service) ReplaceCoverImage(context context.Context, userID, localPath string) (*auth.User, error) {
	return service.replaceAsset(context, userID, auth.AssetCoverImage, localPath, MsgCoverMissing, MsgCoverUploadFailed)
}

/*
replaceAsset swaps one asset slot of an account.

Description: The new reference is stored before the old asset is touched, so a
failure can leave an orphaned object behind but never a broken reference.
Deleting the previous asset runs detached from the request and only logs.
*/
func (service *Service) replaceAsset(ctx context.Context, userID string, kind auth.AssetKind, localPath, missingMessage, failedMessage string) (*auth.User, error) {
	if localPath == "" {
		return nil, apperr.ValidationError(missingMessage)
	}

	current, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	uploaded, err := service.assets.Upload(ctx, localPath)
	if err != nil {
		service.logger.WarnContext(ctx, "asset_upload_failed",
			slog.String("user_id", userID),
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
		return nil, apperr.ValidationError(failedMessage).WithCause(err)
	}

	updated, err := service.users.UpdateAssetReference(ctx, userID, kind, *uploaded)
	if err != nil {
		service.discardAssets(ctx, uploaded.PublicID)
		return nil, err
	}

	previous := current.AvatarPublicID
	if kind == auth.AssetCoverImage {
		previous = current.CoverImagePublicID
	}
	if previous != uploaded.PublicID {
		service.discardAssets(ctx, previous)
	}

	service.invalidateProfile(ctx, updated.Username)

	service.logger.InfoContext(ctx, "user_asset_replaced",
		slog.String("user_id", userID),
		slog.String("kind", string(kind)),
	)

	return updated, nil
}

func (service *Service) invalidateProfile(ctx context.Context, username string) {
	if service.profiles != nil {
		service.profiles.InvalidateProfile(ctx, username)
	}
}

// discardAssets deletes assets in the background on a context that outlives
// the request but is bounded by [constants.AssetCleanupTimeout].
func (service *Service) discardAssets(ctx context.Context, publicIDs ...string) {
	detached := context.WithoutCancel(ctx)

	for _, publicID := range publicIDs {
		if publicID == "" {
			continue
		}

		service.detach(func() {
			cleanupCtx, cancel := context.WithTimeout(detached, constants.AssetCleanupTimeout)
			defer cancel()

			if err := service.assets.Delete(cleanupCtx, publicID); err != nil {
				service.logger.WarnContext(cleanupCtx, "asset_cleanup_failed",
					slog.String("public_id", publicID),
					slog.Any("error", err),
				)
			}
		})
	}
}
