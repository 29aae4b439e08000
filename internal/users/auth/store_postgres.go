// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidstream/internal/platform/apperr"
	"github.com/taibuivan/vidstream/internal/platform/database/schema"
	"github.com/taibuivan/vidstream/internal/platform/dberr"
)

// resourceUser is the resource name used in NOT_FOUND messages.
const resourceUser = "User"

// accountColumns is the projection scanned by [scanUser], in order.
var accountColumns = strings.Join([]string{
	schema.UserAccount.ID,
	schema.UserAccount.Username,
	schema.UserAccount.Email,
	schema.UserAccount.FullName,
	schema.UserAccount.AvatarURL,
	schema.UserAccount.AvatarPublicID,
	schema.UserAccount.CoverImageURL,
	schema.UserAccount.CoverImagePublicID,
	schema.UserAccount.WatchHistory + "::text[]",
	schema.UserAccount.Password,
	schema.UserAccount.RefreshToken,
	schema.UserAccount.CreatedAt,
	schema.UserAccount.UpdatedAt,
}, ", ")

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Avatar,
		&user.AvatarPublicID,
		&user.CoverImage,
		&user.CoverImagePublicID,
		&user.WatchHistory,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if user.WatchHistory == nil {
		user.WatchHistory = []string{}
	}

	return user, nil
}

/*
Create persists a new account into the users.account table.

Description: Initializes the timestamps when the caller left them empty and
starts the account without a session and with an empty watch history.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict for duplicate username/email, apperr.Internal otherwise
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.FullName, schema.UserAccount.AvatarURL, schema.UserAccount.AvatarPublicID,
		schema.UserAccount.CoverImageURL, schema.UserAccount.CoverImagePublicID,
		schema.UserAccount.Password, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.Avatar,
		user.AvatarPublicID,
		user.CoverImage,
		user.CoverImagePublicID,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourceUser, "postgres_user_repo_create_failed")
	}

	return nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_user_repo_find_by_id_failed")
	}

	return user, nil
}

/*
FindByUsernameOrEmail retrieves the first account matching either identifier.

Description: Used both by login (either credential may be supplied) and by
registration's duplicate check. Empty criteria are ignored.

Parameters:
  - context: context.Context
  - username: string (normalized)
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByUsernameOrEmail(context context.Context, username, email string) (*User, error) {
	if username == "" && email == "" {
		return nil, apperr.NotFound(resourceUser)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE ($1::text <> '' AND %s = $1::text) OR ($2::text <> '' AND %s = $2::text)
		ORDER BY %s
		LIMIT 1`,
		accountColumns, schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.CreatedAt,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, username, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_user_repo_find_by_username_or_email_failed")
	}

	return user, nil
}

/*
UpdateRefreshToken overwrites the stored refresh token unconditionally.

Description: Login uses this to claim the single session slot; logout passes nil.

Parameters:
  - context: context.Context
  - id: string
  - token: *string (nil clears the session)

Returns:
  - error: apperr.NotFound when the account does not exist
*/
func (repository *PostgresUserRepository) UpdateRefreshToken(context context.Context, id string, token *string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, token)
	if err != nil {
		return dberr.Wrap(err, resourceUser, "postgres_user_repo_update_refresh_token_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceUser)
	}

	return nil
}

/*
SwapRefreshToken performs the compare-and-swap used by rotation.

Description: The row is only updated while it still holds expected, so of two
concurrent rotations presenting the same token exactly one wins.

Parameters:
  - context: context.Context
  - id: string
  - expected: string (token presented by the caller)
  - replacement: string (freshly minted token)

Returns:
  - bool: Whether this call won the swap
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SwapRefreshToken(context context.Context, id, expected, replacement string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = now() WHERE %s = $1 AND %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.RefreshToken, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.RefreshToken)

	tag, err := repository.pool.Exec(context, query, id, expected, replacement)
	if err != nil {
		return false, dberr.Wrap(err, resourceUser, "postgres_user_repo_swap_refresh_token_failed")
	}

	return tag.RowsAffected() == 1, nil
}

/*
UpdatePasswordHash updates only the password hash for a specific account.

Parameters:
  - context: context.Context
  - id: string
  - passwordHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) UpdatePasswordHash(context context.Context, id, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, passwordHash)
	if err != nil {
		return dberr.Wrap(err, resourceUser, "postgres_user_repo_update_password_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceUser)
	}

	return nil
}

/*
UpdateProfileFields modifies the full name and email of an account.

Returns:
  - *User: The updated record
  - error: apperr.Conflict when the email belongs to another account
*/
func (repository *PostgresUserRepository) UpdateProfileFields(context context.Context, id, fullName, email string) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.FullName, schema.UserAccount.Email, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, accountColumns,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, id, fullName, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_user_repo_update_profile_failed")
	}

	return user, nil
}

/*
UpdateAssetReference points the avatar or cover slot at a new stored asset.

Parameters:
  - context: context.Context
  - id: string
  - kind: AssetKind (avatar or coverImage)
  - asset: Asset (URL and provider public ID)

Returns:
  - *User: The updated record
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) UpdateAssetReference(context context.Context, id string, kind AssetKind, asset Asset) (*User, error) {
	urlColumn, publicIDColumn := schema.UserAccount.AvatarURL, schema.UserAccount.AvatarPublicID
	if kind == AssetCoverImage {
		urlColumn, publicIDColumn = schema.UserAccount.CoverImageURL, schema.UserAccount.CoverImagePublicID
	} else if kind != AssetAvatar {
		return nil, apperr.Internal(fmt.Errorf("postgres_user_repo_unknown_asset_kind: %q", kind))
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		urlColumn, publicIDColumn, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, accountColumns,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, id, asset.URL, asset.PublicID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "postgres_user_repo_update_asset_failed")
	}

	return user, nil
}
