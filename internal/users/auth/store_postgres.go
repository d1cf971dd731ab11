// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

// PostgreSQL implementations of the auth repositories.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement the domain-defined interfaces ([UserRepository],
// [BlockedTokenRepository]) using the [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborlabs/receitaria/internal/platform/apperr"
	"github.com/saborlabs/receitaria/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the canonical projection shared by every user lookup.
const userColumns = `
	id, name, email, passwordhash,
	resetotphash, resetotpexpiresat, pwsessiontoken, pwsessionexpiresat,
	createdat, updatedat`

// scanUser hydrates a User from a row using the [userColumns] projection.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ResetOTPHash,
		&user.ResetOTPExpiresAt,
		&user.PwSessionToken,
		&user.PwSessionExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized and the database-generated ID is written back to the entity.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (name, email, passwordhash, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := "SELECT" + userColumns + " FROM users.account WHERE id = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := "SELECT" + userColumns + " FROM users.account WHERE email = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindBySessionToken retrieves the user holding a password change session token.

Description: Session tokens are random 256-bit values, so an exact match
identifies the account unambiguously.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindBySessionToken(context context.Context, token string) (*User, error) {
	query := "SELECT" + userColumns + " FROM users.account WHERE pwsessiontoken = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_session_failed: %w", err)
	}

	return user, nil
}

/*
UpdateProfile persists changes to a user's mutable profile fields.

Description: Touches name and email only. Credential and recovery columns are
owned by their dedicated mutators.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET name = $2, email = $3, updatedat = $4
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_update_profile_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: int64
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID int64, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
SetResetChallenge stores a hashed OTP and its expiry, replacing any previous
challenge for the account.

Parameters:
  - context: context.Context
  - userID: int64
  - otpHash: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetResetChallenge(context context.Context, userID int64, otpHash string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET resetotphash = $2, resetotpexpiresat = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, otpHash, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_challenge_failed: %w", err)
	}

	return nil
}

/*
ClearResetChallenge removes a stale or consumed OTP challenge.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearResetChallenge(context context.Context, userID int64) error {
	const query = `
		UPDATE users.account
		SET resetotphash = NULL, resetotpexpiresat = NULL, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_challenge_failed: %w", err)
	}

	return nil
}

/*
GrantChangeSession consumes the OTP challenge and installs a change session
token in a single statement, so no interleaving can observe both active.

Parameters:
  - context: context.Context
  - userID: int64
  - sessionToken: string
  - expiresAt: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) GrantChangeSession(context context.Context, userID int64, sessionToken string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET resetotphash = NULL, resetotpexpiresat = NULL,
		    pwsessiontoken = $2, pwsessionexpiresat = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, sessionToken, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_grant_session_failed: %w", err)
	}

	return nil
}

/*
ClearChangeSession removes a stale change session token.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearChangeSession(context context.Context, userID int64) error {
	const query = `
		UPDATE users.account
		SET pwsessiontoken = NULL, pwsessionexpiresat = NULL, updatedat = $2
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_session_failed: %w", err)
	}

	return nil
}

/*
UpdatePasswordAndClearRecovery replaces the password hash and wipes every
recovery column in one statement, ending the recovery flow atomically.

Parameters:
  - context: context.Context
  - userID: int64
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePasswordAndClearRecovery(context context.Context, userID int64, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2,
		    resetotphash = NULL, resetotpexpiresat = NULL,
		    pwsessiontoken = NULL, pwsessionexpiresat = NULL,
		    updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_finish_recovery_failed: %w", err)
	}

	return nil
}

// # Blocked Token Repository

// PostgresBlockedTokenRepository implements BlockedTokenRepository using pgx.
type PostgresBlockedTokenRepository struct {
	pool *pgxpool.Pool
}

// NewBlockedTokenRepository creates a new PostgreSQL implementation of BlockedTokenRepository.
func NewBlockedTokenRepository(pool *pgxpool.Pool) *PostgresBlockedTokenRepository {
	return &PostgresBlockedTokenRepository{pool: pool}
}

/*
Add places a token on the blocklist until expiresAt.

Description: ON CONFLICT DO NOTHING makes double logout with the same token
a silent no-op, keeping the operation idempotent.

Parameters:
  - context: context.Context
  - token: string
  - expiresAt: time.Time

Returns:
  - error: Storage failures
*/
func (repository *PostgresBlockedTokenRepository) Add(context context.Context, token string, expiresAt time.Time) error {
	const query = `
		INSERT INTO users.blocked_token (token, expiresat, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO NOTHING`

	_, err := repository.pool.Exec(context, query, token, expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_blocked_token_repo_add_failed: %w", err)
	}

	return nil
}

/*
IsBlocked reports whether the token is currently on the blocklist.

Description: Presence is sufficient. Entries past their expiry are harmless
(the token is already dead by signature) and the sweeper removes them.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - bool: true if the token has been revoked
  - error: Retrieval failures
*/
func (repository *PostgresBlockedTokenRepository) IsBlocked(context context.Context, token string) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM users.blocked_token WHERE token = $1)"

	var blocked bool
	if err := repository.pool.QueryRow(context, query, token).Scan(&blocked); err != nil {
		return false, fmt.Errorf("postgres_blocked_token_repo_lookup_failed: %w", err)
	}

	return blocked, nil
}

/*
PurgeExpired permanently removes all blocklist entries strictly past their
expiry. An entry expiring exactly at now is kept for one more sweep.

Parameters:
  - context: context.Context
  - now: time.Time

Returns:
  - int64: Number of entries removed
  - error: Cleanup failures
*/
func (repository *PostgresBlockedTokenRepository) PurgeExpired(context context.Context, now time.Time) (int64, error) {
	const query = "DELETE FROM users.blocked_token WHERE expiresat < $1"

	commandTag, err := repository.pool.Exec(context, query, now)
	if err != nil {
		return 0, fmt.Errorf("postgres_blocked_token_repo_purge_failed: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
