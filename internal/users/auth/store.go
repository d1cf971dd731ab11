// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Recovery state transitions are expressed as dedicated mutators rather than
// a generic Update so that concurrent flows can never clobber fields they do
// not own.
type UserRepository interface {

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (Conflict on duplicate email)
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindBySessionToken returns the account holding the given password
		change session token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindBySessionToken(context context.Context, token string) (*User, error)

	/*
		UpdateProfile persists changes to the mutable profile fields only.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID int64, newHash string) error

	/*
		SetResetChallenge stores a hashed OTP and its expiry on the account,
		replacing any previous challenge.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - otpHash: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetChallenge(context context.Context, userID int64, otpHash string, expiresAt time.Time) error

	/*
		ClearResetChallenge removes a stale or consumed OTP challenge without
		touching the change session fields.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Persistence failures
	*/
	ClearResetChallenge(context context.Context, userID int64) error

	/*
		GrantChangeSession atomically consumes the OTP challenge and installs
		a password change session token in its place.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - sessionToken: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	GrantChangeSession(context context.Context, userID int64, sessionToken string, expiresAt time.Time) error

	/*
		ClearChangeSession removes a stale change session token.

		Parameters:
		  - context: context.Context
		  - userID: int64

		Returns:
		  - error: Persistence failures
	*/
	ClearChangeSession(context context.Context, userID int64) error

	/*
		UpdatePasswordAndClearRecovery replaces the password hash and wipes
		every recovery field (OTP and session) in a single statement, ending
		the recovery flow.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePasswordAndClearRecovery(context context.Context, userID int64, newHash string) error
}

// # Revocation Data Access

// BlockedTokenRepository defines the contract for the revoked-token blocklist.
//
// Two implementations exist: PostgreSQL (durable, swept daily) and Redis
// (volatile, expiry handled by key TTL). Both guarantee idempotent inserts.
type BlockedTokenRepository interface {

	/*
		Add places a token on the blocklist until expiresAt. Adding a token
		that is already blocked is a silent no-op.

		Parameters:
		  - context: context.Context
		  - token: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	Add(context context.Context, token string, expiresAt time.Time) error

	/*
		IsBlocked reports whether the token is currently on the blocklist.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - bool: true if the token has been revoked
		  - error: Retrieval failures
	*/
	IsBlocked(context context.Context, token string) (bool, error)

	/*
		PurgeExpired removes every entry whose expiry is strictly before
		now. An entry expiring exactly at now survives the pass.

		Parameters:
		  - context: context.Context
		  - now: time.Time

		Returns:
		  - int64: Number of entries removed
		  - error: Cleanup failures
	*/
	PurgeExpired(context context.Context, now time.Time) (int64, error)
}
