// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

/*
Package account handles user profile management.

It provides functionalities for users to view and update their private
identity data, and for anyone to look up public profiles.

# Architecture

  - Entities: PublicProfile (DTO).
  - Domain: This package depends on the auth package for the User entity.
*/
package account

import (
	"context"
	"time"

	"github.com/saborlabs/receitaria/internal/users/auth"
)

// # Domain Entities

// PublicProfile is the safety-mapped view of a user account exposed to
// other members. It omits email and every credential field.
type PublicProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// # Repository Contracts

// AccountRepository defines the persistence contract for profile management.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*auth.User, error)

	/*
		UpdateProfile modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	UpdateProfile(context context.Context, user *auth.User) error
}
