// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

/*
Package auth implements the user identity and credential lifecycle layer.

It defines the core domain entities (User, BlockedToken) and logic for
registration, authentication, token revocation, and password recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Receitaria platform.
//
// The four Reset/Session pointer fields form the password recovery state
// machine. They are nil when no recovery is in flight and are only ever
// written by the narrow repository mutators, never by generic updates.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Password recovery challenge (step 1: emailed OTP).
	ResetOTPHash      *string    `json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`

	// Password change session (step 2: short-lived exchange token).
	PwSessionToken     *string    `json:"-"`
	PwSessionExpiresAt *time.Time `json:"-"`
}

// BlockedToken represents a revoked access token awaiting natural expiry.
type BlockedToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"` // Raw JWT. Omitted for security.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName               = "name"
	FieldEmail              = "email"
	FieldPassword           = "password"
	FieldCode               = "code"
	FieldSessionToken       = "session_token"
	FieldCurrentPassword    = "current_password"
	FieldNewPassword        = "new_password"
	FieldConfirmNewPassword = "confirm_new_password"
	FieldAccessToken        = "access_token"
	FieldTokenType          = "token_type"
	FieldExpiresIn          = "expires_in"
	FieldUser               = "user"
	FieldMessage            = "message"
)
