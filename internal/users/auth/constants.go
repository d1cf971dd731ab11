// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// A single daily token per device keeps the blocklist small.
	AccessTokenTTL = 24 * time.Hour

	// OTPTTL is the duration a password reset OTP remains valid.
	// Short-lived (15m) because the code travels over email.
	OTPTTL = 15 * time.Minute

	// ChangeSessionTTL is the duration a password change session token
	// remains valid after a successful OTP exchange.
	ChangeSessionTTL = 5 * time.Minute

	// SessionTokenLength is the byte length of the random change session token.
	SessionTokenLength = 32

	// FallbackBlockTTL is how long an undecodable token stays in the
	// blocklist. Without a readable exp claim we cannot know when the token
	// dies, so we hold it for the maximum possible access token lifetime.
	FallbackBlockTTL = 24 * time.Hour

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6

	// SweepTimeout bounds a single blocklist purge pass so a hung delete
	// cannot wedge the sweeper goroutine.
	SweepTimeout = 2 * time.Minute
)
