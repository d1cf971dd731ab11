// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package auth

import (
	"net/http"

	"github.com/saborlabs/receitaria/internal/platform/apperr"
)

// # Error Vocabulary
//
// Stable machine-readable codes for the credential lifecycle. Clients branch
// on Code, humans read Message. Login and recovery failures deliberately share
// generic wording to prevent account enumeration.

const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidOTP         = "INVALID_OTP"
	CodeOTPExpired         = "OTP_EXPIRED"
	CodeInvalidSession     = "INVALID_SESSION"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodePasswordMismatch   = "PASSWORD_MISMATCH"
	CodeNoOpChange         = "NO_OP_CHANGE"
)

// ErrInvalidCredentials is returned for any login failure, regardless of
// whether the email or the password was wrong.
func ErrInvalidCredentials() *apperr.AppError {
	return apperr.New(CodeInvalidCredentials, "Invalid login credentials", http.StatusUnauthorized)
}

// ErrMissingToken is returned when logout is called without a bearer token.
func ErrMissingToken() *apperr.AppError {
	return apperr.New(CodeMissingToken, "Missing bearer token", http.StatusBadRequest)
}

// ErrInvalidOTP is returned when the supplied code does not match the active
// challenge, or when no challenge exists for the account.
func ErrInvalidOTP() *apperr.AppError {
	return apperr.New(CodeInvalidOTP, "Invalid verification code", http.StatusBadRequest)
}

// ErrOTPExpired is returned when the code matched but its window has closed.
func ErrOTPExpired() *apperr.AppError {
	return apperr.New(CodeOTPExpired, "Verification code has expired", http.StatusBadRequest)
}

// ErrInvalidSession is returned when the change session token is unknown.
func ErrInvalidSession() *apperr.AppError {
	return apperr.New(CodeInvalidSession, "Invalid password change session", http.StatusUnauthorized)
}

// ErrSessionExpired is returned when the change session token is known but stale.
func ErrSessionExpired() *apperr.AppError {
	return apperr.New(CodeSessionExpired, "Password change session has expired", http.StatusUnauthorized)
}

// ErrPasswordMismatch is returned when the confirmation does not match.
func ErrPasswordMismatch() *apperr.AppError {
	return apperr.New(CodePasswordMismatch, "Password confirmation does not match", http.StatusBadRequest)
}

// ErrNoOpChange is returned when the new password equals the current one.
func ErrNoOpChange() *apperr.AppError {
	return apperr.New(CodeNoOpChange, "New password must differ from the current password", http.StatusBadRequest)
}
