// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// # One-Time Codes

const (
	// OTPLength is the number of characters in a password-reset code.
	OTPLength = 6

	// otpAlphabet is the uniform sample space for OTP characters.
	otpAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateOTP produces a fixed-length one-time code drawn uniformly from a
// mixed-case alphanumeric alphabet using a cryptographically strong source.
func GenerateOTP() (string, error) {
	code := make([]byte, OTPLength)
	alphabetSize := big.NewInt(int64(len(otpAlphabet)))

	for i := range code {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("sec: failed to generate otp: %w", err)
		}
		code[i] = otpAlphabet[index.Int64()]
	}

	return string(code), nil
}

// HashOTP produces the hex-encoded SHA-256 digest of a one-time code.
//
// A fast, unsalted digest is acceptable here: codes live for minutes and are
// bounded by their expiry window, not by brute-force resistance.
func HashOTP(code string) string {
	digest := sha256.Sum256([]byte(code))
	return hex.EncodeToString(digest[:])
}

// OTPEqual reports whether a supplied code matches a stored hash.
// The comparison is over hashes and constant-time.
func OTPEqual(suppliedCode, storedHash string) bool {
	supplied := HashOTP(suppliedCode)
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(storedHash)) == 1
}

// # Opaque Tokens

// GenerateSecureToken returns a hex-encoded random string of byteLength
// random bytes, suitable for password-change session handles.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
