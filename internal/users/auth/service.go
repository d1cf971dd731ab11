// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from user registration and secure password hashing to
stateless JWT issuance, logout via a revocation blocklist, and the two-step
OTP password recovery flow.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Recovery).
  - Repository: Abstracted interfaces for Postgres (Users) and the
    configurable blocklist backend (Postgres or Redis).
  - Security: Leverages Bcrypt hashing and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saborlabs/receitaria/internal/platform/apperr"
	"github.com/saborlabs/receitaria/internal/platform/clock"
	"github.com/saborlabs/receitaria/internal/platform/mail"
	"github.com/saborlabs/receitaria/internal/platform/sec"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and inspecting access tokens.
type TokenProvider interface {
	// IssueAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	IssueAccessToken(userID int64, email string, timeToLive time.Duration) (string, error)

	// DecodeUnverified extracts claims from a token WITHOUT verifying the
	// signature. Returns nil when the token cannot be parsed at all. Used
	// only to read the exp claim of tokens being revoked.
	DecodeUnverified(tokenString string) *sec.AuthClaims
}

// Recorder is the subset of the metrics surface the service reports into.
type Recorder interface {
	RecordLogin(success bool)
	RecordRevocation()
	RecordResetRequest()
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, revocation,
// or recovery logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	blockedRepository BlockedTokenRepository
	tokenProvider     TokenProvider
	mailer            mail.Sender
	clock             clock.Clock
	logger            *slog.Logger
	recorder          Recorder
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	blockedRepo BlockedTokenRepository,
	tokenProv TokenProvider,
	mailer mail.Sender,
	clk clock.Clock,
	logger *slog.Logger,
	recorder Recorder,
) *Service {
	return &Service{
		userRepository:    userRepo,
		blockedRepository: blockedRepo,
		tokenProvider:     tokenProv,
		mailer:            mailer,
		clock:             clk,
		logger:            logger,
		recorder:          recorder,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrollment of a new member. No access token is issued here;
the client must log in explicitly after registering.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. The ID is assigned by the database.
	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// Persist the user to the database. The unique index on email closes the
	// race between the lookup above and this insert.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.Int64("user_id", user.ID))

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established stateless session.
type LoginSession struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        *User
}

/*
Login validates user credentials and issues an access token.

Description: Verifies identity with constant-time password comparison and
issues a signed, self-contained JWT. Both the unknown-email and wrong-password
paths return the same error to prevent account enumeration.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session credentials
  - error: INVALID_CREDENTIALS or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Look up by email. Generic error to prevent enumeration.
	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		service.recorder.RecordLogin(false)
		return nil, ErrInvalidCredentials()
	}

	// Verify password hash using bcrypt's constant-time comparison to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recorder.RecordLogin(false)
		return nil, ErrInvalidCredentials()
	}

	// Issue the stateless access token
	accessToken, err := service.tokenProvider.IssueAccessToken(user.ID, user.Email, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.recorder.RecordLogin(true)

	return &LoginSession{
		AccessToken: accessToken,
		ExpiresIn:   AccessTokenTTL,
		User:        user,
	}, nil
}

/*
Logout permanently revokes the presented access token.

Description: Places the token on the blocklist until its natural expiry so
the stateless JWT can never be accepted again. A token whose exp claim is
already in the past is a no-op; tokens whose exp claim cannot be read are
held for [FallbackBlockTTL] instead. Idempotent: revoking the same token
twice succeeds silently.

Parameters:
  - context: context.Context
  - token: string (the raw bearer token)

Returns:
  - error: MISSING_TOKEN or revocation failures
*/
func (service *Service) Logout(context context.Context, token string) error {
	if token == "" {
		return ErrMissingToken()
	}

	// Read the exp claim without verifying the signature. Even a token that
	// fails verification is worth blocking; acceptance is decided at the
	// gate, not here.
	now := service.clock.Now()
	expiresAt := now.Add(FallbackBlockTTL)
	if claims := service.tokenProvider.DecodeUnverified(token); claims != nil && claims.ExpiresAt != nil {
		// An already-expired token can never be accepted again; there is
		// nothing to protect and no row to write.
		if !claims.ExpiresAt.Time.After(now) {
			return nil
		}
		expiresAt = claims.ExpiresAt.Time
	}

	if err := service.blockedRepository.Add(context, token, expiresAt); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.recorder.RecordRevocation()

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a 6-character OTP, stores only its hash on the account,
and emails the plain code to the user. Always reports success to the caller:
an unknown email, a failed challenge write, and a failed delivery are all
logged and absorbed to prevent user enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: OTP generation failures only
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {

	// Unknown emails succeed silently.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil
	}

	// Generate the one-time code. Only the hash is persisted.
	code, err := sec.GenerateOTP()
	if err != nil {
		return fmt.Errorf("auth_service_generate_otp_failed: %w", err)
	}

	// Failures past this point are absorbed: the caller always receives the
	// same success-shaped response, so storage or delivery trouble cannot be
	// used to probe for accounts.
	expiresAt := service.clock.Now().Add(OTPTTL)
	if err := service.userRepository.SetResetChallenge(context, user.ID, sec.HashOTP(code), expiresAt); err != nil {
		service.logger.Error("password_reset_challenge_save_failed",
			slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil
	}

	service.recorder.RecordResetRequest()

	// Deliver the plain code. A failed delivery is logged only; the stored
	// challenge stays valid for a retry.
	message := mail.Message{
		To:      user.Email,
		Subject: "Your password reset code",
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nYour password reset code is: %s\n\nIt expires in %d minutes. If you did not request this, you can ignore this email.\n",
			user.Name, code, int(OTPTTL.Minutes()),
		),
	}
	if err := service.mailer.Send(context, message); err != nil {
		service.logger.Error("password_reset_mail_failed",
			slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil
	}

	service.logger.Info("password_reset_requested", slog.Int64("user_id", user.ID))

	return nil
}

/*
VerifyOTP exchanges a valid emailed code for a password change session token.

Description: Checks the supplied code against the stored hash with a
constant-time comparison. On success the challenge is consumed and replaced
by a short-lived session token in one atomic step, so the code is single-use.

Parameters:
  - context: context.Context
  - email: string
  - code: string

Returns:
  - string: The password change session token
  - error: INVALID_OTP, OTP_EXPIRED, or storage failures
*/
func (service *Service) VerifyOTP(context context.Context, email, code string) (string, error) {

	// Unknown email and wrong code share the same error.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", ErrInvalidOTP()
	}

	if user.ResetOTPHash == nil || user.ResetOTPExpiresAt == nil {
		return "", ErrInvalidOTP()
	}

	if !sec.OTPEqual(code, *user.ResetOTPHash) {
		return "", ErrInvalidOTP()
	}

	// A correct but stale code is reported distinctly and the challenge is
	// wiped so it cannot be probed again.
	if user.ResetOTPExpiresAt.Before(service.clock.Now()) {
		_ = service.userRepository.ClearResetChallenge(context, user.ID)
		return "", ErrOTPExpired()
	}

	// Mint the change session token and consume the challenge atomically.
	sessionToken, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_session_failed: %w", err)
	}

	expiresAt := service.clock.Now().Add(ChangeSessionTTL)
	if err := service.userRepository.GrantChangeSession(context, user.ID, sessionToken, expiresAt); err != nil {
		return "", fmt.Errorf("auth_service_grant_session_failed: %w", err)
	}

	service.logger.Info("otp_verified", slog.Int64("user_id", user.ID))

	return sessionToken, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Resolves the change session token, hashes the new password, and
clears every recovery field in one statement so the session is single-use.

Parameters:
  - context: context.Context
  - sessionToken: string
  - newPassword: string

Returns:
  - error: INVALID_SESSION, SESSION_EXPIRED, or update failures
*/
func (service *Service) ResetPassword(context context.Context, sessionToken, newPassword string) error {

	user, err := service.userRepository.FindBySessionToken(context, sessionToken)
	if err != nil {
		return ErrInvalidSession()
	}

	// A session token with no recorded expiry is malformed state, not a
	// stale one. Clear it and report the session as invalid.
	if user.PwSessionExpiresAt == nil {
		_ = service.userRepository.ClearChangeSession(context, user.ID)
		return ErrInvalidSession()
	}

	if user.PwSessionExpiresAt.Before(service.clock.Now()) {
		_ = service.userRepository.ClearChangeSession(context, user.ID)
		return ErrSessionExpired()
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Single statement: new hash in, all recovery state out.
	if err := service.userRepository.UpdatePasswordAndClearRecovery(context, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	service.logger.Info("password_reset_completed", slog.Int64("user_id", user.ID))

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before applying the new one, and
rejects a "change" to the same password.

Parameters:
  - context: context.Context
  - userID: int64
  - currentPassword: string
  - newPassword: string

Returns:
  - error: INVALID_CREDENTIALS, NO_OP_CHANGE, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID int64, currentPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials()
	}

	// Reject a no-op change to the same password
	if sec.CheckPasswordHash(newPassword, user.PasswordHash) {
		return ErrNoOpChange()
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Persist the new hash and kill any in-flight recovery state. A pending
	// OTP or change session minted before this call must not be able to
	// overwrite the password the user just chose.
	if err := service.userRepository.UpdatePasswordAndClearRecovery(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	service.logger.Info("password_changed", slog.Int64("user_id", userID))

	return nil
}
