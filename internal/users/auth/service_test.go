// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborlabs/receitaria/internal/platform/apperr"
	"github.com/saborlabs/receitaria/internal/platform/mail"
	"github.com/saborlabs/receitaria/internal/platform/sec"
	"github.com/saborlabs/receitaria/internal/users/auth"
)

// # Test Doubles

type fakeUserRepository struct {
	users  map[int64]*auth.User
	nextID int64

	// setChallengeErr, when set, makes SetResetChallenge fail.
	setChallengeErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[int64]*auth.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, id int64) (*auth.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepository) FindBySessionToken(_ context.Context, token string) (*auth.User, error) {
	for _, user := range r.users {
		if user.PwSessionToken != nil && *user.PwSessionToken == token {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (r *fakeUserRepository) UpdateProfile(_ context.Context, user *auth.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.Name = user.Name
	stored.Email = user.Email
	return nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, userID int64, newHash string) error {
	stored, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.PasswordHash = newHash
	return nil
}

func (r *fakeUserRepository) SetResetChallenge(_ context.Context, userID int64, otpHash string, expiresAt time.Time) error {
	if r.setChallengeErr != nil {
		return r.setChallengeErr
	}
	stored, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.ResetOTPHash = &otpHash
	stored.ResetOTPExpiresAt = &expiresAt
	return nil
}

func (r *fakeUserRepository) ClearResetChallenge(_ context.Context, userID int64) error {
	stored, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.ResetOTPHash = nil
	stored.ResetOTPExpiresAt = nil
	return nil
}

func (r *fakeUserRepository) GrantChangeSession(_ context.Context, userID int64, sessionToken string, expiresAt time.Time) error {
	stored, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.ResetOTPHash = nil
	stored.ResetOTPExpiresAt = nil
	stored.PwSessionToken = &sessionToken
	stored.PwSessionExpiresAt = &expiresAt
	return nil
}

func (r *fakeUserRepository) ClearChangeSession(_ context.Context, userID int64) error {
	stored, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.PwSessionToken = nil
	stored.PwSessionExpiresAt = nil
	return nil
}

func (r *fakeUserRepository) UpdatePasswordAndClearRecovery(_ context.Context, userID int64, newHash string) error {
	stored, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.PasswordHash = newHash
	stored.ResetOTPHash = nil
	stored.ResetOTPExpiresAt = nil
	stored.PwSessionToken = nil
	stored.PwSessionExpiresAt = nil
	return nil
}

type fakeBlocklist struct {
	entries map[string]time.Time
}

func newFakeBlocklist() *fakeBlocklist {
	return &fakeBlocklist{entries: make(map[string]time.Time)}
}

func (b *fakeBlocklist) Add(_ context.Context, token string, expiresAt time.Time) error {
	if _, exists := b.entries[token]; exists {
		return nil
	}
	b.entries[token] = expiresAt
	return nil
}

func (b *fakeBlocklist) IsBlocked(_ context.Context, token string) (bool, error) {
	_, blocked := b.entries[token]
	return blocked, nil
}

func (b *fakeBlocklist) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	for token, expiresAt := range b.entries {
		if expiresAt.Before(now) {
			delete(b.entries, token)
			removed++
		}
	}
	return removed, nil
}

type stubTokenProvider struct {
	issued        string
	decodedClaims *sec.AuthClaims
}

func (p *stubTokenProvider) IssueAccessToken(int64, string, time.Duration) (string, error) {
	return p.issued, nil
}

func (p *stubTokenProvider) DecodeUnverified(string) *sec.AuthClaims {
	return p.decodedClaims
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, message mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, message)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fakeRecorder struct {
	loginSuccess  int
	loginFailure  int
	revocations   int
	resetRequests int
}

func (r *fakeRecorder) RecordLogin(success bool) {
	if success {
		r.loginSuccess++
	} else {
		r.loginFailure++
	}
}

func (r *fakeRecorder) RecordRevocation()   { r.revocations++ }
func (r *fakeRecorder) RecordResetRequest() { r.resetRequests++ }

// # Fixture

type serviceFixture struct {
	service   *auth.Service
	users     *fakeUserRepository
	blocklist *fakeBlocklist
	tokens    *stubTokenProvider
	mailer    *fakeMailer
	recorder  *fakeRecorder
	now       time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	fixture := &serviceFixture{
		users:     newFakeUserRepository(),
		blocklist: newFakeBlocklist(),
		tokens:    &stubTokenProvider{issued: "signed.jwt.token"},
		mailer:    &fakeMailer{},
		recorder:  &fakeRecorder{},
		now:       time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}

	fixture.service = auth.NewService(
		fixture.users,
		fixture.blocklist,
		fixture.tokens,
		fixture.mailer,
		fixedClock{now: fixture.now},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		fixture.recorder,
	)

	return fixture
}

// registerUser enrolls a user directly through the service so the stored
// password hash is real.
func (f *serviceFixture) registerUser(t *testing.T, email, password string) *auth.User {
	t.Helper()

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Name:     "Maria Silva",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// # Registration

func TestService_Register(t *testing.T) {
	t.Run("creates_user_with_hashed_password", func(t *testing.T) {
		fixture := newServiceFixture(t)

		user, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Name:     "Maria Silva",
			Email:    "maria@example.com",
			Password: "segredo123",
		})

		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.NotEqual(t, "segredo123", user.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("segredo123", user.PasswordHash))
	})

	t.Run("duplicate_email_conflicts", func(t *testing.T) {
		fixture := newServiceFixture(t)
		fixture.registerUser(t, "maria@example.com", "segredo123")

		_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
			Name:     "Other",
			Email:    "maria@example.com",
			Password: "different1",
		})

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "CONFLICT"))
	})
}

// # Login

func TestService_Login(t *testing.T) {
	t.Run("valid_credentials_issue_token", func(t *testing.T) {
		fixture := newServiceFixture(t)
		fixture.registerUser(t, "maria@example.com", "segredo123")

		session, err := fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    "maria@example.com",
			Password: "segredo123",
		})

		require.NoError(t, err)
		assert.Equal(t, "signed.jwt.token", session.AccessToken)
		assert.Equal(t, auth.AccessTokenTTL, session.ExpiresIn)
		assert.Equal(t, "maria@example.com", session.User.Email)
		assert.Equal(t, 1, fixture.recorder.loginSuccess)
	})

	t.Run("unknown_email_and_wrong_password_are_indistinguishable", func(t *testing.T) {
		fixture := newServiceFixture(t)
		fixture.registerUser(t, "maria@example.com", "segredo123")

		_, unknownErr := fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    "nobody@example.com",
			Password: "segredo123",
		})
		_, wrongErr := fixture.service.Login(context.Background(), auth.LoginInput{
			Email:    "maria@example.com",
			Password: "wrong-password",
		})

		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
		assert.True(t, apperr.IsCode(unknownErr, auth.CodeInvalidCredentials))
		assert.True(t, apperr.IsCode(wrongErr, auth.CodeInvalidCredentials))
		assert.Equal(t, 2, fixture.recorder.loginFailure)
	})
}

// # Logout

func TestService_Logout(t *testing.T) {
	t.Run("empty_token_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)

		err := fixture.service.Logout(context.Background(), "")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeMissingToken))
	})

	t.Run("blocks_until_token_expiry", func(t *testing.T) {
		fixture := newServiceFixture(t)
		tokenExpiry := fixture.now.Add(3 * time.Hour)
		fixture.tokens.decodedClaims = &sec.AuthClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(tokenExpiry),
			},
		}

		err := fixture.service.Logout(context.Background(), "some.jwt.token")

		require.NoError(t, err)
		blocked, _ := fixture.blocklist.IsBlocked(context.Background(), "some.jwt.token")
		assert.True(t, blocked)
		assert.True(t, fixture.blocklist.entries["some.jwt.token"].Equal(tokenExpiry))
		assert.Equal(t, 1, fixture.recorder.revocations)
	})

	t.Run("undecodable_token_uses_fallback_window", func(t *testing.T) {
		fixture := newServiceFixture(t)
		fixture.tokens.decodedClaims = nil

		err := fixture.service.Logout(context.Background(), "garbage")

		require.NoError(t, err)
		expected := fixture.now.Add(auth.FallbackBlockTTL)
		assert.True(t, fixture.blocklist.entries["garbage"].Equal(expected))
	})

	t.Run("revoking_twice_is_idempotent", func(t *testing.T) {
		fixture := newServiceFixture(t)

		require.NoError(t, fixture.service.Logout(context.Background(), "some.jwt.token"))
		require.NoError(t, fixture.service.Logout(context.Background(), "some.jwt.token"))

		assert.Len(t, fixture.blocklist.entries, 1)
	})

	t.Run("already_expired_token_is_a_noop", func(t *testing.T) {
		fixture := newServiceFixture(t)
		fixture.tokens.decodedClaims = &sec.AuthClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(fixture.now.Add(-time.Hour)),
			},
		}

		err := fixture.service.Logout(context.Background(), "long.dead.token")

		require.NoError(t, err)
		blocked, _ := fixture.blocklist.IsBlocked(context.Background(), "long.dead.token")
		assert.False(t, blocked, "an expired token has nothing to protect")
		assert.Empty(t, fixture.blocklist.entries)
		assert.Equal(t, 0, fixture.recorder.revocations)
	})
}

// # Blocklist Purge

func TestBlocklistPurge_KeepsEntryExpiringNow(t *testing.T) {
	fixture := newServiceFixture(t)
	background := context.Background()

	require.NoError(t, fixture.blocklist.Add(background, "already.dead", fixture.now.Add(-time.Second)))
	require.NoError(t, fixture.blocklist.Add(background, "dies.this.instant", fixture.now))
	require.NoError(t, fixture.blocklist.Add(background, "still.alive", fixture.now.Add(time.Second)))

	removed, err := fixture.blocklist.PurgeExpired(background, fixture.now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), removed)

	// Only entries strictly before now are purged.
	onBoundary, _ := fixture.blocklist.IsBlocked(background, "dies.this.instant")
	assert.True(t, onBoundary)
	alive, _ := fixture.blocklist.IsBlocked(background, "still.alive")
	assert.True(t, alive)
	dead, _ := fixture.blocklist.IsBlocked(background, "already.dead")
	assert.False(t, dead)
}

// # Password Recovery

func TestService_RequestPasswordReset(t *testing.T) {
	t.Run("unknown_email_succeeds_silently", func(t *testing.T) {
		fixture := newServiceFixture(t)

		err := fixture.service.RequestPasswordReset(context.Background(), "nobody@example.com")

		require.NoError(t, err)
		assert.Empty(t, fixture.mailer.sent)
	})

	t.Run("stores_hash_and_mails_plain_code", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")

		err := fixture.service.RequestPasswordReset(context.Background(), "maria@example.com")

		require.NoError(t, err)
		require.Len(t, fixture.mailer.sent, 1)
		assert.Equal(t, "maria@example.com", fixture.mailer.sent[0].To)

		stored := fixture.users.users[user.ID]
		require.NotNil(t, stored.ResetOTPHash)
		require.NotNil(t, stored.ResetOTPExpiresAt)
		assert.True(t, stored.ResetOTPExpiresAt.Equal(fixture.now.Add(auth.OTPTTL)))

		// The mail body carries the plain code, never the hash.
		assert.NotContains(t, fixture.mailer.sent[0].TextBody, *stored.ResetOTPHash)
		assert.Equal(t, 1, fixture.recorder.resetRequests)
	})

	t.Run("challenge_save_failure_absorbed", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		fixture.users.setChallengeErr = errors.New("connection reset")

		err := fixture.service.RequestPasswordReset(context.Background(), "maria@example.com")

		// The caller sees the same success-shaped outcome; no code is mailed.
		require.NoError(t, err)
		assert.Empty(t, fixture.mailer.sent)
		assert.Nil(t, fixture.users.users[user.ID].ResetOTPHash)
	})

	t.Run("mail_failure_absorbed_and_challenge_survives", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		fixture.mailer.err = errors.New("smtp down")

		err := fixture.service.RequestPasswordReset(context.Background(), "maria@example.com")

		// Delivery trouble is logged only; the stored challenge stays valid
		// for a retry.
		require.NoError(t, err)
		stored := fixture.users.users[user.ID]
		require.NotNil(t, stored.ResetOTPHash)
		assert.True(t, stored.ResetOTPExpiresAt.Equal(fixture.now.Add(auth.OTPTTL)))
	})
}

// seedChallenge installs a known OTP challenge directly on the stored user.
func seedChallenge(f *serviceFixture, userID int64, code string, expiresAt time.Time) {
	hash := sec.HashOTP(code)
	f.users.users[userID].ResetOTPHash = &hash
	f.users.users[userID].ResetOTPExpiresAt = &expiresAt
}

func TestService_VerifyOTP(t *testing.T) {
	t.Run("wrong_code_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		seedChallenge(fixture, user.ID, "Ab3dE9", fixture.now.Add(auth.OTPTTL))

		_, err := fixture.service.VerifyOTP(context.Background(), "maria@example.com", "XXXXXX")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeInvalidOTP))
	})

	t.Run("unknown_email_and_wrong_code_share_error", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		seedChallenge(fixture, user.ID, "Ab3dE9", fixture.now.Add(auth.OTPTTL))

		_, unknownErr := fixture.service.VerifyOTP(context.Background(), "nobody@example.com", "Ab3dE9")
		_, wrongErr := fixture.service.VerifyOTP(context.Background(), "maria@example.com", "XXXXXX")

		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	})

	t.Run("expired_code_reported_distinctly_and_wiped", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		seedChallenge(fixture, user.ID, "Ab3dE9", fixture.now.Add(-time.Minute))

		_, err := fixture.service.VerifyOTP(context.Background(), "maria@example.com", "Ab3dE9")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeOTPExpired))
		assert.Nil(t, fixture.users.users[user.ID].ResetOTPHash)
	})

	t.Run("valid_code_mints_single_use_session", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		seedChallenge(fixture, user.ID, "Ab3dE9", fixture.now.Add(auth.OTPTTL))

		sessionToken, err := fixture.service.VerifyOTP(context.Background(), "maria@example.com", "Ab3dE9")

		require.NoError(t, err)
		assert.Len(t, sessionToken, auth.SessionTokenLength*2) // hex encoding

		stored := fixture.users.users[user.ID]
		assert.Nil(t, stored.ResetOTPHash, "challenge must be consumed")
		require.NotNil(t, stored.PwSessionToken)
		assert.Equal(t, sessionToken, *stored.PwSessionToken)
		assert.True(t, stored.PwSessionExpiresAt.Equal(fixture.now.Add(auth.ChangeSessionTTL)))

		// The consumed code cannot be replayed.
		_, err = fixture.service.VerifyOTP(context.Background(), "maria@example.com", "Ab3dE9")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeInvalidOTP))
	})
}

func TestService_ResetPassword(t *testing.T) {
	t.Run("unknown_session_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)

		err := fixture.service.ResetPassword(context.Background(), "deadbeef", "newpassword1")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeInvalidSession))
	})

	t.Run("expired_session_rejected_and_cleared", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")

		stale := "staletoken"
		staleExpiry := fixture.now.Add(-time.Minute)
		fixture.users.users[user.ID].PwSessionToken = &stale
		fixture.users.users[user.ID].PwSessionExpiresAt = &staleExpiry

		err := fixture.service.ResetPassword(context.Background(), stale, "newpassword1")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeSessionExpired))
		assert.Nil(t, fixture.users.users[user.ID].PwSessionToken)
	})

	t.Run("valid_session_replaces_password_and_ends_recovery", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		seedChallenge(fixture, user.ID, "Ab3dE9", fixture.now.Add(auth.OTPTTL))

		sessionToken, err := fixture.service.VerifyOTP(context.Background(), "maria@example.com", "Ab3dE9")
		require.NoError(t, err)

		err = fixture.service.ResetPassword(context.Background(), sessionToken, "newpassword1")
		require.NoError(t, err)

		stored := fixture.users.users[user.ID]
		assert.True(t, sec.CheckPasswordHash("newpassword1", stored.PasswordHash))
		assert.Nil(t, stored.PwSessionToken, "session must be single-use")
		assert.Nil(t, stored.ResetOTPHash)

		// Replaying the consumed session fails.
		err = fixture.service.ResetPassword(context.Background(), sessionToken, "anotherpass1")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeInvalidSession))
	})

	t.Run("session_without_expiry_is_invalid", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")

		// A token with no recorded expiry is malformed state, not a stale
		// session.
		orphan := "deadbeefdeadbeef"
		fixture.users.users[user.ID].PwSessionToken = &orphan

		err := fixture.service.ResetPassword(context.Background(), orphan, "newpassword1")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeInvalidSession))
		assert.Nil(t, fixture.users.users[user.ID].PwSessionToken, "orphan session must be cleared")
	})
}

// # Authenticated Password Change

func TestService_ChangePassword(t *testing.T) {
	t.Run("wrong_current_password_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")

		err := fixture.service.ChangePassword(context.Background(), user.ID, "wrong", "newpassword1")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeInvalidCredentials))
	})

	t.Run("same_password_is_a_noop", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")

		err := fixture.service.ChangePassword(context.Background(), user.ID, "segredo123", "segredo123")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeNoOpChange))
	})

	t.Run("valid_change_updates_hash", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")

		err := fixture.service.ChangePassword(context.Background(), user.ID, "segredo123", "newpassword1")

		require.NoError(t, err)
		stored := fixture.users.users[user.ID]
		assert.True(t, sec.CheckPasswordHash("newpassword1", stored.PasswordHash))
		assert.False(t, sec.CheckPasswordHash("segredo123", stored.PasswordHash))
	})

	t.Run("kills_pending_recovery_session", func(t *testing.T) {
		fixture := newServiceFixture(t)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		seedChallenge(fixture, user.ID, "Ab3dE9", fixture.now.Add(auth.OTPTTL))

		sessionToken, err := fixture.service.VerifyOTP(context.Background(), "maria@example.com", "Ab3dE9")
		require.NoError(t, err)

		err = fixture.service.ChangePassword(context.Background(), user.ID, "segredo123", "newpassword1")
		require.NoError(t, err)

		// The in-flight recovery session must not survive a direct change;
		// otherwise it could overwrite the password the user just chose.
		stored := fixture.users.users[user.ID]
		assert.Nil(t, stored.PwSessionToken)
		assert.Nil(t, stored.PwSessionExpiresAt)

		err = fixture.service.ResetPassword(context.Background(), sessionToken, "hijacked123")
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, auth.CodeInvalidSession))
		assert.True(t, sec.CheckPasswordHash("newpassword1", fixture.users.users[user.ID].PasswordHash))
	})
}
