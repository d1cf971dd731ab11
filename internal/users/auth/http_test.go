// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborlabs/receitaria/internal/platform/middleware"
	"github.com/saborlabs/receitaria/internal/platform/sec"
	"github.com/saborlabs/receitaria/internal/users/auth"
)

// gateVerifier accepts exactly the token minted by the stub token provider.
type gateVerifier struct {
	accepted string
}

func (v *gateVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr != v.accepted {
		return nil, fmt.Errorf("sec: invalid token")
	}
	return &sec.AuthClaims{UserID: 1, Email: "maria@example.com"}, nil
}

// newAuthRouter wires the handler behind the real authentication gate, the
// way the server composes it in production.
func newAuthRouter(fixture *serviceFixture) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(&gateVerifier{accepted: fixture.tokens.issued}, fixture.blocklist))
	router.Mount("/auth", auth.NewHandler(fixture.service).Routes())
	return router
}

func postJSON(t *testing.T, router chi.Router, path string, payload any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Register covers the enrollment endpoint.
*/
func TestHandler_Register(t *testing.T) {
	t.Run("valid_payload_creates_account", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)

		recorder := postJSON(t, router, "/auth/register", map[string]string{
			"name":     "Maria Silva",
			"email":    "maria@example.com",
			"password": "segredo123",
		}, "")

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"maria@example.com"`)
		// Registration never hands out a token.
		assert.NotContains(t, recorder.Body.String(), "access_token")
		// The password hash must not leak.
		assert.NotContains(t, recorder.Body.String(), "password")
	})

	t.Run("invalid_email_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)

		recorder := postJSON(t, router, "/auth/register", map[string]string{
			"name":     "Maria Silva",
			"email":    "not-an-email",
			"password": "segredo123",
		}, "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("short_password_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)

		recorder := postJSON(t, router, "/auth/register", map[string]string{
			"name":     "Maria Silva",
			"email":    "maria@example.com",
			"password": "abc",
		}, "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("duplicate_email_conflicts", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)
		fixture.registerUser(t, "maria@example.com", "segredo123")

		recorder := postJSON(t, router, "/auth/register", map[string]string{
			"name":     "Other",
			"email":    "maria@example.com",
			"password": "different1",
		}, "")

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

/*
TestHandler_Login covers the session issuance endpoint.
*/
func TestHandler_Login(t *testing.T) {
	t.Run("valid_credentials_return_bearer_session", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)
		fixture.registerUser(t, "maria@example.com", "segredo123")

		recorder := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "maria@example.com",
			"password": "segredo123",
		}, "")

		assert.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data struct {
				AccessToken string `json:"access_token"`
				TokenType   string `json:"token_type"`
				ExpiresIn   int64  `json:"expires_in"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "signed.jwt.token", envelope.Data.AccessToken)
		assert.Equal(t, "Bearer", envelope.Data.TokenType)
		assert.Equal(t, int64(86400), envelope.Data.ExpiresIn)
	})

	t.Run("bad_credentials_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)
		fixture.registerUser(t, "maria@example.com", "segredo123")

		recorder := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "maria@example.com",
			"password": "wrong-password",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_CREDENTIALS")
	})
}

/*
TestHandler_Logout covers revocation through the full middleware chain.
*/
func TestHandler_Logout(t *testing.T) {
	t.Run("anonymous_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)

		recorder := postJSON(t, router, "/auth/logout", nil, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("revoked_token_locked_out", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)
		token := fixture.tokens.issued

		// First logout succeeds.
		recorder := postJSON(t, router, "/auth/logout", nil, token)
		assert.Equal(t, http.StatusNoContent, recorder.Code)

		// The same token is now rejected at the gate.
		recorder = postJSON(t, router, "/auth/logout", nil, token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "revoked")
	})
}

/*
TestHandler_RecoverPassword ensures responses do not reveal which emails exist.
*/
func TestHandler_RecoverPassword(t *testing.T) {
	fixture := newServiceFixture(t)
	router := newAuthRouter(fixture)
	fixture.registerUser(t, "maria@example.com", "segredo123")

	knownRecorder := postJSON(t, router, "/auth/recover-password", map[string]string{
		"email": "maria@example.com",
	}, "")
	unknownRecorder := postJSON(t, router, "/auth/recover-password", map[string]string{
		"email": "nobody@example.com",
	}, "")

	assert.Equal(t, http.StatusOK, knownRecorder.Code)
	assert.Equal(t, http.StatusOK, unknownRecorder.Code)
	assert.Equal(t, knownRecorder.Body.String(), unknownRecorder.Body.String())

	// Only the registered account actually received a code.
	assert.Len(t, fixture.mailer.sent, 1)
}

/*
TestHandler_VerifyOTP covers payload validation for the code exchange.
*/
func TestHandler_VerifyOTP(t *testing.T) {
	t.Run("wrong_length_code_rejected_before_service", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)

		recorder := postJSON(t, router, "/auth/verify-otp", map[string]string{
			"email": "maria@example.com",
			"code":  "abc",
		}, "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("valid_code_returns_session_token", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)
		user := fixture.registerUser(t, "maria@example.com", "segredo123")
		seedChallenge(fixture, user.ID, "Ab3dE9", fixture.now.Add(5*time.Minute))

		recorder := postJSON(t, router, "/auth/verify-otp", map[string]string{
			"email": "maria@example.com",
			"code":  "Ab3dE9",
		}, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "session_token")
	})
}

/*
TestHandler_ResetPassword covers the final recovery step.
*/
func TestHandler_ResetPassword(t *testing.T) {
	t.Run("confirmation_mismatch_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)

		recorder := postJSON(t, router, "/auth/reset-password", map[string]string{
			"session_token":        "deadbeef",
			"new_password":         "newpassword1",
			"confirm_new_password": "different1",
		}, "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "PASSWORD_MISMATCH")
	})

	t.Run("unknown_session_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)

		recorder := postJSON(t, router, "/auth/reset-password", map[string]string{
			"session_token":        "deadbeef",
			"new_password":         "newpassword1",
			"confirm_new_password": "newpassword1",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "INVALID_SESSION")
	})
}

/*
TestHandler_ChangePassword covers the authenticated credential update.
*/
func TestHandler_ChangePassword(t *testing.T) {
	t.Run("anonymous_rejected", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)

		recorder := postJSON(t, router, "/auth/change-password", map[string]string{
			"current_password":     "segredo123",
			"new_password":         "newpassword1",
			"confirm_new_password": "newpassword1",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_change_succeeds", func(t *testing.T) {
		fixture := newServiceFixture(t)
		router := newAuthRouter(fixture)
		fixture.registerUser(t, "maria@example.com", "segredo123")

		recorder := postJSON(t, router, "/auth/change-password", map[string]string{
			"current_password":     "segredo123",
			"new_password":         "newpassword1",
			"confirm_new_password": "newpassword1",
		}, fixture.tokens.issued)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
