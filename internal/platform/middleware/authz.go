// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/saborlabs/receitaria/internal/platform/apperr"
	"github.com/saborlabs/receitaria/internal/platform/constants"
	"github.com/saborlabs/receitaria/internal/platform/ctxutil"
	"github.com/saborlabs/receitaria/internal/platform/respond"
	"github.com/saborlabs/receitaria/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` token
// service implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// TokenBlocklist is the revocation check consulted on every authenticated
// request. A token present in the blocklist must never be accepted again,
// regardless of its own signature validity, until it naturally expires.
type TokenBlocklist interface {
	IsBlocked(ctx context.Context, token string) (bool, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Consult the [TokenBlocklist] — revocation can happen between any two
//     requests, so the check runs per request and is never cached.
//  5. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, blocklist TokenBlocklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.AuthHeaderName)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != constants.AuthSchemeBearer {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Revocation Check ───────────────────────────────────────────
			blocked, err := blocklist.IsBlocked(request.Context(), tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}
			if blocked {
				respond.Error(writer, request, apperr.Unauthorized("Token has been revoked"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}

// BearerToken extracts the raw bearer token from the Authorization header.
// Returns an empty string when the header is absent or malformed.
func BearerToken(request *http.Request) string {
	authHeader := request.Header.Get(constants.AuthHeaderName)
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != constants.AuthSchemeBearer {
		return ""
	}
	return parts[1]
}
