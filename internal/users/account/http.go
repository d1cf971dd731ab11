// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

/*
HTTP delivery layer for profile management.

# Security

The /me endpoints require an active authentication session provided by the
RequireAuth middleware. Public profile lookup is anonymous.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/saborlabs/receitaria/internal/platform/request"
	"github.com/saborlabs/receitaria/internal/platform/respond"
	"github.com/saborlabs/receitaria/internal/platform/validate"
	"github.com/saborlabs/receitaria/internal/users/auth"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes attaches the account endpoints to the given router. The /me
// routes must be mounted behind RequireAuth by the caller.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)
}

// RegisterPublicRoutes attaches the anonymous profile discovery endpoint.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/{id}", handler.getUserProfile)
}

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Email already in use
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.MinLen(auth.FieldName, *input.Name, 2).MaxLen(auth.FieldName, *input.Name, 100)
	}
	if input.Email != nil {
		v.Email(auth.FieldEmail, *input.Email)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
GET /api/v1/users/{id}.

Description: Retrieves public profile information for a specific user.

Request:
  - id: int64

Response:
  - 200: PublicProfile: Public profile data
  - 404: ErrNotFound: User not found
*/
func (handler *Handler) getUserProfile(writer http.ResponseWriter, request *http.Request) {

	// Parse the numeric user ID
	userID, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Get the public profile
	profile, err := handler.accountService.GetPublicProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
