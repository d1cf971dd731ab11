// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

package account

import (
	"context"
	"log/slog"

	"github.com/saborlabs/receitaria/internal/users/auth"
)

// Service implements profile management use cases.
//
// The [AccountRepository] contract is satisfied by the auth package's
// PostgreSQL user repository; no separate storage layer is needed.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(repo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: repo,
		logger:            logger,
	}
}

// GetProfile returns the full private profile of a user.
func (service *Service) GetProfile(context context.Context, userID int64) (*auth.User, error) {
	return service.accountRepository.FindByID(context, userID)
}

// GetPublicProfile returns the public view of a user.
func (service *Service) GetPublicProfile(context context.Context, userID int64) (*PublicProfile, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}, nil
}

// UpdateProfileInput carries partial profile updates. Nil fields are left untouched.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// UpdateProfile applies partial updates to the user's profile.
func (service *Service) UpdateProfile(context context.Context, userID int64, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := service.accountRepository.UpdateProfile(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", slog.Int64("user_id", userID))

	return user, nil
}
