package recipe

import (
	"context"
	"log/slog"

	"github.com/saborlabs/receitaria/internal/platform/apperr"
	"github.com/saborlabs/receitaria/internal/platform/sec"
	"github.com/saborlabs/receitaria/pkg/pagination"
	"github.com/saborlabs/receitaria/pkg/slug"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CreateInput carries the fields accepted when authoring a recipe.
type CreateInput struct {
	Title       string
	Description string
	Type        string
	Servings    int
	PrepMinutes int
	Published   bool
	Images      []Image
	Ingredients []Ingredient
	Steps       []Step
}

func (service *Service) Create(context context.Context, authorID int64, input CreateInput) (*Recipe, error) {
	recipe := &Recipe{
		AuthorID:    authorID,
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Description: input.Description,
		Type:        input.Type,
		Servings:    input.Servings,
		PrepMinutes: input.PrepMinutes,
		Published:   input.Published,
		Images:      input.Images,
		Ingredients: input.Ingredients,
		Steps:       input.Steps,
	}

	err := service.repo.Create(context, recipe)
	if apperr.IsCode(err, "CONFLICT") {
		// Slug collision with another recipe of the same title. Retry once
		// with a random suffix.
		suffix, sErr := sec.GenerateSecureToken(3)
		if sErr != nil {
			return nil, sErr
		}
		recipe.Slug = recipe.Slug + "-" + suffix
		err = service.repo.Create(context, recipe)
	}
	if err != nil {
		return nil, err
	}

	service.logger.Info("recipe_created",
		slog.Int64("recipe_id", recipe.ID),
		slog.Int64("author_id", authorID),
	)

	return recipe, nil
}

// Get returns a recipe by ID. Unpublished recipes are only visible to their
// author; everyone else sees NotFound rather than Forbidden so drafts stay
// undiscoverable.
func (service *Service) Get(context context.Context, id, viewerID int64) (*Recipe, error) {
	recipe, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if !recipe.Published && recipe.AuthorID != viewerID {
		return nil, apperr.NotFound("Recipe")
	}

	return recipe, nil
}

// GetBySlug mirrors Get for slug-based lookups.
func (service *Service) GetBySlug(context context.Context, recipeSlug string, viewerID int64) (*Recipe, error) {
	recipe, err := service.repo.GetBySlug(context, recipeSlug)
	if err != nil {
		return nil, err
	}

	if !recipe.Published && recipe.AuthorID != viewerID {
		return nil, apperr.NotFound("Recipe")
	}

	return recipe, nil
}

// List returns published recipes matching the search query and type filter.
func (service *Service) List(context context.Context, query, recipeType string, authorID int64, params pagination.Params) ([]*Recipe, int, error) {
	return service.repo.List(context, Filter{Query: query, Type: recipeType, AuthorID: authorID}, params)
}

// ListMine returns every recipe of the author, drafts included.
func (service *Service) ListMine(context context.Context, authorID int64, params pagination.Params) ([]*Recipe, int, error) {
	return service.repo.List(context, Filter{AuthorID: authorID, IncludeUnpublished: true}, params)
}

func (service *Service) Update(context context.Context, id, userID int64, input CreateInput) (*Recipe, error) {
	recipe, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	if recipe.AuthorID != userID {
		return nil, apperr.Forbidden("You can only edit your own recipes")
	}

	if input.Title != recipe.Title {
		recipe.Slug = slug.From(input.Title)
	}
	recipe.Title = input.Title
	recipe.Description = input.Description
	recipe.Type = input.Type
	recipe.Servings = input.Servings
	recipe.PrepMinutes = input.PrepMinutes
	recipe.Published = input.Published
	recipe.Images = input.Images
	recipe.Ingredients = input.Ingredients
	recipe.Steps = input.Steps

	if err := service.repo.Update(context, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

func (service *Service) Delete(context context.Context, id, userID int64) error {
	recipe, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}

	if recipe.AuthorID != userID {
		return apperr.Forbidden("You can only delete your own recipes")
	}

	return service.repo.Delete(context, id)
}

// ToggleLike flips the caller's like on a published recipe.
func (service *Service) ToggleLike(context context.Context, recipeID, userID int64) (bool, error) {
	if _, err := service.Get(context, recipeID, userID); err != nil {
		return false, err
	}
	return service.repo.ToggleLike(context, recipeID, userID)
}

// ToggleFavorite flips the caller's favorite on a published recipe.
func (service *Service) ToggleFavorite(context context.Context, recipeID, userID int64) (bool, error) {
	if _, err := service.Get(context, recipeID, userID); err != nil {
		return false, err
	}
	return service.repo.ToggleFavorite(context, recipeID, userID)
}

func (service *Service) ListFavorites(context context.Context, userID int64, params pagination.Params) ([]*Recipe, int, error) {
	return service.repo.ListFavorites(context, userID, params)
}
