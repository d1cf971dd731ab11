package recipe

import (
	"context"

	"github.com/saborlabs/receitaria/pkg/pagination"
)

// Filter narrows a recipe listing.
type Filter struct {
	// Query matches title or description, case-insensitively.
	Query string
	// Type restricts to a single recipe category when non-empty.
	Type string
	// AuthorID restricts to one author when non-zero.
	AuthorID int64
	// IncludeUnpublished lifts the published-only restriction. Only ever
	// set for an author listing their own recipes.
	IncludeUnpublished bool
}

type Repository interface {
	// Create persists the recipe and its child rows in one transaction.
	Create(context context.Context, recipe *Recipe) error

	// GetByID returns the recipe with children and social counters.
	GetByID(context context.Context, id int64) (*Recipe, error)

	// GetBySlug returns the recipe with children and social counters.
	GetBySlug(context context.Context, slug string) (*Recipe, error)

	// List returns recipe summaries (no children) plus the total count.
	List(context context.Context, filter Filter, params pagination.Params) ([]*Recipe, int, error)

	// Update rewrites the recipe row and replaces its child rows in one transaction.
	Update(context context.Context, recipe *Recipe) error

	// Delete removes the recipe and, via cascade, its children and social rows.
	Delete(context context.Context, id int64) error

	// ToggleLike flips the like state and reports the resulting state.
	ToggleLike(context context.Context, recipeID, userID int64) (bool, error)

	// ToggleFavorite flips the favorite state and reports the resulting state.
	ToggleFavorite(context context.Context, recipeID, userID int64) (bool, error)

	// ListFavorites returns the published recipes a user has favorited.
	ListFavorites(context context.Context, userID int64, params pagination.Params) ([]*Recipe, int, error)
}
