package recipe_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborlabs/receitaria/internal/core/recipe"
	"github.com/saborlabs/receitaria/internal/platform/apperr"
	"github.com/saborlabs/receitaria/pkg/pagination"
)

type fakeRepository struct {
	recipes   map[int64]*recipe.Recipe
	likes     map[[2]int64]bool
	favorites map[[2]int64]bool
	nextID    int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		recipes:   make(map[int64]*recipe.Recipe),
		likes:     make(map[[2]int64]bool),
		favorites: make(map[[2]int64]bool),
	}
}

func (r *fakeRepository) Create(_ context.Context, entity *recipe.Recipe) error {
	for _, existing := range r.recipes {
		if existing.Slug == entity.Slug {
			return apperr.Conflict("Resource already exists")
		}
	}
	r.nextID++
	entity.ID = r.nextID
	copied := *entity
	r.recipes[entity.ID] = &copied
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id int64) (*recipe.Recipe, error) {
	entity, ok := r.recipes[id]
	if !ok {
		return nil, apperr.NotFound("Resource")
	}
	copied := *entity
	return &copied, nil
}

func (r *fakeRepository) GetBySlug(_ context.Context, slug string) (*recipe.Recipe, error) {
	for _, entity := range r.recipes {
		if entity.Slug == slug {
			copied := *entity
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Resource")
}

func (r *fakeRepository) List(_ context.Context, filter recipe.Filter, _ pagination.Params) ([]*recipe.Recipe, int, error) {
	matched := make([]*recipe.Recipe, 0)
	for _, entity := range r.recipes {
		if !filter.IncludeUnpublished && !entity.Published {
			continue
		}
		if filter.AuthorID != 0 && entity.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Type != "" && entity.Type != filter.Type {
			continue
		}
		matched = append(matched, entity)
	}
	return matched, len(matched), nil
}

func (r *fakeRepository) Update(_ context.Context, entity *recipe.Recipe) error {
	if _, ok := r.recipes[entity.ID]; !ok {
		return apperr.NotFound("Resource")
	}
	copied := *entity
	r.recipes[entity.ID] = &copied
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id int64) error {
	delete(r.recipes, id)
	return nil
}

func (r *fakeRepository) ToggleLike(_ context.Context, recipeID, userID int64) (bool, error) {
	key := [2]int64{recipeID, userID}
	if r.likes[key] {
		delete(r.likes, key)
		return false, nil
	}
	r.likes[key] = true
	return true, nil
}

func (r *fakeRepository) ToggleFavorite(_ context.Context, recipeID, userID int64) (bool, error) {
	key := [2]int64{recipeID, userID}
	if r.favorites[key] {
		delete(r.favorites, key)
		return false, nil
	}
	r.favorites[key] = true
	return true, nil
}

func (r *fakeRepository) ListFavorites(_ context.Context, userID int64, _ pagination.Params) ([]*recipe.Recipe, int, error) {
	matched := make([]*recipe.Recipe, 0)
	for key := range r.favorites {
		if key[1] != userID {
			continue
		}
		if entity, ok := r.recipes[key[0]]; ok && entity.Published {
			matched = append(matched, entity)
		}
	}
	return matched, len(matched), nil
}

func newTestService() (*recipe.Service, *fakeRepository) {
	repo := newFakeRepository()
	return recipe.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func publishedInput() recipe.CreateInput {
	return recipe.CreateInput{
		Title:       "Bolo de Cenoura",
		Description: "Classic carrot cake with chocolate topping",
		Type:        recipe.TypeSweet,
		Servings:    8,
		PrepMinutes: 50,
		Published:   true,
		Ingredients: []recipe.Ingredient{{Name: "Cenoura", Quantity: "3"}},
		Steps:       []recipe.Step{{Text: "Blend everything"}},
	}
}

func TestService_Create(t *testing.T) {
	t.Run("slugifies_title", func(t *testing.T) {
		service, _ := newTestService()

		created, err := service.Create(context.Background(), 1, publishedInput())

		require.NoError(t, err)
		assert.Equal(t, "bolo-de-cenoura", created.Slug)
		assert.Equal(t, int64(1), created.AuthorID)
	})

	t.Run("slug_collision_gets_random_suffix", func(t *testing.T) {
		service, _ := newTestService()

		first, err := service.Create(context.Background(), 1, publishedInput())
		require.NoError(t, err)

		second, err := service.Create(context.Background(), 2, publishedInput())
		require.NoError(t, err)

		assert.NotEqual(t, first.Slug, second.Slug)
		assert.Contains(t, second.Slug, "bolo-de-cenoura-")
	})
}

func TestService_Get_DraftVisibility(t *testing.T) {
	service, _ := newTestService()

	input := publishedInput()
	input.Published = false
	draft, err := service.Create(context.Background(), 1, input)
	require.NoError(t, err)

	t.Run("author_sees_own_draft", func(t *testing.T) {
		got, err := service.Get(context.Background(), draft.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, got.ID)
	})

	t.Run("stranger_gets_not_found", func(t *testing.T) {
		_, err := service.Get(context.Background(), draft.ID, 2)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("anonymous_gets_not_found", func(t *testing.T) {
		_, err := service.Get(context.Background(), draft.ID, 0)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

func TestService_Update_Ownership(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), 1, publishedInput())
	require.NoError(t, err)

	t.Run("stranger_forbidden", func(t *testing.T) {
		_, err := service.Update(context.Background(), created.ID, 2, publishedInput())
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "FORBIDDEN"))
	})

	t.Run("author_can_update_and_reslug", func(t *testing.T) {
		input := publishedInput()
		input.Title = "Bolo de Fubá"

		updated, err := service.Update(context.Background(), created.ID, 1, input)
		require.NoError(t, err)
		assert.Equal(t, "bolo-de-fuba", updated.Slug)
	})
}

func TestService_Delete_Ownership(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), 1, publishedInput())
	require.NoError(t, err)

	err = service.Delete(context.Background(), created.ID, 2)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "FORBIDDEN"))

	require.NoError(t, service.Delete(context.Background(), created.ID, 1))
	assert.Empty(t, repo.recipes)
}

func TestService_ToggleLike(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), 1, publishedInput())
	require.NoError(t, err)

	liked, err := service.ToggleLike(context.Background(), created.ID, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = service.ToggleLike(context.Background(), created.ID, 2)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestService_ToggleLike_DraftHidden(t *testing.T) {
	service, _ := newTestService()

	input := publishedInput()
	input.Published = false
	draft, err := service.Create(context.Background(), 1, input)
	require.NoError(t, err)

	_, err = service.ToggleLike(context.Background(), draft.ID, 2)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}
