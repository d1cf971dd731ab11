package recipe

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saborlabs/receitaria/internal/platform/apperr"
	"github.com/saborlabs/receitaria/internal/platform/middleware"
	requestutil "github.com/saborlabs/receitaria/internal/platform/request"
	"github.com/saborlabs/receitaria/internal/platform/respond"
	"github.com/saborlabs/receitaria/internal/platform/validate"
	"github.com/saborlabs/receitaria/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the recipe router.
//
// Public listing and detail are anonymous; authoring and social actions
// require authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/by-slug/{slug}", handler.getBySlug)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Get("/mine", handler.listMine)
		r.Get("/favorites", handler.listFavorites)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/like", handler.toggleLike)
		r.Post("/{id}/favorite", handler.toggleFavorite)
	})

	return router
}

type recipePayload struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        string       `json:"type"`
	Servings    int          `json:"servings"`
	PrepMinutes int          `json:"prep_minutes"`
	Published   bool         `json:"published"`
	Images      []Image      `json:"images"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
}

func (payload *recipePayload) validate() error {
	v := &validate.Validator{}
	v.Required("title", payload.Title).
		MaxLen("title", payload.Title, 200).
		Required("type", payload.Type).
		OneOf("type", payload.Type, Types...).
		Custom("servings", payload.Servings < 0, "must not be negative").
		Custom("prep_minutes", payload.PrepMinutes < 0, "must not be negative")
	return v.Err()
}

func (payload *recipePayload) toInput() CreateInput {
	return CreateInput{
		Title:       payload.Title,
		Description: payload.Description,
		Type:        payload.Type,
		Servings:    payload.Servings,
		PrepMinutes: payload.PrepMinutes,
		Published:   payload.Published,
		Images:      payload.Images,
		Ingredients: payload.Ingredients,
		Steps:       payload.Steps,
	}
}

// viewerID returns the authenticated user's ID, or 0 for anonymous requests.
func viewerID(request *http.Request) int64 {
	if claims := requestutil.Claims(request); claims != nil {
		return claims.UserID
	}
	return 0
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query().Get("q")
	recipeType := request.URL.Query().Get("type")

	var authorID int64
	if raw := request.URL.Query().Get("author"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			respond.Error(writer, request, apperr.ValidationError("Invalid author identifier"))
			return
		}
		authorID = parsed
	}

	recipes, total, err := handler.service.List(request.Context(), query, recipeType, authorID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, recipes, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recipe, err := handler.service.Get(request.Context(), id, viewerID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, recipe)
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	recipeSlug := requestutil.Param(request, "slug")

	recipe, err := handler.service.GetBySlug(request.Context(), recipeSlug, viewerID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, recipe)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload recipePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	recipe, err := handler.service.Create(request.Context(), userID, payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, recipe)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload recipePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	recipe, err := handler.service.Update(request.Context(), id, userID, payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, recipe)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	recipes, total, err := handler.service.ListMine(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, recipes, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	recipes, total, err := handler.service.ListFavorites(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, recipes, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	liked, err := handler.service.ToggleLike(request.Context(), id, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"liked": liked})
}

func (handler *Handler) toggleFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.NumericID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorited, err := handler.service.ToggleFavorite(request.Context(), id, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"favorited": favorited})
}
