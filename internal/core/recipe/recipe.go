package recipe

import "time"

// Recipe categories accepted by the API.
const (
	TypeSweet   = "sweet"
	TypeSavory  = "savory"
	TypeDrink   = "drink"
	TypeSnack   = "snack"
	TypeDessert = "dessert"
)

// Types lists every accepted recipe category for validation.
var Types = []string{TypeSweet, TypeSavory, TypeDrink, TypeSnack, TypeDessert}

// Recipe is a member-authored recipe. Unpublished recipes are visible only
// to their author.
type Recipe struct {
	ID          int64     `json:"id"`
	AuthorID    int64     `json:"author_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Servings    int       `json:"servings"`
	PrepMinutes int       `json:"prep_minutes"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Child collections, populated on detail queries.
	Images      []Image      `json:"images,omitempty"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	Steps       []Step       `json:"steps,omitempty"`

	// Social counters, populated on reads.
	LikeCount     int `json:"like_count"`
	FavoriteCount int `json:"favorite_count"`
}

// Image is an illustration attached to a recipe.
type Image struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// Ingredient is a single line of the ingredient list.
type Ingredient struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Position int    `json:"position"`
}

// Step is a single numbered preparation instruction.
type Step struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Text     string `json:"text"`
}
