package schema

// CoreRecipeTable represents the 'core.recipe' table
type CoreRecipeTable struct {
	Table       string
	ID          string
	AuthorID    string
	Title       string
	Slug        string
	Description string
	Type        string
	Servings    string
	PrepMinutes string
	Published   string
	CreatedAt   string
	UpdatedAt   string
}

// CoreRecipe is the schema definition for core.recipe
var CoreRecipe = CoreRecipeTable{
	Table:       "core.recipe",
	ID:          "id",
	AuthorID:    "authorid",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Type:        "type",
	Servings:    "servings",
	PrepMinutes: "prepminutes",
	Published:   "published",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t CoreRecipeTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.Title, t.Slug, t.Description, t.Type,
		t.Servings, t.PrepMinutes, t.Published, t.CreatedAt, t.UpdatedAt,
	}
}
