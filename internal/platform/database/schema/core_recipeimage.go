package schema

// CoreRecipeImageTable represents the 'core.recipe_image' table
type CoreRecipeImageTable struct {
	Table    string
	ID       string
	RecipeID string
	URL      string
	Position string
}

// CoreRecipeImage is the schema definition for core.recipe_image
var CoreRecipeImage = CoreRecipeImageTable{
	Table:    "core.recipe_image",
	ID:       "id",
	RecipeID: "recipeid",
	URL:      "url",
	Position: "position",
}

// Columns returns all standard column names
func (t CoreRecipeImageTable) Columns() []string {
	return []string{t.ID, t.RecipeID, t.URL, t.Position}
}
