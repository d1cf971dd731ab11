package schema

// CoreRecipeFavoriteTable represents the 'core.recipe_favorite' table
type CoreRecipeFavoriteTable struct {
	Table     string
	RecipeID  string
	UserID    string
	CreatedAt string
}

// CoreRecipeFavorite is the schema definition for core.recipe_favorite
var CoreRecipeFavorite = CoreRecipeFavoriteTable{
	Table:     "core.recipe_favorite",
	RecipeID:  "recipeid",
	UserID:    "userid",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t CoreRecipeFavoriteTable) Columns() []string {
	return []string{t.RecipeID, t.UserID, t.CreatedAt}
}
