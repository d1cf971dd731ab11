package schema

// CoreRecipeLikeTable represents the 'core.recipe_like' table
type CoreRecipeLikeTable struct {
	Table     string
	RecipeID  string
	UserID    string
	CreatedAt string
}

// CoreRecipeLike is the schema definition for core.recipe_like
var CoreRecipeLike = CoreRecipeLikeTable{
	Table:     "core.recipe_like",
	RecipeID:  "recipeid",
	UserID:    "userid",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t CoreRecipeLikeTable) Columns() []string {
	return []string{t.RecipeID, t.UserID, t.CreatedAt}
}
