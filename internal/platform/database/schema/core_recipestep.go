package schema

// CoreRecipeStepTable represents the 'core.recipe_step' table
type CoreRecipeStepTable struct {
	Table    string
	ID       string
	RecipeID string
	Position string
	Text     string
}

// CoreRecipeStep is the schema definition for core.recipe_step
var CoreRecipeStep = CoreRecipeStepTable{
	Table:    "core.recipe_step",
	ID:       "id",
	RecipeID: "recipeid",
	Position: "position",
	Text:     "text",
}

// Columns returns all standard column names
func (t CoreRecipeStepTable) Columns() []string {
	return []string{t.ID, t.RecipeID, t.Position, t.Text}
}
