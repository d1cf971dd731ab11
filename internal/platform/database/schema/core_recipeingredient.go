package schema

// CoreRecipeIngredientTable represents the 'core.recipe_ingredient' table
type CoreRecipeIngredientTable struct {
	Table    string
	ID       string
	RecipeID string
	Name     string
	Quantity string
	Position string
}

// CoreRecipeIngredient is the schema definition for core.recipe_ingredient
var CoreRecipeIngredient = CoreRecipeIngredientTable{
	Table:    "core.recipe_ingredient",
	ID:       "id",
	RecipeID: "recipeid",
	Name:     "name",
	Quantity: "quantity",
	Position: "position",
}

// Columns returns all standard column names
func (t CoreRecipeIngredientTable) Columns() []string {
	return []string{t.ID, t.RecipeID, t.Name, t.Quantity, t.Position}
}
