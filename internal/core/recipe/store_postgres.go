package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborlabs/receitaria/internal/platform/database/schema"
	"github.com/saborlabs/receitaria/internal/platform/dberr"
	"github.com/saborlabs/receitaria/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// recipeColumns is the summary projection including social counters.
var recipeColumns = fmt.Sprintf(`
	r.%s, r.%s, r.%s, r.%s, r.%s, r.%s,
	r.%s, r.%s, r.%s, r.%s, r.%s,
	(SELECT COUNT(*) FROM %s l WHERE l.%s = r.%s) AS likecount,
	(SELECT COUNT(*) FROM %s f WHERE f.%s = r.%s) AS favoritecount`,
	schema.CoreRecipe.ID, schema.CoreRecipe.AuthorID, schema.CoreRecipe.Title,
	schema.CoreRecipe.Slug, schema.CoreRecipe.Description, schema.CoreRecipe.Type,
	schema.CoreRecipe.Servings, schema.CoreRecipe.PrepMinutes, schema.CoreRecipe.Published,
	schema.CoreRecipe.CreatedAt, schema.CoreRecipe.UpdatedAt,
	schema.CoreRecipeLike.Table, schema.CoreRecipeLike.RecipeID, schema.CoreRecipe.ID,
	schema.CoreRecipeFavorite.Table, schema.CoreRecipeFavorite.RecipeID, schema.CoreRecipe.ID,
)

func scanRecipe(row pgx.Row) (*Recipe, error) {
	r := &Recipe{}
	err := row.Scan(
		&r.ID, &r.AuthorID, &r.Title, &r.Slug, &r.Description, &r.Type,
		&r.Servings, &r.PrepMinutes, &r.Published, &r.CreatedAt, &r.UpdatedAt,
		&r.LikeCount, &r.FavoriteCount,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (repository *PostgresRepository) Create(context context.Context, recipe *Recipe) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "create_recipe_begin")
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`,
		schema.CoreRecipe.Table,
		schema.CoreRecipe.AuthorID, schema.CoreRecipe.Title, schema.CoreRecipe.Slug,
		schema.CoreRecipe.Description, schema.CoreRecipe.Type, schema.CoreRecipe.Servings,
		schema.CoreRecipe.PrepMinutes, schema.CoreRecipe.Published,
		schema.CoreRecipe.CreatedAt, schema.CoreRecipe.UpdatedAt,
		schema.CoreRecipe.ID,
	)

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	err = tx.QueryRow(context, query,
		recipe.AuthorID, recipe.Title, recipe.Slug, recipe.Description, recipe.Type,
		recipe.Servings, recipe.PrepMinutes, recipe.Published, recipe.CreatedAt, recipe.UpdatedAt,
	).Scan(&recipe.ID)
	if err != nil {
		return dberr.Wrap(err, "create_recipe")
	}

	if err := insertChildren(context, tx, recipe); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "create_recipe_commit")
	}
	return nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Recipe, error) {
	query := fmt.Sprintf("SELECT%s FROM %s r WHERE r.%s = $1",
		recipeColumns, schema.CoreRecipe.Table, schema.CoreRecipe.ID)

	recipe, err := scanRecipe(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_recipe_by_id")
	}

	if err := repository.loadChildren(context, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Recipe, error) {
	query := fmt.Sprintf("SELECT%s FROM %s r WHERE r.%s = $1",
		recipeColumns, schema.CoreRecipe.Table, schema.CoreRecipe.Slug)

	recipe, err := scanRecipe(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_recipe_by_slug")
	}

	if err := repository.loadChildren(context, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Recipe, int, error) {
	where, args := buildWhere(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s r%s", schema.CoreRecipe.Table, where)
	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_recipes")
	}

	listQuery := fmt.Sprintf("SELECT%s FROM %s r%s ORDER BY r.%s DESC LIMIT $%d OFFSET $%d",
		recipeColumns, schema.CoreRecipe.Table, where, schema.CoreRecipe.CreatedAt,
		len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_recipes")
	}
	defer rows.Close()

	recipes := make([]*Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_recipe")
		}
		recipes = append(recipes, recipe)
	}

	return recipes, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, recipe *Recipe) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "update_recipe_begin")
	}
	defer tx.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5,
		    %s = $6, %s = $7, %s = $8, %s = $9
		WHERE %s = $1`,
		schema.CoreRecipe.Table,
		schema.CoreRecipe.Title, schema.CoreRecipe.Slug, schema.CoreRecipe.Description,
		schema.CoreRecipe.Type, schema.CoreRecipe.Servings, schema.CoreRecipe.PrepMinutes,
		schema.CoreRecipe.Published, schema.CoreRecipe.UpdatedAt,
		schema.CoreRecipe.ID,
	)

	recipe.UpdatedAt = time.Now()
	_, err = tx.Exec(context, query,
		recipe.ID, recipe.Title, recipe.Slug, recipe.Description, recipe.Type,
		recipe.Servings, recipe.PrepMinutes, recipe.Published, recipe.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_recipe")
	}

	// Replace children wholesale. Recipes are small documents; diffing rows
	// is not worth the complexity.
	childTables := []string{
		schema.CoreRecipeImage.Table,
		schema.CoreRecipeIngredient.Table,
		schema.CoreRecipeStep.Table,
	}
	for _, table := range childTables {
		clearQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, schema.CoreRecipeImage.RecipeID)
		if _, err := tx.Exec(context, clearQuery, recipe.ID); err != nil {
			return dberr.Wrap(err, "update_recipe_clear_children")
		}
	}

	if err := insertChildren(context, tx, recipe); err != nil {
		return err
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "update_recipe_commit")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreRecipe.Table, schema.CoreRecipe.ID)
	if _, err := repository.db.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "delete_recipe")
	}
	return nil
}

func (repository *PostgresRepository) ToggleLike(context context.Context, recipeID, userID int64) (bool, error) {
	return repository.toggle(context, schema.CoreRecipeLike.Table, recipeID, userID)
}

func (repository *PostgresRepository) ToggleFavorite(context context.Context, recipeID, userID int64) (bool, error) {
	return repository.toggle(context, schema.CoreRecipeFavorite.Table, recipeID, userID)
}

// toggle removes the (recipe, user) row if present, otherwise inserts it.
// Returns true when the row now exists. Both junction tables share the same
// column layout.
func (repository *PostgresRepository) toggle(context context.Context, table string, recipeID, userID int64) (bool, error) {
	cols := schema.CoreRecipeLike

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", table, cols.RecipeID, cols.UserID)
	tag, err := repository.db.Exec(context, deleteQuery, recipeID, userID)
	if err != nil {
		return false, dberr.Wrap(err, "toggle_delete")
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	// ON CONFLICT guards the race where two toggles insert concurrently.
	insertQuery := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) ON CONFLICT (%s, %s) DO NOTHING",
		table, cols.RecipeID, cols.UserID, cols.CreatedAt, cols.RecipeID, cols.UserID,
	)
	if _, err := repository.db.Exec(context, insertQuery, recipeID, userID, time.Now()); err != nil {
		return false, dberr.Wrap(err, "toggle_insert")
	}
	return true, nil
}

func (repository *PostgresRepository) ListFavorites(context context.Context, userID int64, params pagination.Params) ([]*Recipe, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s f
		JOIN %s r ON r.%s = f.%s
		WHERE f.%s = $1 AND r.%s = TRUE`,
		schema.CoreRecipeFavorite.Table, schema.CoreRecipe.Table,
		schema.CoreRecipe.ID, schema.CoreRecipeFavorite.RecipeID,
		schema.CoreRecipeFavorite.UserID, schema.CoreRecipe.Published,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_favorites")
	}

	listQuery := fmt.Sprintf(`SELECT%s
		FROM %s f
		JOIN %s r ON r.%s = f.%s
		WHERE f.%s = $1 AND r.%s = TRUE
		ORDER BY f.%s DESC LIMIT $2 OFFSET $3`,
		recipeColumns,
		schema.CoreRecipeFavorite.Table, schema.CoreRecipe.Table,
		schema.CoreRecipe.ID, schema.CoreRecipeFavorite.RecipeID,
		schema.CoreRecipeFavorite.UserID, schema.CoreRecipe.Published,
		schema.CoreRecipeFavorite.CreatedAt,
	)

	rows, err := repository.db.Query(context, listQuery, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	recipes := make([]*Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_favorite")
		}
		recipes = append(recipes, recipe)
	}

	return recipes, total, nil
}

// buildWhere assembles the WHERE clause for a filtered listing.
func buildWhere(filter Filter) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if !filter.IncludeUnpublished {
		clauses = append(clauses, fmt.Sprintf("r.%s = TRUE", schema.CoreRecipe.Published))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		clauses = append(clauses, fmt.Sprintf("r.%s = $%d", schema.CoreRecipe.Type, len(args)))
	}
	if filter.AuthorID != 0 {
		args = append(args, filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("r.%s = $%d", schema.CoreRecipe.AuthorID, len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := strconv.Itoa(len(args))
		clauses = append(clauses, fmt.Sprintf("(r.%s ILIKE $%s OR r.%s ILIKE $%s)",
			schema.CoreRecipe.Title, n, schema.CoreRecipe.Description, n))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// insertChildren writes the child collections inside the caller's transaction.
func insertChildren(context context.Context, tx pgx.Tx, recipe *Recipe) error {
	imgQuery := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s",
		schema.CoreRecipeImage.Table, schema.CoreRecipeImage.RecipeID,
		schema.CoreRecipeImage.URL, schema.CoreRecipeImage.Position, schema.CoreRecipeImage.ID)
	for i := range recipe.Images {
		img := &recipe.Images[i]
		img.Position = i
		if err := tx.QueryRow(context, imgQuery, recipe.ID, img.URL, img.Position).Scan(&img.ID); err != nil {
			return dberr.Wrap(err, "insert_recipe_image")
		}
	}

	ingQuery := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s",
		schema.CoreRecipeIngredient.Table, schema.CoreRecipeIngredient.RecipeID,
		schema.CoreRecipeIngredient.Name, schema.CoreRecipeIngredient.Quantity,
		schema.CoreRecipeIngredient.Position, schema.CoreRecipeIngredient.ID)
	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		ing.Position = i
		if err := tx.QueryRow(context, ingQuery, recipe.ID, ing.Name, ing.Quantity, ing.Position).Scan(&ing.ID); err != nil {
			return dberr.Wrap(err, "insert_recipe_ingredient")
		}
	}

	stepQuery := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s",
		schema.CoreRecipeStep.Table, schema.CoreRecipeStep.RecipeID,
		schema.CoreRecipeStep.Position, schema.CoreRecipeStep.Text, schema.CoreRecipeStep.ID)
	for i := range recipe.Steps {
		step := &recipe.Steps[i]
		step.Position = i + 1
		if err := tx.QueryRow(context, stepQuery, recipe.ID, step.Position, step.Text).Scan(&step.ID); err != nil {
			return dberr.Wrap(err, "insert_recipe_step")
		}
	}

	return nil
}

// loadChildren hydrates the three child collections of a recipe.
func (repository *PostgresRepository) loadChildren(context context.Context, recipe *Recipe) error {
	imgQuery := fmt.Sprintf("SELECT %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s",
		schema.CoreRecipeImage.ID, schema.CoreRecipeImage.URL, schema.CoreRecipeImage.Position,
		schema.CoreRecipeImage.Table, schema.CoreRecipeImage.RecipeID, schema.CoreRecipeImage.Position)
	imgRows, err := repository.db.Query(context, imgQuery, recipe.ID)
	if err != nil {
		return dberr.Wrap(err, "load_recipe_images")
	}
	defer imgRows.Close()
	recipe.Images = make([]Image, 0)
	for imgRows.Next() {
		img := Image{}
		if err := imgRows.Scan(&img.ID, &img.URL, &img.Position); err != nil {
			return dberr.Wrap(err, "scan_recipe_image")
		}
		recipe.Images = append(recipe.Images, img)
	}
	imgRows.Close()

	ingQuery := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s",
		schema.CoreRecipeIngredient.ID, schema.CoreRecipeIngredient.Name,
		schema.CoreRecipeIngredient.Quantity, schema.CoreRecipeIngredient.Position,
		schema.CoreRecipeIngredient.Table, schema.CoreRecipeIngredient.RecipeID,
		schema.CoreRecipeIngredient.Position)
	ingRows, err := repository.db.Query(context, ingQuery, recipe.ID)
	if err != nil {
		return dberr.Wrap(err, "load_recipe_ingredients")
	}
	defer ingRows.Close()
	recipe.Ingredients = make([]Ingredient, 0)
	for ingRows.Next() {
		ing := Ingredient{}
		if err := ingRows.Scan(&ing.ID, &ing.Name, &ing.Quantity, &ing.Position); err != nil {
			return dberr.Wrap(err, "scan_recipe_ingredient")
		}
		recipe.Ingredients = append(recipe.Ingredients, ing)
	}
	ingRows.Close()

	stepQuery := fmt.Sprintf("SELECT %s, %s, %s FROM %s WHERE %s = $1 ORDER BY %s",
		schema.CoreRecipeStep.ID, schema.CoreRecipeStep.Position, schema.CoreRecipeStep.Text,
		schema.CoreRecipeStep.Table, schema.CoreRecipeStep.RecipeID, schema.CoreRecipeStep.Position)
	stepRows, err := repository.db.Query(context, stepQuery, recipe.ID)
	if err != nil {
		return dberr.Wrap(err, "load_recipe_steps")
	}
	defer stepRows.Close()
	recipe.Steps = make([]Step, 0)
	for stepRows.Next() {
		step := Step{}
		if err := stepRows.Scan(&step.ID, &step.Position, &step.Text); err != nil {
			return dberr.Wrap(err, "scan_recipe_step")
		}
		recipe.Steps = append(recipe.Steps, step)
	}

	return nil
}
