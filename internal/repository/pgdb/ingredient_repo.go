package pgdb

import (
	"context"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const ingredientSelect = `
	SELECT i.id, i.recipe_id, i.product_id, i.quantity, i.created_at, i.updated_at,
		p.name AS product_name, p.price AS product_price
	FROM ingredients i
	JOIN products p ON p.id = i.product_id
`

// IngredientRepo хранит состав рецептов.
type IngredientRepo struct {
	pool *pgxpool.Pool
	conv converter.IngredientConverter
}

func NewIngredientRepo(pool *pgxpool.Pool, conv converter.IngredientConverter) *IngredientRepo {
	return &IngredientRepo{pool: pool, conv: conv}
}

// Add добавляет продукт в рецепт; повтор продукта в рецепте возвращает ErrIngredientExists.
func (i *IngredientRepo) Add(ctx context.Context, ingredient *domain.Ingredient) (*domain.Ingredient, error) {
	query := `
		INSERT INTO ingredients (recipe_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, recipe_id, product_id, quantity, created_at, updated_at
	`

	model := i.conv.ToModel(ingredient)
	if err := tr.Executor(ctx, i.pool).QueryRow(ctx, query, model.RecipeID, model.ProductID, model.Quantity).
		Scan(&model.ID, &model.RecipeID, &model.ProductID, &model.Quantity, &model.CreatedAt, &model.UpdatedAt); err != nil {
		switch {
		case postgresDuplicate(err, "ingredients_recipe_product_key"):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrIngredientExists)
		case postgresForeignKey(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUnknownProduct)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return i.conv.ToEntity(model), nil
}

func (i *IngredientRepo) Update(ctx context.Context, ingredient *domain.Ingredient) (*domain.Ingredient, error) {
	query := `
		UPDATE ingredients
		SET product_id = $2, quantity = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, recipe_id, product_id, quantity, created_at, updated_at
	`

	model := i.conv.ToModel(ingredient)
	if err := tr.Executor(ctx, i.pool).QueryRow(ctx, query, model.ID, model.ProductID, model.Quantity).
		Scan(&model.ID, &model.RecipeID, &model.ProductID, &model.Quantity, &model.CreatedAt, &model.UpdatedAt); err != nil {
		switch {
		case noRows(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrIngredientNotFound)
		case postgresDuplicate(err, "ingredients_recipe_product_key"):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrIngredientExists)
		case postgresForeignKey(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUnknownProduct)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return i.conv.ToEntity(model), nil
}

func (i *IngredientRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Executor(ctx, i.pool).Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrIngredientNotFound)
	}

	return nil
}

func (i *IngredientRepo) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	rows, err := tr.Executor(ctx, i.pool).Query(ctx, ingredientSelect+` WHERE i.id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ingredients, err := i.collect(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(ingredients) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrIngredientNotFound)
	}

	return &ingredients[0], nil
}

func (i *IngredientRepo) ListByRecipe(ctx context.Context, recipeID int64) ([]domain.Ingredient, error) {
	rows, err := tr.Executor(ctx, i.pool).Query(ctx, ingredientSelect+` WHERE i.recipe_id = $1 ORDER BY p.name`, recipeID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ingredients, err := i.collect(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return ingredients, nil
}

// ListByRecipes загружает ингредиенты всех рецептов одним запросом и группирует их по recipe_id.
func (i *IngredientRepo) ListByRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]domain.Ingredient, error) {
	rows, err := tr.Executor(ctx, i.pool).Query(ctx,
		ingredientSelect+` WHERE i.recipe_id = ANY($1) ORDER BY i.recipe_id, i.product_id`, recipeIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ingredients, err := i.collect(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[int64][]domain.Ingredient, len(recipeIDs))
	for _, ing := range ingredients {
		result[ing.RecipeID] = append(result[ing.RecipeID], ing)
	}

	return result, nil
}

func (i *IngredientRepo) collect(rows pgx.Rows) ([]domain.Ingredient, error) {
	defer rows.Close()

	result := make([]domain.Ingredient, 0)
	for rows.Next() {
		var model converter.IngredientModel
		if err := rows.Scan(
			&model.ID, &model.RecipeID, &model.ProductID, &model.Quantity, &model.CreatedAt, &model.UpdatedAt,
			&model.ProductName, &model.ProductPrice,
		); err != nil {
			return nil, err
		}

		result = append(result, *i.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
