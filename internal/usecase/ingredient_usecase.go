package usecase

import (
	"context"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/shopspring/decimal"
)

// minIngredientQuantity — минимальное количество продукта в рецепте.
var minIngredientQuantity = decimal.New(1, -moneyPlaces)

// IngredientUseCase управляет составом рецептов.
type IngredientUseCase struct {
	ingredientRepo IngredientRepository
	recipeRepo     RecipeRepository
	productRepo    ProductRepository
	logger         logger.Logger
}

func NewIngredientUC(
	ingredientRepo IngredientRepository,
	recipeRepo RecipeRepository,
	productRepo ProductRepository,
	logger logger.Logger,
) *IngredientUseCase {
	return &IngredientUseCase{
		ingredientRepo: ingredientRepo,
		recipeRepo:     recipeRepo,
		productRepo:    productRepo,
		logger:         logger,
	}
}

// ListForRecipe возвращает ингредиенты рецепта вместе с продуктами.
func (i *IngredientUseCase) ListForRecipe(ctx context.Context, recipeID int64) ([]domain.Ingredient, error) {
	const op = "IngredientUseCase.ListForRecipe"

	if _, err := i.recipeRepo.GetByID(ctx, recipeID); err != nil {
		return nil, e.Wrap(op, err)
	}

	ingredients, err := i.ingredientRepo.ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(ingredients) == 0 {
		return nil, e.Wrap(op, e.ErrNoIngredients)
	}

	return ingredients, nil
}

// AddToRecipe добавляет продукт в рецепт. Один продукт встречается в рецепте не более одного раза.
func (i *IngredientUseCase) AddToRecipe(ctx context.Context, caller domain.Caller, req *AddIngredientReq) (*domain.Ingredient, error) {
	const op = "IngredientUseCase.AddToRecipe"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	quantity, err := normalizeIngredientQuantity(req.Quantity)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := i.recipeRepo.GetByID(ctx, req.RecipeID); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := i.lookupProduct(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ingredient, err := i.ingredientRepo.Add(ctx, domain.NewIngredient(req.RecipeID, req.ProductID, quantity))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	ingredient.Product = product

	i.logger.Infof("ingredient added: recipe_id=%d product_id=%d quantity=%s",
		ingredient.RecipeID, ingredient.ProductID, ingredient.Quantity.StringFixed(moneyPlaces))

	return ingredient, nil
}

func (i *IngredientUseCase) UpdateIngredient(ctx context.Context, caller domain.Caller, req *UpdateIngredientReq) (*domain.Ingredient, error) {
	const op = "IngredientUseCase.UpdateIngredient"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	ingredient, err := i.ingredientRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Quantity != nil {
		quantity, err := normalizeIngredientQuantity(*req.Quantity)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		ingredient.Quantity = quantity
	}

	if req.ProductID != nil {
		ingredient.ProductID = *req.ProductID
	}

	product, err := i.lookupProduct(ctx, ingredient.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	updated, err := i.ingredientRepo.Update(ctx, ingredient)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	updated.Product = product

	return updated, nil
}

func (i *IngredientUseCase) DeleteIngredient(ctx context.Context, caller domain.Caller, id int64) error {
	const op = "IngredientUseCase.DeleteIngredient"

	if !caller.IsAdmin() {
		return e.Wrap(op, e.ErrAdminOnly)
	}

	if err := i.ingredientRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// lookupProduct проверяет существование продукта; для неизвестного продукта возвращает ошибку валидации.
func (i *IngredientUseCase) lookupProduct(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := i.productRepo.GetByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	product, ok := products[id]
	if !ok {
		return nil, e.ErrUnknownProduct
	}

	return &product, nil
}

func normalizeIngredientQuantity(q decimal.Decimal) (decimal.Decimal, error) {
	quantity := q.Round(moneyPlaces)
	if quantity.LessThan(minIngredientQuantity) || quantity.GreaterThan(maxQuantity) {
		return decimal.Zero, e.ErrInvalidQuantity
	}

	return quantity, nil
}
