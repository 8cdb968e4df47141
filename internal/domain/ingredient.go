package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient связывает рецепт с продуктом и требуемым количеством
type Ingredient struct {
	ID        int64
	RecipeID  int64
	ProductID int64
	Quantity  decimal.Decimal
	Product   *Product // заполняется при чтении ингредиентов рецепта
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewIngredient(recipeID int64, productID int64, quantity decimal.Decimal) *Ingredient {
	return &Ingredient{
		RecipeID:  recipeID,
		ProductID: productID,
		Quantity:  quantity,
	}
}
