package usecase

import (
	"fmt"
	"slices"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// includeQuantity — количество, добавляемое для каждого продукта из include.
var includeQuantity = decimal.NewFromInt(1)

// Верхние границы повторяют NUMERIC(10,2), NUMERIC(12,2) и NUMERIC(14,2) из схемы.
var (
	maxQuantity = decimal.RequireFromString("99999999.99")
	maxPrice    = decimal.RequireFromString("9999999999.99")
	maxTotal    = decimal.RequireFromString("999999999999.99")
)

// Aggregate — отображение product_id → суммарное количество при сборке заказа.
type Aggregate map[int64]decimal.Decimal

// Add прибавляет количество к продукту: повторы суммируются.
func (a Aggregate) Add(productID int64, quantity decimal.Decimal) {
	a[productID] = a[productID].Add(quantity)
}

// ProductIDs возвращает ID продуктов по возрастанию.
func (a Aggregate) ProductIDs() []int64 {
	ids := make([]int64, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// NewDirectAggregate проверяет позиции прямого режима и строит из них агрегат.
// Дубликаты product_id не объединяются, а считаются ошибкой.
func NewDirectAggregate(lines []OrderLine) (Aggregate, error) {
	if len(lines) == 0 {
		return nil, e.ErrNoItems
	}

	agg := make(Aggregate, len(lines))
	for _, line := range lines {
		if line.ProductID <= 0 {
			return nil, fmt.Errorf("%w: %d", e.ErrUnknownProduct, line.ProductID)
		}

		if _, ok := agg[line.ProductID]; ok {
			return nil, fmt.Errorf("%w: %d", e.ErrDuplicateProduct, line.ProductID)
		}

		quantity := line.Quantity.Round(moneyPlaces)
		if !quantity.IsPositive() || quantity.GreaterThan(maxQuantity) {
			return nil, fmt.Errorf("%w: product_id %d", e.ErrInvalidQuantity, line.ProductID)
		}

		agg[line.ProductID] = quantity
	}

	return agg, nil
}

// ValidateRecipeIDs проверяет, что список рецептов непуст и не содержит повторов.
func ValidateRecipeIDs(ids []int64) error {
	if len(ids) == 0 {
		return e.ErrNoRecipes
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: %d", e.ErrUnknownRecipe, id)
		}

		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %d", e.ErrDuplicateRecipe, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// NewRecipesAggregate суммирует ингредиенты рецептов, добавляет include по одной единице
// и полностью удаляет exclude. Exclude имеет приоритет над include.
func NewRecipesAggregate(recipeIngredients map[int64][]domain.Ingredient, include, exclude []int64) (Aggregate, error) {
	agg := make(Aggregate)
	for _, ingredients := range recipeIngredients {
		for _, ing := range ingredients {
			agg.Add(ing.ProductID, ing.Quantity)
		}
	}

	for _, id := range Dedup(include) {
		agg.Add(id, includeQuantity)
	}

	for _, id := range exclude {
		delete(agg, id)
	}

	if len(agg) == 0 {
		return nil, e.ErrEmptyCartAfterModifiers
	}

	return agg, nil
}

// Price формирует позиции заказа со снимком текущей цены и считает итог.
// Каждый продукт агрегата обязан присутствовать в products. Суммы по рецептам
// могут выйти за границы колонок, поэтому количество и итог проверяются здесь.
func (a Aggregate) Price(products map[int64]domain.Product) ([]domain.OrderItem, decimal.Decimal, error) {
	ids := a.ProductIDs()

	var missing []int64
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: %v", e.ErrUnknownProduct, missing)
	}

	items := make([]domain.OrderItem, 0, len(ids))
	total := decimal.Zero
	for _, id := range ids {
		product := products[id]
		quantity := a[id].Round(moneyPlaces)
		if quantity.GreaterThan(maxQuantity) {
			return nil, decimal.Zero, fmt.Errorf("%w: product_id %d", e.ErrInvalidQuantity, id)
		}

		item := domain.OrderItem{
			ProductID:   id,
			ProductName: product.Name,
			Quantity:    quantity,
			Price:       product.Price,
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}

	total = total.Round(moneyPlaces)
	if total.GreaterThan(maxTotal) {
		return nil, decimal.Zero, fmt.Errorf("%w: %s", e.ErrTotalTooLarge, total.StringFixed(moneyPlaces))
	}

	return items, total, nil
}

// Dedup убирает повторы, сохраняя порядок первого вхождения.
func Dedup(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(ids))
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}

	return res
}
