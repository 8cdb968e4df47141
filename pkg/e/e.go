package e

import (
	"fmt"
	"sort"
	"strings"
)

// Категории ошибок. Конкретные ошибки оборачивают одну из категорий,
// по ней delivery-слой выбирает код ответа.
var (
	ErrValidation      = fmt.Errorf("validation error")
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	ErrForbidden       = fmt.Errorf("forbidden")
	ErrUnprocessable   = fmt.Errorf("unprocessable entity")
	ErrEmptyCart       = fmt.Errorf("%w: empty cart", ErrUnprocessable)
	ErrNotFound        = fmt.Errorf("not found")
	ErrConflict        = fmt.Errorf("conflict")
	ErrInternal        = fmt.Errorf("internal server error")
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("%w: bad request", ErrValidation)
	ErrInvalidJSON          = fmt.Errorf("%w: malformed JSON body", ErrValidation)
	ErrInvalidQuery         = fmt.Errorf("%w: invalid query parameter", ErrValidation)
	ErrInvalidID            = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrExpectedMultipart    = fmt.Errorf("%w: expected multipart/form-data", ErrValidation)
	ErrNoImages             = fmt.Errorf("%w: no image provided", ErrValidation)
	ErrFileTooLarge         = fmt.Errorf("%w: file too large", ErrValidation)
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrValidation)
	ErrInvalidPrice         = fmt.Errorf("%w: invalid price", ErrValidation)
	ErrPricePrecision       = fmt.Errorf("%w: price must have at most 2 decimal places", ErrValidation)
	ErrInvalidQuantity      = fmt.Errorf("%w: quantity must be between 0.01 and 99999999.99", ErrValidation)
	ErrTotalTooLarge        = fmt.Errorf("%w: order total is too large", ErrValidation)
	ErrNoItems              = fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	ErrNoRecipes            = fmt.Errorf("%w: at least one recipe is required", ErrValidation)
	ErrDuplicateProduct     = fmt.Errorf("%w: duplicate product_id", ErrValidation)
	ErrDuplicateRecipe      = fmt.Errorf("%w: duplicate recipe_id", ErrValidation)
	ErrUnknownProduct       = fmt.Errorf("%w: unknown product_id", ErrValidation)
	ErrUnknownRecipe        = fmt.Errorf("%w: unknown recipe_id", ErrValidation)
	ErrInvalidStatus        = fmt.Errorf("%w: invalid order status", ErrValidation)
	ErrProductNameRequired  = fmt.Errorf("%w: product name is required", ErrValidation)
	ErrRecipeNameRequired   = fmt.Errorf("%w: recipe name is required", ErrValidation)
	ErrNameTaken            = fmt.Errorf("%w: name has already been taken", ErrValidation)
	ErrEmailTaken           = fmt.Errorf("%w: email has already been taken", ErrValidation)

	// 401
	ErrInvalidCredentials = fmt.Errorf("%w: wrong email or password", ErrUnauthenticated)
	ErrMissingToken       = fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrTokenRevoked       = fmt.Errorf("%w: token revoked", ErrUnauthenticated)

	// 403
	ErrOnlyUsersCanOrder = fmt.Errorf("%w: only users can create orders", ErrForbidden)
	ErrAdminOnly         = fmt.Errorf("%w: admin role required", ErrForbidden)
	ErrNotOrderOwner     = fmt.Errorf("%w: order belongs to another user", ErrForbidden)

	// 404
	ErrOrderNotFound      = fmt.Errorf("%w: order", ErrNotFound)
	ErrNoOrders           = fmt.Errorf("%w: no orders found", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("%w: product", ErrNotFound)
	ErrNoProducts         = fmt.Errorf("%w: no products found", ErrNotFound)
	ErrRecipeNotFound     = fmt.Errorf("%w: recipe", ErrNotFound)
	ErrNoRecipesFound     = fmt.Errorf("%w: no recipes found", ErrNotFound)
	ErrIngredientNotFound = fmt.Errorf("%w: ingredient", ErrNotFound)
	ErrNoIngredients      = fmt.Errorf("%w: no ingredients found", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrImageNotFound      = fmt.Errorf("%w: recipe has no image", ErrNotFound)

	// 409
	ErrProductInUse = fmt.Errorf("%w: product is referenced by orders", ErrConflict)

	// 422
	ErrIngredientExists        = fmt.Errorf("%w: this product already exists in the recipe", ErrUnprocessable)
	ErrEmptyCartAfterModifiers = fmt.Errorf("%w: selected recipes and modifiers resulted in an empty cart", ErrEmptyCart)

	// 500
	ErrInternalServerError = ErrInternal
)

// ValidationError описывает ошибки валидации по отдельным полям запроса.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add регистрирует ошибку для поля, первая ошибка поля сохраняется.
func (v *ValidationError) Add(field, message string) {
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = message
	}
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// OrNil возвращает nil, если ошибок нет.
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}

	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}

	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
