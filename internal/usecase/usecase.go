package usecase

import (
	"context"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
)

type OrderUC interface {
	CreateOrder(ctx context.Context, caller domain.Caller, req *CreateOrderReq) (*domain.Order, error)
	CreateOrderFromRecipes(ctx context.Context, caller domain.Caller, req *CreateOrderFromRecipesReq) (*domain.Order, error)
	GetOrder(ctx context.Context, caller domain.Caller, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, caller domain.Caller, userID int64) (*UserOrdersRes, error)
	UpdateOrderStatus(ctx context.Context, caller domain.Caller, req *UpdateOrderStatusReq) (*domain.Order, error)
}

type ProductUC interface {
	CreateProduct(ctx context.Context, caller domain.Caller, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, caller domain.Caller, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, caller domain.Caller, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
	ListProducts(ctx context.Context, search string) ([]domain.Product, error)
}

type RecipeUC interface {
	CreateRecipe(ctx context.Context, caller domain.Caller, req *CreateRecipeReq) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, caller domain.Caller, req *UpdateRecipeReq) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, caller domain.Caller, id int64) error
	GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, req *ListRecipesReq) (*ListRecipesRes, error)
	UploadRecipeImage(ctx context.Context, caller domain.Caller, req *UploadRecipeImageReq) (*domain.Recipe, error)
	RecipeImageURL(ctx context.Context, id int64) (string, error)
}

type IngredientUC interface {
	ListForRecipe(ctx context.Context, recipeID int64) ([]domain.Ingredient, error)
	AddToRecipe(ctx context.Context, caller domain.Caller, req *AddIngredientReq) (*domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, caller domain.Caller, req *UpdateIngredientReq) (*domain.Ingredient, error)
	DeleteIngredient(ctx context.Context, caller domain.Caller, id int64) error
}

type AuthUC interface {
	Register(ctx context.Context, req *RegisterReq) (*AuthRes, error)
	Login(ctx context.Context, req *LoginReq) (*AuthRes, error)
	Logout(ctx context.Context, caller domain.Caller) error
	Me(ctx context.Context, caller domain.Caller) (*domain.User, error)
	Authenticate(ctx context.Context, token string) (*TokenClaims, error)
}
