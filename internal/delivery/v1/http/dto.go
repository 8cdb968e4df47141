package http

import (
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/shopspring/decimal"
)

// REQUESTS

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

type RecipeRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

type UpdateRecipeRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

type AddIngredientRequest struct {
	ProductID int64            `json:"product_id" validate:"required,gt=0"`
	Quantity  *decimal.Decimal `json:"quantity" validate:"required"`
}

type UpdateIngredientRequest struct {
	ProductID *int64           `json:"product_id" validate:"omitempty,gt=0"`
	Quantity  *decimal.Decimal `json:"quantity"`
}

type OrderItemRequest struct {
	ProductID int64            `json:"product_id" validate:"required,gt=0"`
	Quantity  *decimal.Decimal `json:"quantity" validate:"required"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateOrderFromRecipesRequest struct {
	RecipeIDs         []int64 `json:"recipe_ids" validate:"required,min=1,dive,gt=0"`
	IncludeProductIDs []int64 `json:"include_product_ids" validate:"omitempty,dive,gt=0"`
	ExcludeProductIDs []int64 `json:"exclude_product_ids" validate:"omitempty,dive,gt=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid fulfilled cancelled"`
}

// RESPONSES

type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type ProductResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Price       string     `json:"price" example:"12.50"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type RecipeResponse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Description      *string    `json:"description"`
	HasImage         bool       `json:"has_image"`
	IngredientsCount int        `json:"ingredients_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

type PageMetaResponse struct {
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

type IngredientResponse struct {
	ID        int64            `json:"id"`
	RecipeID  int64            `json:"recipe_id"`
	ProductID int64            `json:"product_id"`
	Quantity  string           `json:"quantity" example:"0.5"`
	Product   *ProductResponse `json:"product,omitempty"`
}

type OrderItemResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity" example:"1.5"`
	Price       string `json:"price" example:"3.20"`
	Subtotal    string `json:"subtotal" example:"4.80"`
}

type OrderResponse struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	Status      string              `json:"status"`
	TotalAmount string              `json:"total_amount" example:"4.80"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at"`
}

type UserOrdersResponse struct {
	User   UserResponse    `json:"user"`
	Orders []OrderResponse `json:"orders"`
}

// MAPPERS

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toTokenResponse(res *usecase.AuthRes) TokenResponse {
	return TokenResponse{
		User:      toUserResponse(res.User),
		Token:     res.Token.Token,
		TokenType: "Bearer",
		ExpiresAt: res.Token.ExpiresAt,
	}
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res
}

func toRecipeResponse(r *domain.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		HasImage:         r.ImageKey != nil,
		IngredientsCount: r.IngredientsCount,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toRecipeResponses(recipes []domain.Recipe) []RecipeResponse {
	res := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		res = append(res, toRecipeResponse(&recipes[i]))
	}
	return res
}

func toPageMetaResponse(m usecase.PageMeta) PageMetaResponse {
	return PageMetaResponse{
		Page:     m.Page,
		PerPage:  m.PerPage,
		Total:    m.Total,
		LastPage: m.LastPage,
	}
}

func toIngredientResponse(i *domain.Ingredient) IngredientResponse {
	res := IngredientResponse{
		ID:        i.ID,
		RecipeID:  i.RecipeID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity.String(),
	}
	if i.Product != nil {
		p := toProductResponse(i.Product)
		res.Product = &p
	}
	return res
}

func toIngredientResponses(ings []domain.Ingredient) []IngredientResponse {
	res := make([]IngredientResponse, 0, len(ings))
	for i := range ings {
		res = append(res, toIngredientResponse(&ings[i]))
	}
	return res
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity.String(),
			Price:       money(it.Price),
			Subtotal:    money(it.Subtotal()),
		})
	}

	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: money(o.TotalAmount),
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []OrderResponse {
	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}
	return res
}

func (r *CreateOrderRequest) toUseCase() *usecase.CreateOrderReq {
	lines := make([]usecase.OrderLine, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, usecase.OrderLine{ProductID: it.ProductID, Quantity: *it.Quantity})
	}
	return usecase.NewCreateOrderReq(lines)
}
