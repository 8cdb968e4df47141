package converter

import (
	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// RecipeConverter преобразует сущности Recipe между domain и моделью PostgreSQL.
type RecipeConverter interface {
	ToModel(entity *domain.Recipe) *RecipeModel
	ToEntity(model *RecipeModel) *domain.Recipe
}

// IngredientConverter преобразует сущности Ingredient между domain и моделью PostgreSQL.
type IngredientConverter interface {
	ToModel(entity *domain.Ingredient) *IngredientModel
	ToEntity(model *IngredientModel) *domain.Ingredient
}

// OrderConverter собирает заказ из строки orders и его позиций.
type OrderConverter interface {
	ToModel(entity *domain.Order) (*OrderModel, []OrderItemModel)
	ToEntity(model *OrderModel, items []OrderItemModel) *domain.Order
}

type UserConverter interface {
	ToModel(entity *domain.User) *UserModel
	ToEntity(model *UserModel) *domain.User
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConv struct{}

func (ProductConv) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}
	return &ProductModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (ProductConv) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

type RecipeConv struct{}

func (RecipeConv) ToModel(entity *domain.Recipe) *RecipeModel {
	if entity == nil {
		return nil
	}
	return &RecipeModel{
		ID:               entity.ID,
		Name:             entity.Name,
		Description:      entity.Description,
		ImageKey:         entity.ImageKey,
		IngredientsCount: entity.IngredientsCount,
		CreatedAt:        entity.CreatedAt,
		UpdatedAt:        entity.UpdatedAt,
	}
}

func (RecipeConv) ToEntity(model *RecipeModel) *domain.Recipe {
	if model == nil {
		return nil
	}
	return &domain.Recipe{
		ID:               model.ID,
		Name:             model.Name,
		Description:      model.Description,
		ImageKey:         model.ImageKey,
		IngredientsCount: model.IngredientsCount,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

type IngredientConv struct{}

func (IngredientConv) ToModel(entity *domain.Ingredient) *IngredientModel {
	if entity == nil {
		return nil
	}
	return &IngredientModel{
		ID:        entity.ID,
		RecipeID:  entity.RecipeID,
		ProductID: entity.ProductID,
		Quantity:  entity.Quantity,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (IngredientConv) ToEntity(model *IngredientModel) *domain.Ingredient {
	if model == nil {
		return nil
	}
	ing := &domain.Ingredient{
		ID:        model.ID,
		RecipeID:  model.RecipeID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.ProductName != nil && model.ProductPrice != nil {
		ing.Product = &domain.Product{
			ID:    model.ProductID,
			Name:  *model.ProductName,
			Price: *model.ProductPrice,
		}
	}
	return ing
}

type OrderConv struct{}

func (OrderConv) ToModel(entity *domain.Order) (*OrderModel, []OrderItemModel) {
	if entity == nil {
		return nil, nil
	}
	items := make([]OrderItemModel, 0, len(entity.Items))
	for _, it := range entity.Items {
		items = append(items, OrderItemModel{
			OrderID:     entity.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return &OrderModel{
		ID:          entity.ID,
		UserID:      entity.UserID,
		Status:      string(entity.Status),
		TotalAmount: entity.TotalAmount,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}, items
}

func (OrderConv) ToEntity(model *OrderModel, items []OrderItemModel) *domain.Order {
	if model == nil {
		return nil
	}
	order := &domain.Order{
		ID:          model.ID,
		UserID:      model.UserID,
		Status:      domain.OrderStatus(model.Status),
		TotalAmount: model.TotalAmount,
		Items:       make([]domain.OrderItem, 0, len(items)),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			OrderID:     model.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return order
}

type UserConv struct{}

func (UserConv) ToModel(entity *domain.User) *UserModel {
	if entity == nil {
		return nil
	}
	return &UserModel{
		ID:           entity.ID,
		Name:         entity.Name,
		Email:        entity.Email,
		PasswordHash: entity.PasswordHash,
		Role:         string(entity.Role),
		CreatedAt:    entity.CreatedAt,
	}
}

func (UserConv) ToEntity(model *UserModel) *domain.User {
	if model == nil {
		return nil
	}
	return &domain.User{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         domain.Role(model.Role),
		CreatedAt:    model.CreatedAt,
	}
}

type OutboxEventConv struct{}

func (OutboxEventConv) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConv) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConv) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	res := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, c.ToEntity(m))
	}
	return res
}
