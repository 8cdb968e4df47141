package usecase

import (
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// ORDER USECASE

// OrderLine — позиция корзины в прямом режиме: продукт и количество.
type OrderLine struct {
	ProductID int64
	Quantity  decimal.Decimal
}

// CreateOrderReq — запрос на создание заказа из явного списка позиций.
type CreateOrderReq struct {
	Items []OrderLine
}

// CreateOrderFromRecipesReq — запрос на создание заказа из рецептов
// с ручным добавлением и исключением продуктов.
type CreateOrderFromRecipesReq struct {
	RecipeIDs         []int64
	IncludeProductIDs []int64
	ExcludeProductIDs []int64
}

type UpdateOrderStatusReq struct {
	OrderID int64
	Status  domain.OrderStatus
}

// UserOrdersRes — заказы конкретного пользователя (для администратора).
type UserOrdersRes struct {
	User   *domain.User
	Orders []domain.Order
}

// PRODUCT USECASE

type CreateProductReq struct {
	Name        string
	Description *string
	Price       decimal.Decimal
}

// UpdateProductReq — частичное обновление, nil-поля не меняются.
type UpdateProductReq struct {
	ID          int64
	Name        *string
	Description *string
	Price       *decimal.Decimal
}

// GetProductsReq запрос информации о продуктах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes — ответ с данными запрошенных продуктов.
type GetProductsRes struct {
	Products         []domain.Product
	NotFoundProducts []int64
}

// RECIPE USECASE

type RecipeSort string

const (
	SortNameAsc              RecipeSort = "name"
	SortNameDesc             RecipeSort = "-name"
	SortCreatedAtAsc         RecipeSort = "created_at"
	SortCreatedAtDesc        RecipeSort = "-created_at"
	SortUpdatedAtAsc         RecipeSort = "updated_at"
	SortUpdatedAtDesc        RecipeSort = "-updated_at"
	SortIngredientsCountAsc  RecipeSort = "ingredients_count"
	SortIngredientsCountDesc RecipeSort = "-ingredients_count"
)

func (s RecipeSort) Valid() bool {
	switch s {
	case SortNameAsc, SortNameDesc, SortCreatedAtAsc, SortCreatedAtDesc,
		SortUpdatedAtAsc, SortUpdatedAtDesc, SortIngredientsCountAsc, SortIngredientsCountDesc:
		return true
	default:
		return false
	}
}

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

type CreateRecipeReq struct {
	Name        string
	Description *string
}

type UpdateRecipeReq struct {
	ID          int64
	Name        *string
	Description *string
}

// ListRecipesReq — параметры поиска рецептов.
// Фильтры по ингредиентам задаются ID продуктов.
type ListRecipesReq struct {
	Search             string
	IngredientsAny     []int64
	IngredientsAll     []int64
	IngredientsExclude []int64
	Sort               RecipeSort
	Page               int
	PerPage            int
}

// RecipeFilter — нормализованный фильтр, передаваемый в репозиторий.
type RecipeFilter struct {
	Search             string
	IngredientsAny     []int64
	IngredientsAll     []int64
	IngredientsExclude []int64
	Sort               RecipeSort
	Limit              int
	Offset             int
}

type PageMeta struct {
	Page     int
	PerPage  int
	Total    int
	LastPage int
}

type ListRecipesRes struct {
	Recipes []domain.Recipe
	Meta    PageMeta
}

// RecipeImage представляет изображение, загруженное через multipart/form-data.
type RecipeImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

type UploadRecipeImageReq struct {
	RecipeID int64
	Image    RecipeImage
}

// INGREDIENT USECASE

type AddIngredientReq struct {
	RecipeID  int64
	ProductID int64
	Quantity  decimal.Decimal
}

type UpdateIngredientReq struct {
	ID        int64
	ProductID *int64
	Quantity  *decimal.Decimal
}

// AUTH USECASE

type RegisterReq struct {
	Name     string
	Email    string
	Password string
}

type LoginReq struct {
	Email    string
	Password string
}

type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type TokenClaims struct {
	UserID    int64
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

type AuthRes struct {
	User  *domain.User
	Token *IssuedToken
}

// INFRASTUCTURE

// UploadImageReq — запрос на загрузку изображения в объектное хранилище.
type UploadImageReq struct {
	Prefix string
	Image  RecipeImage
}

type WriteRawMessageReq struct {
	Key     int64
	Payload []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	OrderCreated       OutboxEventType = "order.created"
	OrderStatusUpdated OutboxEventType = "order.status_updated"
)

// OutboxEvent — событие, записанное в той же транзакции, что и изменение заказа.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// MAPPERS

func NewCreateOrderReq(items []OrderLine) *CreateOrderReq {
	return &CreateOrderReq{Items: items}
}

func NewCreateOrderFromRecipesReq(recipeIDs, include, exclude []int64) *CreateOrderFromRecipesReq {
	return &CreateOrderFromRecipesReq{
		RecipeIDs:         recipeIDs,
		IncludeProductIDs: include,
		ExcludeProductIDs: exclude,
	}
}

func NewUpdateOrderStatusReq(orderID int64, status domain.OrderStatus) *UpdateOrderStatusReq {
	return &UpdateOrderStatusReq{OrderID: orderID, Status: status}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewGetProductsRes(pr []domain.Product, notFoundProducts []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewUploadImageReq(prefix string, image RecipeImage) *UploadImageReq {
	return &UploadImageReq{
		Prefix: prefix,
		Image:  image,
	}
}

func NewRecipeImage(data []byte, mimeType string, size int64, name string) *RecipeImage {
	return &RecipeImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewWriteRawMessageReq(key int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, aggregateID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}
}
