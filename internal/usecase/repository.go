package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetByIDs возвращает найденные продукты, отсутствующие ID в результат не попадают.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	List(ctx context.Context, search string) ([]domain.Product, error)
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	Update(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	List(ctx context.Context, filter *RecipeFilter) ([]domain.Recipe, int, error)
	// ExistingIDs возвращает подмножество ids, для которых рецепт существует.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	SetImageKey(ctx context.Context, id int64, key *string) error
}

type IngredientRepository interface {
	Add(ctx context.Context, ingredient *domain.Ingredient) (*domain.Ingredient, error)
	Update(ctx context.Context, ingredient *domain.Ingredient) (*domain.Ingredient, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
	ListByRecipe(ctx context.Context, recipeID int64) ([]domain.Ingredient, error)
	// ListByRecipes загружает ингредиенты сразу для нескольких рецептов.
	ListByRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]domain.Ingredient, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// List возвращает заказы от новых к старым; при userID == nil возвращаются заказы всех пользователей.
	List(ctx context.Context, userID *int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetRole(ctx context.Context, id int64, role domain.Role) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsPending(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
