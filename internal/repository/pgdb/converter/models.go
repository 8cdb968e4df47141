package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Price       decimal.Decimal `db:"price"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   *time.Time      `db:"updated_at"`
}

// RecipeModel представляет запись таблицы recipes вместе с числом ингредиентов.
type RecipeModel struct {
	ID               int64      `db:"id"`
	Name             string     `db:"name"`
	Description      *string    `db:"description"`
	ImageKey         *string    `db:"image_key"`
	IngredientsCount int        `db:"ingredients_count"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

// IngredientModel представляет запись таблицы ingredients, поля product_* заполняются через JOIN.
type IngredientModel struct {
	ID           int64            `db:"id"`
	RecipeID     int64            `db:"recipe_id"`
	ProductID    int64            `db:"product_id"`
	Quantity     decimal.Decimal  `db:"quantity"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    *time.Time       `db:"updated_at"`
	ProductName  *string          `db:"product_name"`
	ProductPrice *decimal.Decimal `db:"product_price"`
}

type OrderModel struct {
	ID          int64           `db:"id"`
	UserID      int64           `db:"user_id"`
	Status      string          `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   *time.Time      `db:"updated_at"`
}

type OrderItemModel struct {
	OrderID     int64           `db:"order_id"`
	ProductID   int64           `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    decimal.Decimal `db:"quantity"`
	Price       decimal.Decimal `db:"price"`
}

type UserModel struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID int64      `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
