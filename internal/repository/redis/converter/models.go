package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRedisModel — представление продукта в кэше. Цена сериализуется строкой без потери точности.
type ProductRedisModel struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}
