package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает продукт каталога
type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       decimal.Decimal // Цена с точностью до 2 знаков
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(name string, description *string, price decimal.Decimal) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
	}
}
