package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderFulfilled OrderStatus = "fulfilled"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid сообщает, является ли статус одним из допустимых.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderFulfilled, OrderCancelled:
		return true
	default:
		return false
	}
}

// Order описывает заказ пользователя. Позиции и сумма не меняются после создания.
type Order struct {
	ID          int64
	UserID      int64
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// OrderItem — снимок позиции заказа: продукт, количество и цена на момент покупки
type OrderItem struct {
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// Subtotal возвращает стоимость позиции без округления.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

func NewOrder(userID int64, items []OrderItem, total decimal.Decimal) *Order {
	return &Order{
		UserID:      userID,
		Status:      OrderPending,
		TotalAmount: total,
		Items:       items,
	}
}
