package kafka

import (
	"testing"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestProtoEventEncoder_EncodeOrderEvent(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	enc := &ProtoEventEncoder{now: func() time.Time { return fixed }}

	order := &domain.Order{
		ID:          7,
		UserID:      3,
		Status:      domain.OrderPending,
		TotalAmount: decimal.RequireFromString("4.5"),
		CreatedAt:   fixed,
		Items: []domain.OrderItem{
			{ProductID: 10, ProductName: "Мука", Quantity: decimal.RequireFromString("1.5"), Price: decimal.RequireFromString("3")},
		},
	}

	data, err := enc.EncodeOrderEvent("evt-1", usecase.OrderCreated, order)
	require.NoError(t, err)

	var decoded structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &decoded))

	m := decoded.AsMap()
	assert.Equal(t, "evt-1", m["event_id"])
	assert.Equal(t, "order.created", m["event_type"])
	assert.Equal(t, "2026-03-01T12:00:00Z", m["occurred_at"])

	o, ok := m["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), o["id"])
	assert.Equal(t, float64(3), o["user_id"])
	assert.Equal(t, "pending", o["status"])
	assert.Equal(t, "4.50", o["total_amount"])

	items, ok := o["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	item := items[0].(map[string]any)
	assert.Equal(t, float64(10), item["product_id"])
	assert.Equal(t, "Мука", item["product_name"])
	assert.Equal(t, "1.5", item["quantity"])
	assert.Equal(t, "3", item["price"])
}

func TestProtoEventEncoder_EmptyItems(t *testing.T) {
	enc := NewProtoEventEncoder()

	data, err := enc.EncodeOrderEvent("evt-2", usecase.OrderStatusUpdated, &domain.Order{ID: 1, Status: domain.OrderPaid})
	require.NoError(t, err)

	var decoded structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &decoded))

	o := decoded.AsMap()["order"].(map[string]any)
	assert.Equal(t, "paid", o["status"])
	assert.Equal(t, "0.00", o["total_amount"])
	assert.Empty(t, o["items"])
}
