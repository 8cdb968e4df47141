package kafka

import (
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoEventEncoder кодирует события заказа в google.protobuf.Struct.
// Денежные значения и количества передаются строками, чтобы не терять точность.
type ProtoEventEncoder struct {
	now func() time.Time
}

func NewProtoEventEncoder() *ProtoEventEncoder {
	return &ProtoEventEncoder{now: time.Now}
}

func (p *ProtoEventEncoder) EncodeOrderEvent(eventID string, eventType usecase.OutboxEventType, order *domain.Order) ([]byte, error) {
	items := make([]any, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]any{
			"product_id":   item.ProductID,
			"product_name": item.ProductName,
			"quantity":     item.Quantity.String(),
			"price":        item.Price.String(),
		})
	}

	payload, err := structpb.NewStruct(map[string]any{
		"event_id":    eventID,
		"event_type":  string(eventType),
		"occurred_at": p.now().UTC().Format(time.RFC3339Nano),
		"order": map[string]any{
			"id":           order.ID,
			"user_id":      order.UserID,
			"status":       string(order.Status),
			"total_amount": order.TotalAmount.StringFixed(2),
			"created_at":   order.CreatedAt.UTC().Format(time.RFC3339Nano),
			"items":        items,
		},
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := proto.Marshal(payload)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}
