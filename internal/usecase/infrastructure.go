package usecase

import (
	"context"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
)

// TxManager выполняет fn в одной транзакции, транзакция передаётся через ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (string, error)
	CleanupImages(keys []string)
	PresignedURL(ctx context.Context, key string) (string, error)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует событие заказа для outbox.
type EventEncoder interface {
	EncodeOrderEvent(eventID string, eventType OutboxEventType, order *domain.Order) ([]byte, error)
}

type TokenManager interface {
	Issue(user *domain.User) (*IssuedToken, error)
	Parse(token string) (*TokenClaims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
