package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/recipe-cart/pkg/clients"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// TokenRepo хранит идентификаторы отозванных токенов до истечения их срока.
type TokenRepo struct {
	client *clients.RedisClient
}

func NewTokenRepo(client *clients.RedisClient) *TokenRepo {
	return &TokenRepo{client: client}
}

func (t *TokenRepo) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := t.client.Client.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (t *TokenRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := t.client.Client.Get(ctx, revokedKey(tokenID)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, r.Nil):
		return false, nil
	default:
		return false, e.Wrap(whereami.WhereAmI(), err)
	}
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("revoked_token:%s", tokenID)
}
