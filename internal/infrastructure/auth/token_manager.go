// Package auth содержит выпуск и проверку bearer-токенов и хеширование паролей.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/cfg"
	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager выпускает HS256-токены. jti используется как ключ отзыва.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(cfg *cfg.AuthCfg) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

func (j *JWTManager) Issue(user *domain.User) (*usecase.IssuedToken, error) {
	const op = "JWTManager.Issue"

	now := j.now()
	expiresAt := now.Add(j.ttl)
	tokenID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &usecase.IssuedToken{
		Token:     signed,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse проверяет подпись, издателя и срок действия. Любая ошибка означает невалидный токен.
func (j *JWTManager) Parse(token string) (*usecase.TokenClaims, error) {
	const op = "JWTManager.Parse"

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("invalid subject %q: %w", c.Subject, err))
	}

	role := domain.Role(c.Role)
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, e.Wrap(op, fmt.Errorf("unknown role %q", c.Role))
	}

	if c.ID == "" {
		return nil, e.Wrap(op, errors.New("missing token id"))
	}

	return &usecase.TokenClaims{
		UserID:    userID,
		Role:      role,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
