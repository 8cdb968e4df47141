package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
)

const minPasswordLength = 8

// AuthUseCase отвечает за регистрацию, вход и проверку токенов.
type AuthUseCase struct {
	userRepo  UserRepository
	tokenRepo TokenRepository
	tokens    TokenManager
	hasher    PasswordHasher
	logger    logger.Logger
}

func NewAuthUC(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	tokens TokenManager,
	hasher PasswordHasher,
	logger logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		hasher:    hasher,
		logger:    logger,
	}
}

// Register создаёт пользователя с ролью user и сразу выдаёт токен.
func (a *AuthUseCase) Register(ctx context.Context, req *RegisterReq) (*AuthRes, error) {
	const op = "AuthUseCase.Register"

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	verr := e.NewValidationError()
	if name == "" || len(name) > maxNameLength {
		verr.Add("name", "is required and must be at most 255 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > maxNameLength {
		verr.Add("email", "must be a valid email address")
	}
	if len(req.Password) < minPasswordLength {
		verr.Add("password", "must be at least 8 characters")
	}
	if err := verr.OrNil(); err != nil {
		return nil, e.Wrap(op, err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := a.userRepo.Create(ctx, domain.NewUser(name, email, hash))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	a.logger.Infof("user registered: user_id=%d", user.ID)

	return &AuthRes{User: user, Token: token}, nil
}

// Login проверяет пароль и выдаёт токен.
func (a *AuthUseCase) Login(ctx context.Context, req *LoginReq) (*AuthRes, error) {
	const op = "AuthUseCase.Login"

	user, err := a.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if err := a.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &AuthRes{User: user, Token: token}, nil
}

// Logout отзывает текущий токен до истечения его срока.
func (a *AuthUseCase) Logout(ctx context.Context, caller domain.Caller) error {
	const op = "AuthUseCase.Logout"

	ttl := time.Until(caller.TokenExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := a.tokenRepo.Revoke(ctx, caller.TokenID, ttl); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (a *AuthUseCase) Me(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	const op = "AuthUseCase.Me"

	user, err := a.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

// Authenticate разбирает токен и проверяет, что он не отозван.
// Любой некорректный токен трактуется как отсутствие аутентификации.
func (a *AuthUseCase) Authenticate(ctx context.Context, token string) (*TokenClaims, error) {
	const op = "AuthUseCase.Authenticate"

	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, e.Wrap(op, e.ErrInvalidToken)
	}

	revoked, err := a.tokenRepo.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if revoked {
		return nil, e.Wrap(op, e.ErrTokenRevoked)
	}

	return claims, nil
}

// EnsureAdmin создаёт администратора при первом запуске или повышает роль существующего пользователя.
func (a *AuthUseCase) EnsureAdmin(ctx context.Context, name, email, password string) error {
	const op = "AuthUseCase.EnsureAdmin"

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role == domain.RoleAdmin {
			return nil
		}
		if err := a.userRepo.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return e.Wrap(op, err)
		}
	case errors.Is(err, e.ErrNotFound):
		hash, err := a.hasher.Hash(password)
		if err != nil {
			return e.Wrap(op, err)
		}

		user, err = a.userRepo.Create(ctx, domain.NewUser(name, email, hash))
		if err != nil {
			return e.Wrap(op, err)
		}

		if err := a.userRepo.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return e.Wrap(op, err)
		}
	default:
		return e.Wrap(op, err)
	}

	a.logger.Infof("admin account ensured: user_id=%d", user.ID)
	return nil
}
