package domain

import "time"

// Caller — аутентифицированный инициатор запроса.
// Передаётся в каждый метод usecase явно, без глобального контекста авторизации.
type Caller struct {
	UserID         int64
	Role           Role
	TokenID        string
	TokenExpiresAt time.Time
}

func NewCaller(userID int64, role Role, tokenID string, tokenExpiresAt time.Time) Caller {
	return Caller{
		UserID:         userID,
		Role:           role,
		TokenID:        tokenID,
		TokenExpiresAt: tokenExpiresAt,
	}
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) IsUser() bool {
	return c.Role == RoleUser
}
