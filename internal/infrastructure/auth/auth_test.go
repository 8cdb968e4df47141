package auth

import (
	"testing"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/cfg"
	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(now time.Time) *JWTManager {
	m := NewJWTManager(&cfg.AuthCfg{JWTSecret: testSecret, Issuer: "recipe-cart", TokenTTL: time.Hour})
	m.now = func() time.Time { return now }
	return m
}

func TestJWTManager_IssueAndParse(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := newManager(now)

	issued, err := m.Issue(&domain.User{ID: 42, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)
	assert.Equal(t, now.Add(time.Hour), issued.ExpiresAt)

	claims, err := m.Parse(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.True(t, claims.ExpiresAt.Equal(issued.ExpiresAt))
}

func TestJWTManager_UniqueTokenIDs(t *testing.T) {
	m := newManager(time.Now())
	user := &domain.User{ID: 1, Role: domain.RoleUser}

	a, err := m.Issue(user)
	require.NoError(t, err)
	b, err := m.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, a.TokenID, b.TokenID)
}

func TestJWTManager_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issued, err := newManager(issuedAt).Issue(&domain.User{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = newManager(time.Now()).Parse(issued.Token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_Rejects(t *testing.T) {
	now := time.Now()
	m := newManager(now)

	other := NewJWTManager(&cfg.AuthCfg{JWTSecret: "another-secret-another-secret-xx", Issuer: "recipe-cart", TokenTTL: time.Hour})
	foreign, err := other.Issue(&domain.User{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)

	wrongIssuer := NewJWTManager(&cfg.AuthCfg{JWTSecret: testSecret, Issuer: "someone-else", TokenTTL: time.Hour})
	alien, err := wrongIssuer.Issue(&domain.User{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)

	badRole, err := m.Issue(&domain.User{ID: 1, Role: domain.Role("root")})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "role": "admin", "iss": "recipe-cart"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": foreign.Token,
		"wrong issuer": alien.Token,
		"bad role":     badRole.Token,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			assert.Error(t, err)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, h.Compare(hash, "s3cret-pass"))
	assert.Error(t, h.Compare(hash, "wrong"))
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
