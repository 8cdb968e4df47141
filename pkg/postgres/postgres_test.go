package postgres

import (
	"testing"

	"github.com/DRSN-tech/recipe-cart/internal/cfg"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&cfg.PGDBCfg{
		Host:     "db",
		Port:     "5432",
		User:     "cart",
		Password: "p@ss:word/1",
		DBName:   "recipes",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://cart:p%40ss%3Aword%2F1@db:5432/recipes?sslmode=disable", dsn)

	parsed, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "p@ss:word/1", parsed.ConnConfig.Password)
	assert.Equal(t, "recipes", parsed.ConnConfig.Database)
	assert.Equal(t, uint16(5432), parsed.ConnConfig.Port)
}
