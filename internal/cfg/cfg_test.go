package cfg

import (
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("POSTGRES_USER", "cart")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "recipes")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_TOPIC", "orders")
	t.Setenv("JWT_SECRET", strings.Repeat("k", 32))
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Db.Host)
	assert.Equal(t, "disable", cfg.Db.SSLMode)
	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, "8091", cfg.Grpc.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Kafka.Partitions)
	assert.Equal(t, "recipe-cart", cfg.Auth.Issuer)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, int64(15<<20), cfg.Minio.MaxImageSize)
	assert.Equal(t, 100, cfg.Outbox.BatchSize)
	assert.Equal(t, 3*time.Minute, cfg.Redis.ProductTTL)
	assert.Empty(t, cfg.Admin.Email)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("OUTBOX_POLL_INTERVAL", "5s")
	t.Setenv("READ_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "7s")
	t.Setenv("ADMIN_EMAIL", "root@example.com")

	cfg, err := Load(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Http.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Outbox.PollInterval)
	assert.Equal(t, 7*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, "root@example.com", cfg.Admin.Email)
	assert.Equal(t, "Administrator", cfg.Admin.Name)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing postgres user", "POSTGRES_USER", ""},
		{"missing kafka brokers", "KAFKA_BROKERS", ""},
		{"missing jwt secret", "JWT_SECRET", ""},
		{"short jwt secret", "JWT_SECRET", "short"},
		{"bad duration", "TOKEN_TTL", "tomorrow"},
		{"bad int", "MAX_IMAGE_SIZE", "big"},
		{"non-positive batch", "OUTBOX_BATCH_SIZE", "0"},
		{"bad bool", "MINIO_USE_SSL", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(logger.NewNopLogger())
			assert.Error(t, err)
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("SOME_INT", "x")

	_, err := parseIntEnv("SOME_INT", 1)
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)

	v, err := parseIntEnv("UNSET_INT_FOR_TEST", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
