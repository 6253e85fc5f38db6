package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORAGE_DRIVER", "DATABASE_URL", "DB_HOST", "DB_NAME", "AUTH_PROVIDER",
		"DB_USER", "DB_PASSWORD", "DB_PORT", "DB_SSLMODE",
		"JWT_SECRET", "LOW_STOCK_THRESHOLD", "SHUTDOWN_TIMEOUT", "FIREBASE_CHECK_REVOKED",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/inventory")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoragePostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/inventory", cfg.Database.DSN)
	assert.Equal(t, AuthFirebase, cfg.Auth.Provider)
	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Auth.Firebase.CheckRevoked)
}

func TestFromEnv_MemoryWithJWT(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Database.Driver)
	assert.Equal(t, AuthJWT, cfg.Auth.Provider)
	assert.Equal(t, "s3cret", cfg.Auth.JWT.Secret)
	assert.Equal(t, 3, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
}

func TestFromEnv_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without dsn", map[string]string{}},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mongo"}},
		{"jwt without secret", map[string]string{"STORAGE_DRIVER": "memory", "AUTH_PROVIDER": "jwt"}},
		{"unknown provider", map[string]string{"STORAGE_DRIVER": "memory", "AUTH_PROVIDER": "ldap"}},
		{"bad threshold", map[string]string{"STORAGE_DRIVER": "memory", "LOW_STOCK_THRESHOLD": "many"}},
		{"negative threshold", map[string]string{"STORAGE_DRIVER": "memory", "LOW_STOCK_THRESHOLD": "-1"}},
		{"bad timeout", map[string]string{"STORAGE_DRIVER": "memory", "SHUTDOWN_TIMEOUT": "soon"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN_FromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "inventory")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")

	assert.Equal(t, "host=db user=app password=pw dbname=inventory port=5432 sslmode=disable TimeZone=UTC", databaseDSN())
}
