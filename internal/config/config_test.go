package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
dbname = "reservations"
user = "app"

[store]
tenant_id = "salon-1"
timezone = "Asia/Tokyo"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Database.TxMaxRetries)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "host=db port=5432 user=app password=s3cret dbname=reservations sslmode=disable", cfg.Database.DSN())

	loc, err := cfg.Store.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing secret", `[database]
driver = "memory"`, "auth.jwt_secret"},
		{"unknown driver", `[auth]
jwt_secret = "x"
[database]
driver = "sqlite"`, "database.driver"},
		{"bad timezone", `[auth]
jwt_secret = "x"
[database]
driver = "memory"
[store]
timezone = "Mars/Olympus"`, "store.timezone"},
		{"rabbitmq without url", `[auth]
jwt_secret = "x"
[database]
driver = "memory"
[rabbitmq]
enabled = true`, "rabbitmq.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
