package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, VerbosityProduction, cfg.ErrorVerbosity)
	assert.Equal(t, "*", cfg.CORSAllowOrigin)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.False(t, cfg.DebugErrors())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ERROR_VERBOSITY", "debug")
	t.Setenv("API_TIMEOUT", "2s")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.True(t, cfg.DebugErrors())
	assert.Equal(t, 2*time.Second, cfg.APITimeout)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "POSTGRES_HOST=db.internal\nPOSTGRES_USERNAME=items\nPOSTGRES_DATABASE=records\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.PostgresHost)
	assert.Equal(t, "items", cfg.PostgresUsername)
	assert.Equal(t, "records", cfg.PostgresDatabase)
}

func TestLoad_MalformedEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=3000\nthis line has no separator\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := Load(missingEnvFile(t))
	assert.Error(t, err)
}

func TestAppConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  AppConfig
		wantErr bool
	}{
		{
			name:   "postgres with database",
			config: AppConfig{StoreDriver: StoreDriverPostgres, PostgresDatabase: "items", ErrorVerbosity: VerbosityProduction},
		},
		{
			name:    "postgres without database",
			config:  AppConfig{StoreDriver: StoreDriverPostgres, ErrorVerbosity: VerbosityProduction},
			wantErr: true,
		},
		{
			name:   "memory driver",
			config: AppConfig{StoreDriver: StoreDriverMemory, ErrorVerbosity: VerbosityDebug},
		},
		{
			name:    "unknown verbosity",
			config:  AppConfig{StoreDriver: StoreDriverMemory, ErrorVerbosity: "loud"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			config:  AppConfig{StoreDriver: StoreDriverMemory, ErrorVerbosity: VerbosityProduction, APITimeout: -time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppConfig_PostgresDSN(t *testing.T) {
	cfg := AppConfig{
		PostgresHost:     "localhost",
		PostgresPort:     "5432",
		PostgresUsername: "items",
		PostgresPassword: "secret",
		PostgresDatabase: "itemstore",
		PostgresSSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost port=5432 user=items password=secret dbname=itemstore sslmode=disable", cfg.PostgresDSN())
}
