package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "release", cfg.HTTP.GinMode)
	assert.Empty(t, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "library", cfg.SurrealDB.Namespace)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
	assert.Equal(t, "0 3 * * *", cfg.Audit.CleanupSchedule)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, StoreBackendSQLite, cfg.StoreBackend())
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "ws://localhost:8000/rpc")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("TASK_RELEASE_AFTER", "30s")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, StoreBackendSurrealDB, cfg.StoreBackend())
	assert.NoError(t, cfg.Validate())
}

func TestDatabase_StoreBackend(t *testing.T) {
	tests := []struct {
		url  string
		want StoreBackend
	}{
		{"", StoreBackendSQLite},
		{"ws://localhost:8000/rpc", StoreBackendSurrealDB},
		{"wss://db.example.com/rpc", StoreBackendSurrealDB},
		{"https://db.example.com", StoreBackendSurrealDB},
		{"HTTP://db.example.com", StoreBackendSurrealDB},
		{"file:./library.db", StoreBackendSQLite},
		{"./library.db", StoreBackendSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Database{URL: tt.url}.StoreBackend())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("rejects unknown log level", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Log.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out of range port", func(t *testing.T) {
		cfg := NewConfig()
		cfg.HTTP.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("requires surrealdb namespace for surrealdb backend", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Database.URL = "ws://localhost:8000/rpc"
		cfg.SurrealDB.Namespace = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	})

	t.Run("loads variables without overriding existing ones", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("LIBRARY_TEST_NEW=from-file\nLIBRARY_TEST_SET=from-file\n"), 0644))

		t.Setenv("LIBRARY_TEST_SET", "from-env")
		t.Setenv("LIBRARY_TEST_NEW", "")
		require.NoError(t, os.Unsetenv("LIBRARY_TEST_NEW"))

		require.NoError(t, LoadEnvFile(path))
		t.Cleanup(func() { os.Unsetenv("LIBRARY_TEST_NEW") })

		assert.Equal(t, "from-file", os.Getenv("LIBRARY_TEST_NEW"))
		assert.Equal(t, "from-env", os.Getenv("LIBRARY_TEST_SET"))
	})
}
