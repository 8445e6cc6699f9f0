package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type StoreBackend string

const (
	StoreBackendSQLite    StoreBackend = "sqlite"    // Local GORM/SQLite file (default)
	StoreBackendSurrealDB StoreBackend = "surrealdb" // Remote SurrealDB document store
)

type (
	Config struct {
		HTTP
		Global
		Database
		SurrealDB
		Log
		Audit
		Tasks
	}

	HTTP struct {
		Port               int32  `validate:"gt=0,lt=65536"`
		Host               string
		GinMode            string   `validate:"oneof=debug release test"`
		CORSAllowedOrigins []string // Empty disables CORS headers
	}
	Global struct {
		ShutdownTimeoutInSeconds int `validate:"gte=0"`
	}
	Database struct {
		Path string `validate:"required"` // SQLite file for books (sqlite backend), audit events and tasks
		URL  string // Connection string of the document store; empty means SQLite
	}
	SurrealDB struct {
		Namespace string
		Database  string
		User      string
		Password  string
	}
	Log struct {
		Level  string `validate:"oneof=trace debug info warn error"`
		Format string `validate:"oneof=console json"`
	}
	Audit struct {
		Enabled         bool
		RetentionDays   int    `validate:"gte=1"`
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int `validate:"gte=1"`
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// StoreBackend reports which book store the connection settings select.
func (d Database) StoreBackend() StoreBackend {
	if d.URL == "" {
		return StoreBackendSQLite
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return StoreBackendSQLite
	}
	switch strings.ToLower(u.Scheme) {
	case "ws", "wss", "http", "https":
		return StoreBackendSurrealDB
	}
	return StoreBackendSQLite
}

// splitList parses comma-separated env values, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadEnvFile merges a dotenv file into the process environment.
// Variables already set in the environment win; a missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("cors_allowed_origins", "")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")

	// SurrealDB defaults, used only when DATABASE_URL points at a SurrealDB endpoint
	v.SetDefault("surrealdb_namespace", "library")
	v.SetDefault("surrealdb_database", "library")
	v.SetDefault("surrealdb_user", "root")
	v.SetDefault("surrealdb_password", "root")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port:               v.GetInt32("PORT"),
			Host:               v.GetString("HOST"),
			GinMode:            v.GetString("GIN_MODE"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
			URL:  v.GetString("DATABASE_URL"),
		},
		SurrealDB: SurrealDB{
			Namespace: v.GetString("SURREALDB_NAMESPACE"),
			Database:  v.GetString("SURREALDB_DATABASE"),
			User:      v.GetString("SURREALDB_USER"),
			Password:  v.GetString("SURREALDB_PASSWORD"),
		},
		Log: Log{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Audit: Audit{
			Enabled:         v.GetBool("AUDIT_ENABLED"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// Validate checks the loaded values so startup fails fast on bad settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.StoreBackend() == StoreBackendSurrealDB && (c.SurrealDB.Namespace == "" || c.SurrealDB.Database == "") {
		return fmt.Errorf("invalid configuration: SURREALDB_NAMESPACE and SURREALDB_DATABASE are required for %s", c.Database.URL)
	}
	return nil
}
