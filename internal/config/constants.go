package config

const (
	// DefaultDatabasePath is the default path for the local SQLite database
	DefaultDatabasePath = "./library.db"

	// DefaultEnvFile is loaded into the process environment before config is read, if present
	DefaultEnvFile = ".env"
)
