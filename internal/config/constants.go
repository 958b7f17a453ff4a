package config

const (
	// DefaultDatabasePath is the default path for the library database
	DefaultDatabasePath = "./library.db"

	// EnvPrefix is prepended to every environment key, e.g. LIBRARY_DATABASE_PATH
	EnvPrefix = "LIBRARY"
)
