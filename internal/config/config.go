package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds process-level configuration resolved from the environment.
// LLM provider configuration lives in the llm package; this covers the rest.
type Config struct {
	// LogMode selects the logger encoder: "dev" (default) or "prod".
	LogMode string

	// DBDriver selects the persistence backend: "sqlite" (default) or "postgres".
	DBDriver string

	// DBDSN is the connection string. For sqlite this is a file path; empty
	// means the default data-dir path. For postgres it is a full DSN,
	// assembled from the ITQAN_POSTGRES_* variables when unset.
	DBDSN string
}

// Load resolves the configuration from environment variables.
func Load() Config {
	cfg := Config{
		LogMode:  GetEnv("ITQAN_LOG_MODE", "dev"),
		DBDriver: GetEnv("ITQAN_DB_DRIVER", "sqlite"),
		DBDSN:    os.Getenv("ITQAN_DB_DSN"),
	}

	if cfg.DBDSN == "" && cfg.DBDriver == "postgres" {
		host := GetEnv("ITQAN_POSTGRES_HOST", "localhost")
		port := GetEnv("ITQAN_POSTGRES_PORT", "5432")
		user := GetEnv("ITQAN_POSTGRES_USER", "postgres")
		pass := os.Getenv("ITQAN_POSTGRES_PASSWORD")
		name := GetEnv("ITQAN_POSTGRES_NAME", "itqan")
		cfg.DBDSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			user, pass, host, port, name)
	}

	return cfg
}

// GetEnv returns the value of key, or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DefaultSQLitePath resolves the sqlite database file path in priority order:
// ITQAN_DB_DSN, $XDG_DATA_HOME/itqan/itqan.db, ~/.local/share/itqan/itqan.db.
func DefaultSQLitePath() (string, error) {
	if p := os.Getenv("ITQAN_DB_DSN"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "itqan", "itqan.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
