// Package config reads the configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultDataDir        = "data"
	DefaultDBFile         = "hearth.db"
	DefaultSyncSchedule   = "@every 6h"
	DefaultDetectSchedule = "@daily"
	DefaultSyncTimeout    = 5 * time.Minute
)

var (
	ErrCredentialsKeyMissing = errors.New("CREDENTIALS_KEY must be set")
	ErrSyncTimeoutInvalid    = errors.New("SYNC_TIMEOUT must be a positive duration")
)

// Config holds all settings except the ones for gin, logging and the HTTP
// middlewares, which are read where they are used.
type Config struct {
	DataDir        string
	DBFile         string
	CredentialsKey string // Hex encoded, 32 bytes
	SyncSchedule   string // Cron spec
	DetectSchedule string // Cron spec
	SyncTimeout    time.Duration

	GeminiAPIKey string // Classification is disabled when empty
	GeminiModel  string

	IsracardBaseURL    string
	OneZeroIdentityURL string
	OneZeroGraphQLURL  string
}

// DSN is the path of the database file.
func (c Config) DSN() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

// Load reads the environment. Variables from a .env file in the working
// directory are loaded first, without overriding the ones already set.
func Load() (Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit .env files. Missing files are ignored.
func LoadFiles(files ...string) (Config, error) {
	for _, file := range files {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	cfg := Config{
		DataDir:            get("DATA_DIR", DefaultDataDir),
		DBFile:             get("DB_FILE", DefaultDBFile),
		CredentialsKey:     get("CREDENTIALS_KEY", ""),
		SyncSchedule:       get("SYNC_SCHEDULE", DefaultSyncSchedule),
		DetectSchedule:     get("DETECT_SCHEDULE", DefaultDetectSchedule),
		SyncTimeout:        DefaultSyncTimeout,
		GeminiAPIKey:       get("GEMINI_API_KEY", ""),
		GeminiModel:        get("GEMINI_MODEL", ""),
		IsracardBaseURL:    get("ISRACARD_BASE_URL", ""),
		OneZeroIdentityURL: get("ONEZERO_IDENTITY_URL", ""),
		OneZeroGraphQLURL:  get("ONEZERO_GRAPHQL_URL", ""),
	}

	if cfg.CredentialsKey == "" {
		return cfg, ErrCredentialsKeyMissing
	}

	if timeout, ok := os.LookupEnv("SYNC_TIMEOUT"); ok {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("%w: %q", ErrSyncTimeoutInvalid, timeout)
		}
		cfg.SyncTimeout = d
	}

	return cfg, nil
}

// get returns the value of the variable, or the fallback if it is unset or
// empty.
func get(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}
