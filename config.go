package promptlane

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/promptlane/promptlane-go/metrics"
)

// Environment variables consulted when the corresponding Config field
// is left blank.
const (
	EnvAPIURL      = "PROMPTLANE_API_URL"
	EnvAPIKey      = "PROMPTLANE_API_KEY"
	EnvAPIVersion  = "PROMPTLANE_API_VERSION"
	EnvDatabaseURL = "PROMPTLANE_DB_CONNECTION"
	EnvTimeout     = "PROMPTLANE_TIMEOUT"
	EnvMaxRetries  = "PROMPTLANE_MAX_RETRIES"
)

var loadEnvOnce sync.Once

func loadEnv() {
	loadEnvOnce.Do(func() {
		// Missing .env files are fine; real environments set vars
		// directly.
		_ = godotenv.Load()
	})
}

// Config selects the connection mode and carries the configuration the
// chosen backends need. Blank fields fall back to environment
// variables.
type Config struct {
	// Mode selects the connection mode. Defaults to ModeAPI.
	Mode Mode

	// BaseURL and APIKey configure the HTTP backend (api and mixed
	// modes).
	BaseURL string
	APIKey  string

	// APIVersion overrides the API version segment. Defaults to "v1".
	APIVersion string

	// DatabaseURL configures the database backend (database and mixed
	// modes).
	DatabaseURL string

	// Timeout is the per-request timeout of the HTTP backend.
	Timeout time.Duration

	// MaxRetries bounds HTTP retry attempts.
	MaxRetries int

	// Logger receives dispatch and backend debug logs. Defaults to a
	// no-op logger.
	Logger *zap.Logger

	// Metrics, when set, records request and query metrics.
	Metrics *metrics.Collector
}

// ConfigFromEnv builds a Config entirely from the environment, loading
// a .env file when one is present.
func ConfigFromEnv() Config {
	loadEnv()

	cfg := Config{
		BaseURL:     os.Getenv(EnvAPIURL),
		APIKey:      os.Getenv(EnvAPIKey),
		APIVersion:  os.Getenv(EnvAPIVersion),
		DatabaseURL: os.Getenv(EnvDatabaseURL),
	}
	if raw := os.Getenv(EnvTimeout); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	if raw := os.Getenv(EnvMaxRetries); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.MaxRetries = n
		}
	}
	return cfg
}

// withEnvDefaults fills blank fields from the environment.
func (c Config) withEnvDefaults() Config {
	loadEnv()

	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvAPIURL)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	if c.APIVersion == "" {
		c.APIVersion = os.Getenv(EnvAPIVersion)
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
	return c
}
