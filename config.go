package sindri

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production API host used when Config.BaseURL is
// left empty.
const DefaultBaseURL = "https://sindri.app"

const (
	defaultTimeoutSeconds = 30

	defaultPollInterval = time.Second

	// Bounds a poll loop to roughly two days at the default interval.
	defaultMaxPollIterations = 172800
)

// Config holds the client configuration. A Config is validated once in
// NewClient and never mutated afterwards.
//
// Environment Variables (see ConfigFromEnv):
// - SINDRI_API_KEY: API key for the proving service (required)
// - SINDRI_BASE_URL: API host (default: https://sindri.app)
// - SINDRI_VERBOSE_LEVEL: Log verbosity 0, 1 or 2 (default: 0)
// - SINDRI_TIMEOUT: Per-request timeout in seconds (default: 30)
type Config struct {
	// APIKey authenticates every request. Must be non-empty.
	APIKey string `json:"api_key"`

	// BaseURL is the scheme and host of the API. A path of "", "/api" or
	// "/api/v1" (with any trailing slashes) is accepted; the client always
	// normalizes to a single canonical URL ending in "api/v1/".
	BaseURL string `json:"base_url"`

	// VerboseLevel controls console logging only. 0 is silent, 1 logs job
	// summaries, 2 logs full detail objects. Requests are unaffected.
	VerboseLevel int `json:"verbose_level"`

	// Timeout is the per-request timeout in seconds. Zero means the
	// default of 30 seconds.
	Timeout int `json:"timeout"`

	// PollInterval is the fixed delay between status fetches while
	// waiting for a job. Zero means the default of one second.
	PollInterval time.Duration `json:"poll_interval"`

	// MaxPollIterations bounds the number of status fetches per wait.
	// Zero means the default of 172800.
	MaxPollIterations int `json:"max_poll_iterations"`
}

// ConfigFromEnv creates a Config with values from environment variables,
// falling back to defaults for anything unset. The result still has to pass
// validation in NewClient.
func ConfigFromEnv() Config {
	return Config{
		APIKey:       getEnvString("SINDRI_API_KEY", ""),
		BaseURL:      getEnvString("SINDRI_BASE_URL", DefaultBaseURL),
		VerboseLevel: getEnvInt("SINDRI_VERBOSE_LEVEL", 0),
		Timeout:      getEnvInt("SINDRI_TIMEOUT", defaultTimeoutSeconds),
	}
}

// Validate checks the configuration without performing any network I/O.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return newError(KindInvalidConfiguration, "API key must be a non-empty string")
	}
	if c.VerboseLevel < 0 || c.VerboseLevel > 2 {
		return newError(KindInvalidConfiguration,
			fmt.Sprintf("verbose level must be 0, 1 or 2, got %d", c.VerboseLevel))
	}
	if _, err := normalizeBaseURL(c.BaseURL); err != nil {
		return err
	}
	return nil
}

// normalizeBaseURL reduces every accepted spelling of the API host to one
// canonical URL ending in "api/v1/". An empty input selects the default
// host.
func normalizeBaseURL(raw string) (string, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}
	trimmed := strings.TrimRight(raw, "/")

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", newErrorWithCause(KindInvalidConfiguration,
			fmt.Sprintf("invalid base URL %q", raw), err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", newError(KindInvalidConfiguration,
			fmt.Sprintf("invalid base URL %q: scheme and host are required", raw))
	}

	switch strings.TrimRight(u.Path, "/") {
	case "", "/api", "/api/v1":
	default:
		return "", newError(KindInvalidConfiguration,
			fmt.Sprintf("invalid base URL %q: unexpected path %q", raw, u.Path))
	}

	return u.Scheme + "://" + u.Host + "/api/v1/", nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
