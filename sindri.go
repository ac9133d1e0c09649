// Package sindri is a client SDK for the Sindri circuit-proving API.
//
// The API compiles zero-knowledge circuits and generates proofs remotely.
// This package wraps the HTTP surface: it uploads circuits, submits proof
// requests, polls job status until a terminal state and unwraps the JSON
// responses into typed structs.
//
// Example:
//
//	client, err := sindri.NewClient(sindri.Config{APIKey: "<YOUR_API_KEY>"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	circuitID, err := client.CreateCircuit(ctx, "circuits/multiplier2", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	proofID, err := client.ProveCircuit(ctx, circuitID, proofInput, nil)
package sindri

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Version is the SDK version reported in the client identification header.
const Version = "0.2.0"

// Client talks to the circuit-proving API. It is safe for concurrent use:
// the configuration and headers are set once in NewClient and never mutated.
// Concurrent jobs do not share any per-job state, so callers wanting
// parallelism can simply invoke the same Client from multiple goroutines.
//
// config: Validated client configuration
// apiURL: Canonical API URL ending in "api/v1/"
// httpClient: HTTP client for API requests
type Client struct {
	config     Config
	apiURL     string
	headers    map[string]string
	httpClient *http.Client
	logger     zerolog.Logger

	pollInterval      time.Duration
	maxPollIterations int

	// sleep is used for the poll interval and the transport backoff.
	// Tests replace it to simulate time.
	sleep func(time.Duration)
}

// NewClient creates a new client with the given configuration.
//
// config: Client configuration; only APIKey is required
//
// Returns a new Client instance or an error of kind
// KindInvalidConfiguration if the configuration is invalid. No network
// call is made.
//
// Example:
//
//	client, err := sindri.NewClient(sindri.ConfigFromEnv())
//	if err != nil {
//		log.Fatal(err)
//	}
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	apiURL, err := normalizeBaseURL(config.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeoutSeconds
	}
	pollInterval := config.PollInterval
	if pollInterval == 0 {
		pollInterval = defaultPollInterval
	}
	maxPollIterations := config.MaxPollIterations
	if maxPollIterations == 0 {
		maxPollIterations = defaultMaxPollIterations
	}

	client := &Client{
		config:  config,
		apiURL:  apiURL,
		headers: requestHeaders(config.APIKey),
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		logger:            newLogger(config.VerboseLevel),
		pollInterval:      pollInterval,
		maxPollIterations: maxPollIterations,
		sleep:             time.Sleep,
	}

	client.logger.Info().Str("api_url", apiURL).Msg("client configured")

	return client, nil
}

// requestHeaders builds the immutable header set sent with every request.
func requestHeaders(apiKey string) map[string]string {
	return map[string]string{
		"Accept":        "application/json",
		"Authorization": "Bearer " + apiKey,
		"Sindri-Client": fmt.Sprintf("sindri-go-sdk/%s (%s/%s) go:%s",
			Version, runtime.GOOS, runtime.GOARCH, runtime.Version()),
	}
}

// newLogger maps the verbose level onto a console logger. Level 0 discards
// everything, 1 logs job summaries, 2 additionally logs full detail objects.
func newLogger(verboseLevel int) zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Logger()
	switch verboseLevel {
	case 1:
		return logger.Level(zerolog.InfoLevel)
	case 2:
		return logger.Level(zerolog.DebugLevel)
	default:
		return logger.Level(zerolog.Disabled)
	}
}
