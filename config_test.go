package sindri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty selects default", "", "https://sindri.app/api/v1/"},
		{"bare host", "https://sindri.app", "https://sindri.app/api/v1/"},
		{"trailing slash", "https://sindri.app/", "https://sindri.app/api/v1/"},
		{"many trailing slashes", "https://sindri.app///", "https://sindri.app/api/v1/"},
		{"api path", "https://sindri.app/api", "https://sindri.app/api/v1/"},
		{"api path trailing slash", "https://sindri.app/api/", "https://sindri.app/api/v1/"},
		{"full path", "https://sindri.app/api/v1", "https://sindri.app/api/v1/"},
		{"full path trailing slash", "https://sindri.app/api/v1/", "https://sindri.app/api/v1/"},
		{"custom host and port", "http://localhost:8080", "http://localhost:8080/api/v1/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeBaseURLInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no scheme", "sindri.app"},
		{"unexpected path", "https://sindri.app/api/v2"},
		{"deep path", "https://sindri.app/some/where"},
		{"scheme only", "https://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeBaseURL(tt.in)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindInvalidConfiguration))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{APIKey: "test-key"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		config Config
	}{
		{"empty API key", Config{}},
		{"bad verbose level", Config{APIKey: "test-key", VerboseLevel: 3}},
		{"negative verbose level", Config{APIKey: "test-key", VerboseLevel: -1}},
		{"bad base URL", Config{APIKey: "test-key", BaseURL: "not a url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			require.Error(t, err)
			assert.True(t, IsKind(err, KindInvalidConfiguration))
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SINDRI_API_KEY", "env-key")
	t.Setenv("SINDRI_BASE_URL", "http://localhost:9000")
	t.Setenv("SINDRI_VERBOSE_LEVEL", "2")

	config := ConfigFromEnv()
	assert.Equal(t, "env-key", config.APIKey)
	assert.Equal(t, "http://localhost:9000", config.BaseURL)
	assert.Equal(t, 2, config.VerboseLevel)
	assert.Equal(t, defaultTimeoutSeconds, config.Timeout)
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "https://sindri.app/api/v1/", client.apiURL)
	assert.Equal(t, defaultPollInterval, client.pollInterval)
	assert.Equal(t, defaultMaxPollIterations, client.maxPollIterations)
	assert.Equal(t, "Bearer test-key", client.headers["Authorization"])
	assert.Contains(t, client.headers["Sindri-Client"], "sindri-go-sdk/"+Version)

	_, err = NewClient(Config{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidConfiguration))
}
