package sindri

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client against a mock server with sleeping
// disabled so tests run without real delays.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{APIKey: "test-key", BaseURL: baseURL})
	require.NoError(t, err)
	client.sleep = func(time.Duration) {}
	return client
}

func TestRetryBackoffSchedule(t *testing.T) {
	want := []time.Duration{0, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}
	for attempt := 1; attempt <= maxRequestRetries; attempt++ {
		assert.Equal(t, want[attempt-1], retryBackoff(attempt))
	}
}

func TestRoundTripRetriesOnServerErrors(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	var slept []time.Duration
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	status, body, err := client.request(context.Background(), http.MethodGet, "team/me", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 3, hits)
	// The first retry is immediate, the second sleeps 2s.
	assert.Equal(t, []time.Duration{2 * time.Second}, slept)
}

func TestRoundTripExhaustsRetries(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	var slept []time.Duration
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, _, err := client.request(context.Background(), http.MethodGet, "team/me", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConnection))
	assert.Equal(t, 1+maxRequestRetries, hits)
	assert.Equal(t, []time.Duration{
		2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second,
	}, slept)
}

func TestRoundTripConnectionRefused(t *testing.T) {
	// Reserve a port and close the listener so nothing is listening.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := newTestClient(t, baseURL)
	_, _, err := client.request(context.Background(), http.MethodGet, "team/me", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConnection))
}

func TestRequestStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`, KindAuth},
		{"not found", http.StatusNotFound, `{"error":"no such id"}`, KindNotFound},
		{"non-JSON body", http.StatusOK, `<html>oops</html>`, KindMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			_, _, err := client.request(context.Background(), http.MethodGet, "team/me", nil, nil, nil)
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.wantKind))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.body, apiErr.Body)
		})
	}
}

func TestRequestSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("Sindri-Client"), "sindri-go-sdk/")
		assert.Equal(t, "/api/v1/team/me", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	status, _, err := client.request(context.Background(), http.MethodGet, "team/me", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}
