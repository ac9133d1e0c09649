package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeta(t *testing.T) {
	meta, err := parseMeta([]string{"external_id=job-9", "env=staging"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"external_id": "job-9", "env": "staging"}, meta)

	meta, err = parseMeta(nil)
	require.NoError(t, err)
	assert.Nil(t, meta)

	_, err = parseMeta([]string{"missing-separator"})
	require.Error(t, err)

	_, err = parseMeta([]string{"=value"})
	require.Error(t, err)
}

// runCommand executes the CLI against a mock server and captures stdout.
func runCommand(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--api-key", "test-key", "--base-url", serverURL))
	err := root.Execute()
	return out.String(), err
}

func TestCircuitListCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/circuit/list", r.URL.Path)
		_, _ = w.Write([]byte(`[{"circuit_id":"a","status":"Ready"}]`))
	}))
	defer server.Close()

	out, err := runCommand(t, server.URL, "circuit", "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"circuit_id": "a"`)
}

func TestTeamCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/team/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"team_name":"sindri-labs"}`))
	}))
	defer server.Close()

	out, err := runCommand(t, server.URL, "team")
	require.NoError(t, err)
	assert.Contains(t, out, `"team_name": "sindri-labs"`)
}

func TestProofCreateCommandSubmitsEveryInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/circuit/circuit-123/prove", r.URL.Path)
		require.NoError(t, r.ParseForm())
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"proof_id":"proof-` + r.PostForm.Get("proof_input") + `"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	inputA := filepath.Join(dir, "a.json")
	inputB := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(inputA, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(inputB, []byte("b"), 0o644))

	out, err := runCommand(t, server.URL,
		"proof", "create", "circuit-123", inputA, inputB, "--no-wait")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	sort.Strings(lines)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "proof-a")
	assert.Contains(t, lines[1], "proof-b")
}

func TestCommandFailsWithoutAPIKey(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"circuit", "list", "--api-key", "", "--base-url", "http://localhost:1"})

	t.Setenv("SINDRI_API_KEY", "")
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
