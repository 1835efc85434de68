package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun_NetworkAndClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/400" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out, err := execute(t,
		"--threshold", "4",
		"--log-level", "error",
		"--client-errors", "2",
		srv.URL+"/400", srv.URL+"/400", srv.URL+"/ok",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "request failed with status code 400")
	assert.Contains(t, out, "200 OK")
	assert.Contains(t, out, "recorded=4 client=2 network=2 warnings=0 pending=4")
}

func TestRun_ConfigFileScope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "showme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("error_scope: network\nerror_threshold: 0\n"), 0o600))

	out, err := execute(t, "--config", path, "--log-level", "error", "--client-errors", "3", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded=1 client=0 network=1 warnings=1 pending=0")
}

func TestRun_InvalidFlags(t *testing.T) {
	_, err := execute(t, "--scope", "server")
	assert.Error(t, err)

	_, err = execute(t, "--threshold=-1")
	assert.Error(t, err)

	_, err = execute(t, "--log-level", "loud")
	assert.Error(t, err)
}
