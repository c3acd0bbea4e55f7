package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFlagOrEnv(t *testing.T) {
	cmd := &cobra.Command{Use: "flags"}
	cmd.Flags().String("server", "", "")

	t.Setenv("AMO_SERVER_URL", "")
	assert.Equal(t, "fallback", flagOrEnv(cmd, "server", "AMO_SERVER_URL", "fallback"))

	t.Setenv("AMO_SERVER_URL", "http://from-env")
	assert.Equal(t, "http://from-env", flagOrEnv(cmd, "server", "AMO_SERVER_URL", "fallback"))

	require.NoError(t, cmd.Flags().Set("server", "http://from-flag"))
	assert.Equal(t, "http://from-flag", flagOrEnv(cmd, "server", "AMO_SERVER_URL", "fallback"))
}

func TestDetectPrintsCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/visuals/detect", r.URL.Path)
		var body struct {
			Messages []string `json:"messages"`
			Mode     string   `json:"mode"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"I need a pickleball paddle"}, body.Messages)
		assert.Equal(t, "canvas", body.Mode)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"pickleball","content":{"type":"example","title":"Pickleball Paddles - Expert Buying Guide","description":"d"}}`))
	}))
	defer srv.Close()

	out, err := execute(t, "detect", "--server", srv.URL, "I need a pickleball paddle")
	require.NoError(t, err)
	assert.Contains(t, out, "category: pickleball")
	assert.Contains(t, out, "Pickleball Paddles - Expert Buying Guide")
}

func TestSayWritesAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voice/synthesize", r.URL.Path)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.mp3")
	out, err := execute(t, "say", "--server", srv.URL, "--out", path, "hello", "there")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 8 bytes")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID3audio", string(data))
}
