package language

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake audio"), 0o644))
	return path
}

func TestWhisperClientDetect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/detect-language", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"language":"TA","language_probability":0.91}`))
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL)
	est, err := client.Detect(context.Background(), writeTempAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "ta", est.Code)
	assert.InDelta(t, 0.91, est.Confidence, 1e-9)
	assert.False(t, est.Absent())
}

func TestWhisperClientDetectServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL)
	_, err := client.Detect(context.Background(), writeTempAudio(t))
	assert.Error(t, err)
}

func TestWhisperClientDetectErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"audio too short"}`))
	}))
	defer server.Close()

	client := NewWhisperClient(server.URL)
	_, err := client.Detect(context.Background(), writeTempAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio too short")
}

func TestNoopDetector(t *testing.T) {
	est, err := NoopDetector{}.Detect(context.Background(), "whatever.wav")
	require.NoError(t, err)
	assert.True(t, est.Absent())
}
