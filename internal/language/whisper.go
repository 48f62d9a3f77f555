package language

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultWhisperURL = "http://localhost:8090"

// WhisperClient talks to a local whisper inference server. The server
// accepts a multipart upload and answers with the detected language code
// and its probability.
type WhisperClient struct {
	baseURL    string
	httpClient *http.Client
}

type detectResponse struct {
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Error               string  `json:"error,omitempty"`
}

// NewWhisperClient creates a client for the given server base URL
func NewWhisperClient(baseURL string) *WhisperClient {
	return NewWhisperClientWithTimeout(baseURL, 30*time.Second)
}

// NewWhisperClientWithTimeout creates a client with a custom request timeout
func NewWhisperClientWithTimeout(baseURL string, timeout time.Duration) *WhisperClient {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultWhisperURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WhisperClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Detect uploads the audio file and returns the server's language estimate
func (c *WhisperClient) Detect(ctx context.Context, audioPath string) (Estimate, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Estimate{}, fmt.Errorf("whisper: open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return Estimate{}, fmt.Errorf("whisper: build request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return Estimate{}, fmt.Errorf("whisper: read audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Estimate{}, fmt.Errorf("whisper: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect-language", &body)
	if err != nil {
		return Estimate{}, fmt.Errorf("whisper: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Estimate{}, fmt.Errorf("whisper: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Estimate{}, fmt.Errorf("whisper: unexpected status %d", resp.StatusCode)
	}

	var parsed detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Estimate{}, fmt.Errorf("whisper: decode response: %w", err)
	}
	if parsed.Error != "" {
		return Estimate{}, fmt.Errorf("whisper: %s", parsed.Error)
	}

	return Estimate{
		Code:       strings.ToLower(strings.TrimSpace(parsed.Language)),
		Confidence: parsed.LanguageProbability,
	}, nil
}
