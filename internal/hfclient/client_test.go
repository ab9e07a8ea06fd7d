package hfclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateImage checks the happy path against a stub server
func TestGenerateImage(t *testing.T) {
	fakeImage := []byte("\x89PNG\r\n\x1a\nfake-image-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/stabilityai/stable-diffusion-2", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "a watercolor fox", payload["inputs"])

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(fakeImage)
	}))
	defer server.Close()

	client := NewClient(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	data, contentType, err := client.GenerateImage(context.Background(), "a watercolor fox")
	require.NoError(t, err)
	assert.Equal(t, fakeImage, data)
	assert.Equal(t, "image/png", contentType)
}

// TestGenerateImageAPIError checks upstream errors surface with the
// API's error message.
func TestGenerateImageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "Model is currently loading"})
	}))
	defer server.Close()

	client := NewClient(&Config{APIKey: "test-key", BaseURL: server.URL})

	_, _, err := client.GenerateImage(context.Background(), "anything")
	require.Error(t, err)

	var infErr *InferenceError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, "check_response_status", infErr.Op)
	assert.Contains(t, err.Error(), "Model is currently loading")
	assert.Contains(t, err.Error(), "503")
}

// TestGenerateImageMissingAPIKey checks the client refuses to call out
// without a key.
func TestGenerateImageMissingAPIKey(t *testing.T) {
	client := NewClient(&Config{})

	_, _, err := client.GenerateImage(context.Background(), "prompt")
	require.Error(t, err)

	var infErr *InferenceError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, "validate_configuration", infErr.Op)
}

// TestGenerateImageEmptyPrompt checks blank prompts are rejected before
// any network call.
func TestGenerateImageEmptyPrompt(t *testing.T) {
	client := NewClient(&Config{APIKey: "test-key"})

	for _, prompt := range []string{"", "   "} {
		_, _, err := client.GenerateImage(context.Background(), prompt)
		require.Error(t, err)

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.Equal(t, "validate_prompt", infErr.Op)
	}
}

// TestNewClientDefaults checks nil and partial configs fill in the
// documented defaults.
func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil)
	assert.Equal(t, "https://api-inference.huggingface.co", client.baseURL)
	assert.Equal(t, "stabilityai/stable-diffusion-2", client.modelID)

	client = NewClient(&Config{BaseURL: "https://example.test/"})
	assert.Equal(t, "https://example.test", client.baseURL, "trailing slash is trimmed")
}
