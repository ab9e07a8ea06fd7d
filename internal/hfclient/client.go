// Package hfclient talks to the Hugging Face Inference API for
// text-to-image generation. It is an optional collaborator: failures
// here surface to the caller as InferenceError values and never affect
// invoice rendering or export.
package hfclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// InferenceError represents an error that occurred during Hugging Face
// API interaction
type InferenceError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *InferenceError) Error() string {
	if e.Err == nil {
		return "huggingface error: " + e.Op
	}
	return "huggingface error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Client represents a client for the Hugging Face Inference API
type Client struct {
	apiKey     string
	baseURL    string
	modelID    string
	httpClient *http.Client
}

// Config holds configuration for the Hugging Face client
type Config struct {
	APIKey  string
	ModelID string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a default configuration for the client
func DefaultConfig() *Config {
	return &Config{
		ModelID: "stabilityai/stable-diffusion-2",
		BaseURL: "https://api-inference.huggingface.co",
		Timeout: 60 * time.Second,
	}
}

// NewClient creates a new Hugging Face client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	modelID := config.ModelID
	if modelID == "" {
		modelID = "stabilityai/stable-diffusion-2"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiKey:  config.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		modelID: modelID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateImage generates an image from a text prompt. It returns the
// raw image bytes and their content type.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if c.apiKey == "" {
		return nil, "", &InferenceError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("Hugging Face API key is not configured. Please set HF_API_KEY environment variable"),
		}
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, "", &InferenceError{
			Op:  "validate_prompt",
			Err: fmt.Errorf("prompt is empty"),
		}
	}

	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, "", &InferenceError{Op: "encode_request", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", &InferenceError{Op: "create_request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &InferenceError{Op: "send_request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &InferenceError{Op: "read_response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", &InferenceError{
			Op:  "check_response_status",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, parseAPIError(body)),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	if len(body) == 0 {
		return nil, "", &InferenceError{Op: "check_response_body", Err: fmt.Errorf("empty image response")}
	}

	return body, contentType, nil
}

// parseAPIError extracts the error message from a Hugging Face error
// response, falling back to the raw body
func parseAPIError(body []byte) string {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
