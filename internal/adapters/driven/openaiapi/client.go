// Package openaiapi holds the go-openai setup shared by the OpenAI
// embedding and LLM adapters, including any OpenAI-compatible endpoint
// such as Gemini's.
package openaiapi

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the public OpenAI API.
const DefaultBaseURL = "https://api.openai.com/v1"

// ErrMissingKey is returned by NewClient without an API key.
var ErrMissingKey = errors.New("openai: API key is required")

// NewClient returns a client for baseURL (DefaultBaseURL when empty)
// whose requests time out after timeout.
func NewClient(apiKey, baseURL string, timeout time.Duration) (*openai.Client, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = cmp.Or(baseURL, DefaultBaseURL)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg), nil
}

// Ping lists models, which checks the key without running inference.
func Ping(ctx context.Context, client *openai.Client) error {
	if _, err := client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", Describe(err))
	}
	return nil
}

// Describe rewrites a client error as "openai error (status N): message".
// Compatible servers that answer {"detail": ...} are understood too.
func Describe(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := string(reqErr.Body)
		var body struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(reqErr.Body, &body) == nil && body.Detail != "" {
			msg = body.Detail
		}
		return fmt.Errorf("openai error (status %d): %s", reqErr.HTTPStatusCode, msg)
	}

	return fmt.Errorf("openai request failed: %w", err)
}
