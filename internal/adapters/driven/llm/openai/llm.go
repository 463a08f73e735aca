// Package openai generates answers through any OpenAI-compatible chat
// completions endpoint.
package openai

import (
	"cmp"
	"context"
	"errors"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/docqa/internal/adapters/driven/openaiapi"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures an LLMService. Only APIKey is required.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService provides chat completions from an OpenAI-compatible API.
type LLMService struct {
	client *openai.Client
	model  string
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	client, err := openaiapi.NewClient(cfg.APIKey, cfg.BaseURL, cmp.Or(cfg.Timeout, DefaultLLMTimeout))
	if err != nil {
		return nil, err
	}
	return &LLMService{client: client, model: cmp.Or(cfg.Model, DefaultLLMModel)}, nil
}

// Generate sends prompt as the user turn, preceded by opts.System if set,
// and returns the first choice.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var msgs []openai.ChatCompletionMessage
	if opts.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: opts.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    msgs,
		MaxTokens:   opts.MaxTokens,
		Temperature: temperature(opts.Temperature),
	})
	if err != nil {
		return "", openaiapi.Describe(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// temperature maps a requested temperature onto the request field.
// The client omits a zero value, which the API reads as its default of 1,
// so deterministic generation is sent as the smallest positive float.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string { return s.model }

// Ping checks the key and endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	return openaiapi.Ping(ctx, s.client)
}

// Close is a no-op.
func (s *LLMService) Close() error { return nil }
