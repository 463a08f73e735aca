package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// DefaultValidateTimeout bounds each provider round trip made by a check.
const DefaultValidateTimeout = 10 * time.Second

// checkText is embedded once to confirm the model answers with vectors of
// the size an index built from these settings would record.
const checkText = "docqa connectivity check"

// ConfigValidator checks provider settings against the live services
// before they are saved or used to build an index.
type ConfigValidator struct {
	timeout      time.Duration
	newEmbedding func(*domain.EmbeddingSettings) (driven.EmbeddingService, error)
	newLLM       func(*domain.LLMSettings) (driven.LLMService, error)
}

// ValidatorOption configures a ConfigValidator.
type ValidatorOption func(*ConfigValidator)

// WithValidateTimeout overrides DefaultValidateTimeout.
func WithValidateTimeout(d time.Duration) ValidatorOption {
	return func(v *ConfigValidator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// NewConfigValidator creates a validator backed by the provider factories.
func NewConfigValidator(opts ...ValidatorOption) *ConfigValidator {
	v := &ConfigValidator{
		timeout:      DefaultValidateTimeout,
		newEmbedding: CreateEmbeddingService,
		newLLM:       CreateLLMService,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateEmbedding embeds a short check sentence with the configured model.
// A vector whose length differs from the dimensions the service reports
// fails with domain.ErrDimensionMismatch, since every chunk embedded with
// these settings would be rejected by the vector index the same way.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	svc, err := v.newEmbedding(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	vec, err := svc.Embed(ctx, checkText)
	if err != nil {
		return fmt.Errorf("%w: %s did not embed a check sentence (%w). %s",
			domain.ErrEmbeddingUnavailable, svc.ModelName(), err, fixHint)
	}
	if len(vec) == 0 {
		return fmt.Errorf("%w: %s returned an empty vector", domain.ErrEmbeddingUnavailable, svc.ModelName())
	}
	if want := svc.Dimensions(); want > 0 && len(vec) != want {
		return fmt.Errorf("%w: %s returned %d dimensions, settings expect %d",
			domain.ErrDimensionMismatch, svc.ModelName(), len(vec), want)
	}
	return nil
}

// ValidateLLM pings the configured generative model.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	svc, err := v.newLLM(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable (%w). %s",
			domain.ErrLLMUnavailable, svc.ModelName(), err, fixHint)
	}
	return nil
}
