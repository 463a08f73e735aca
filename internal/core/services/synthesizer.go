package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Synthesizer accepts a prompt store.
var _ driven.PromptStoreAware = (*Synthesizer)(nil)

// contextSeparator joins chunk texts in the context block.
const contextSeparator = "\n\n"

// defaultAnswerPrompt is the fallback prompt when no PromptStore is configured.
// Placeholders: context, then question.
const defaultAnswerPrompt = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful Answer:`

// defaultAnswerSystem is the fallback system instruction.
const defaultAnswerSystem = `You answer questions about a single document. Use only the context provided with each question. If the context does not contain the answer, say that you don't know.`

// Synthesizer asks the generative model to answer from retrieved context.
type Synthesizer struct {
	llm             driven.LLMService
	promptStore     driven.PromptStore
	maxContextChars int
	maxTokens       int
}

// NewSynthesizer creates a synthesizer.
// maxContextChars bounds the context block; non-positive uses domain.DefaultMaxContextChars.
// maxTokens caps the answer length; 0 leaves it to the provider.
func NewSynthesizer(llm driven.LLMService, maxContextChars, maxTokens int) *Synthesizer {
	if maxContextChars <= 0 {
		maxContextChars = domain.DefaultMaxContextChars
	}
	return &Synthesizer{
		llm:             llm,
		maxContextChars: maxContextChars,
		maxTokens:       maxTokens,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the synthesizer uses its built-in prompts.
func (s *Synthesizer) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Synthesize answers question using chunks, which must be in retrieval order.
// Failures of the generative model are returned wrapped in domain.ErrSynthesis
// and are not retried.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, chunks []domain.ScoredChunk) (string, error) {
	logger.Section("Synthesis")

	block, used := BuildContext(chunks, s.maxContextChars)
	if used < len(chunks) {
		logger.Info("Context limit %d reached, dropped %d lowest-ranked chunks", s.maxContextChars, len(chunks)-used)
	}
	logger.Debug("Context: %d chars from %d chunks, model=%s", len([]rune(block)), used, s.llm.ModelName())

	prompt := fmt.Sprintf(s.answerTemplate(), block, question)
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      s.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystem),
		MaxTokens:   s.maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
	}

	return strings.TrimSpace(answer), nil
}

// BuildContext joins chunk texts in order, stopping before the first chunk
// that would push the block past limit runes. If even the first chunk is
// too long it is truncated to limit. It returns the block and the number
// of chunks it draws on.
func BuildContext(chunks []domain.ScoredChunk, limit int) (string, int) {
	if len(chunks) == 0 || limit <= 0 {
		return "", 0
	}

	first := []rune(chunks[0].Chunk.Content)
	if len(first) > limit {
		return string(first[:limit]), 1
	}

	var b strings.Builder
	size := 0
	used := 0
	for i, c := range chunks {
		n := len([]rune(c.Chunk.Content))
		if i > 0 {
			n += len(contextSeparator)
		}
		if size+n > limit {
			break
		}
		if i > 0 {
			b.WriteString(contextSeparator)
		}
		b.WriteString(c.Chunk.Content)
		size += n
		used++
	}
	return b.String(), used
}

// answerTemplate loads the answer prompt, rejecting templates that do not
// carry exactly two %s placeholders.
func (s *Synthesizer) answerTemplate() string {
	tmpl := s.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt)
	if strings.Count(tmpl, "%s") != 2 || strings.Count(tmpl, "%") != 2 {
		logger.Warn("Prompt %q must contain exactly two %%s placeholders, using default", driven.PromptAnswer)
		return defaultAnswerPrompt
	}
	return tmpl
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *Synthesizer) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
