package services

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// testVocabulary gives each word its own dimension. The final dimension is
// a constant bias so no text embeds to the zero vector.
var testVocabulary = []string{"apples", "bananas", "red", "yellow", "are", "color"}

// keywordEmbedder implements driven.EmbeddingService with bag-of-words vectors.
type keywordEmbedder struct {
	mu         sync.Mutex
	model      string
	embedCalls int
	batchCalls int
	batchSizes []int
	err        error
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{model: "keyword-test"}
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.embedCalls++
	if e.err != nil {
		return nil, e.err
	}
	return keywordVector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batchCalls++
	e.batchSizes = append(e.batchSizes, len(texts))
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = keywordVector(t)
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int   { return len(testVocabulary) + 1 }
func (e *keywordEmbedder) ModelName() string { return e.model }

func (e *keywordEmbedder) Ping(_ context.Context) error { return nil }
func (e *keywordEmbedder) Close() error                 { return nil }

func (e *keywordEmbedder) calls() (embed, batch int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.embedCalls, e.batchCalls
}

func keywordVector(text string) []float32 {
	v := make([]float32, len(testVocabulary)+1)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		for i, k := range testVocabulary {
			if w == k {
				v[i]++
			}
		}
	}
	v[len(testVocabulary)] = 1
	return v
}

// fakeLLM implements driven.LLMService. It answers "Bananas are yellow."
// when the prompt mentions yellow and admits ignorance otherwise.
type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	opts    []driven.GenerateOptions
	err     error
	reply   string
}

func (l *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	l.prompts = append(l.prompts, prompt)
	l.opts = append(l.opts, opts)
	if l.err != nil {
		return "", l.err
	}
	if l.reply != "" {
		return l.reply, nil
	}
	if strings.Contains(prompt, "yellow") {
		return " Bananas are yellow.\n", nil
	}
	return "I don't know.", nil
}

func (l *fakeLLM) ModelName() string            { return "fake-llm" }
func (l *fakeLLM) Ping(_ context.Context) error { return nil }
func (l *fakeLLM) Close() error                 { return nil }

func (l *fakeLLM) lastPrompt() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.prompts) == 0 {
		return ""
	}
	return l.prompts[len(l.prompts)-1]
}

// mapPromptStore implements driven.PromptStore from a map.
type mapPromptStore map[string]string

func (m mapPromptStore) Load(name string) (string, error) {
	if p, ok := m[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func scored(contents ...string) []domain.ScoredChunk {
	out := make([]domain.ScoredChunk, len(contents))
	for i, c := range contents {
		out[i] = domain.ScoredChunk{
			Chunk: domain.Chunk{ID: c, Content: c, Position: i},
			Score: 1 - float64(i)/10,
		}
	}
	return out
}
