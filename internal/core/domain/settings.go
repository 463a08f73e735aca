package domain

import "fmt"

const unknownDescription = "Unknown"

// Pipeline defaults.
const (
	DefaultChunkSize       = 1000
	DefaultChunkOverlap    = 200
	DefaultTopK            = 4
	DefaultBatchSize       = 32
	DefaultMaxContextChars = 12000
)

// AIProvider names a backend for embeddings, answers, or both.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
	// AIProviderGemini is Google's OpenAI-compatible endpoint.
	AIProviderGemini AIProvider = "gemini"
)

// providerProfile is the static description of one provider.
type providerProfile struct {
	description string
	keyEnv      string
	baseURL     string
	local       bool
	embedModel  string // empty when the provider cannot embed
	llmModel    string
}

// providers lists every supported provider in menu order.
var providers = []struct {
	id      AIProvider
	profile providerProfile
}{
	{AIProviderOllama, providerProfile{
		description: "Ollama (local)",
		baseURL:     "http://localhost:11434",
		local:       true,
		embedModel:  "nomic-embed-text",
		llmModel:    "llama3.2",
	}},
	{AIProviderOpenAI, providerProfile{
		description: "OpenAI-compatible (cloud)",
		keyEnv:      "OPENAI_API_KEY",
		embedModel:  "text-embedding-3-small",
		llmModel:    "gpt-4o-mini",
	}},
	{AIProviderAnthropic, providerProfile{
		description: "Anthropic (cloud)",
		keyEnv:      "ANTHROPIC_API_KEY",
		llmModel:    "claude-3-5-sonnet-latest",
	}},
	{AIProviderGemini, providerProfile{
		description: "Google Gemini (cloud)",
		keyEnv:      "GOOGLE_API_KEY",
		baseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
		embedModel:  "text-embedding-004",
		llmModel:    "gemini-1.5-flash",
	}},
}

func (p AIProvider) profile() (providerProfile, bool) {
	for _, entry := range providers {
		if entry.id == p {
			return entry.profile, true
		}
	}
	return providerProfile{}, false
}

// IsValid reports whether p is a known provider.
func (p AIProvider) IsValid() bool {
	_, ok := p.profile()
	return ok
}

// RequiresAPIKey reports whether p authenticates with an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p.DefaultAPIKeyEnv() != ""
}

// IsLocal reports whether p runs on this machine.
func (p AIProvider) IsLocal() bool {
	s, _ := p.profile()
	return s.local
}

// SupportsEmbeddings reports whether p can produce embeddings.
func (p AIProvider) SupportsEmbeddings() bool {
	s, _ := p.profile()
	return s.embedModel != ""
}

// IsOpenAICompatible reports whether p speaks the OpenAI HTTP API.
func (p AIProvider) IsOpenAICompatible() bool {
	return p == AIProviderOpenAI || p == AIProviderGemini
}

func (p AIProvider) String() string {
	return string(p)
}

// Description is the label shown in settings menus.
func (p AIProvider) Description() string {
	if s, ok := p.profile(); ok {
		return s.description
	}
	return unknownDescription
}

// DefaultAPIKeyEnv names the environment variable conventionally holding
// the provider's key, or "" for keyless providers.
func (p AIProvider) DefaultAPIKeyEnv() string {
	s, _ := p.profile()
	return s.keyEnv
}

// DefaultBaseURL is the endpoint used when none is configured. Providers
// whose client library has a built-in endpoint return "".
func (p AIProvider) DefaultBaseURL() string {
	s, _ := p.profile()
	return s.baseURL
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI-compatible providers).
	APIKey string

	// Dimensions overrides the model's default vector size. 0 keeps the default.
	Dimensions int

	// BatchSize is the number of chunks sent per EmbedBatch call.
	BatchSize int

	// RequestsPerSecond throttles embedding calls. 0 disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// MaxTokens caps the generated answer length. 0 means provider default.
	MaxTokens int

	// MaxContextChars bounds the retrieved context placed in the prompt.
	MaxContextChars int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings controls how documents are split.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of characters shared by adjacent chunks.
	Overlap int
}

// RetrievalSettings controls how many chunks back an answer.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Providers default to OpenAI models; API keys come from the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOpenAI,
			Model:     DefaultEmbeddingModels()[AIProviderOpenAI],
			BatchSize: DefaultBatchSize,
		},
		LLM: LLMSettings{
			Provider:        AIProviderOpenAI,
			Model:           DefaultLLMModels()[AIProviderOpenAI],
			MaxContextChars: DefaultMaxContextChars,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
	}
}

// ApplyDefaults fills zero values with defaults.
func (s *AppSettings) ApplyDefaults() {
	if s.Embedding.Model == "" {
		s.Embedding.Model = DefaultEmbeddingModels()[s.Embedding.Provider]
	}
	if s.Embedding.BatchSize <= 0 {
		s.Embedding.BatchSize = DefaultBatchSize
	}
	if s.LLM.Model == "" {
		s.LLM.Model = DefaultLLMModels()[s.LLM.Provider]
	}
	if s.LLM.MaxContextChars <= 0 {
		s.LLM.MaxContextChars = DefaultMaxContextChars
	}
	if s.Chunking.Size <= 0 {
		s.Chunking.Size = DefaultChunkSize
	}
	if s.Chunking.Overlap < 0 {
		s.Chunking.Overlap = DefaultChunkOverlap
	}
	if s.Retrieval.TopK <= 0 {
		s.Retrieval.TopK = DefaultTopK
	}
}

// Validate checks the settings for correctness.
func (s *AppSettings) Validate() error {
	if !s.Embedding.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: embedding provider %q", ErrUnsupportedType, s.Embedding.Provider)
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: llm provider %q", ErrUnsupportedType, s.LLM.Provider)
	}
	if s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: chunking.overlap (%d) must be smaller than chunking.size (%d)",
			ErrInvalidInput, s.Chunking.Overlap, s.Chunking.Size)
	}
	if s.Embedding.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: embedding.requests_per_second must not be negative", ErrInvalidInput)
	}
	return nil
}

// AllEmbeddingProviders returns the providers that can embed, in menu order.
func AllEmbeddingProviders() []AIProvider {
	var out []AIProvider
	for _, entry := range providers {
		if entry.profile.embedModel != "" {
			out = append(out, entry.id)
		}
	}
	return out
}

// AllLLMProviders returns every provider, in menu order.
func AllLLMProviders() []AIProvider {
	out := make([]AIProvider, len(providers))
	for i, entry := range providers {
		out[i] = entry.id
	}
	return out
}

// DefaultEmbeddingModels maps each embedding provider to its default model.
func DefaultEmbeddingModels() map[AIProvider]string {
	out := make(map[AIProvider]string)
	for _, entry := range providers {
		if entry.profile.embedModel != "" {
			out[entry.id] = entry.profile.embedModel
		}
	}
	return out
}

// DefaultLLMModels maps each provider to its default answer model.
func DefaultLLMModels() map[AIProvider]string {
	out := make(map[AIProvider]string, len(providers))
	for _, entry := range providers {
		out[entry.id] = entry.profile.llmModel
	}
	return out
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini
		"text-embedding-004": 768,
	}
}
