package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	cases := map[string]string{
		"":                                   "****",
		"abc123":                             "****",
		"12345678":                           "****",
		"sk-1234567890abcdef":                "sk-1...cdef",
		"sk-proj-1234567890abcdefghijklmnop": "sk-p...mnop",
	}
	for key, want := range cases {
		assert.Equal(t, want, maskAPIKey(key), "key %q", key)
	}
	assert.Equal(t, "(not set)", describeAPIKey(""))
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		def   int
		want  int
	}{
		{"", 1, 1},
		{"3", 1, 3},
		{" 4 ", 1, 4},
		{"5", 3, 5},
		{"1", 3, 1},
		{"0", 1, 1},
		{"6", 1, 1},
		{"-1", 1, 1},
		{"abc", 2, 2},
		{"   ", 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseChoice(tt.input, 5, tt.def), "input %q", tt.input)
	}
}

func TestSettingsShowCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.Settings.Settings.Embedding.APIKey = "sk-1234567890abcdef"

	out, err := executeCommand(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Embedding]")
	assert.Contains(t, out, "text-embedding-3-small")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Size: 1000")
	assert.Contains(t, out, "Overlap: 200")
	assert.Contains(t, out, "Top K: 4")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_Invalid(t *testing.T) {
	ts := setupTestServices(t)
	ts.Settings.ValidateErr = domain.ErrLLMUnavailable

	out, err := executeCommand(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: "+domain.ErrLLMUnavailable.Error())
	assert.Contains(t, out, "docqa settings wizard")
}

func TestSettingsChunkingCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "", "settings", "chunking", "500", "50")

	require.NoError(t, err)
	assert.Equal(t, domain.ChunkingSettings{Size: 500, Overlap: 50}, ts.Settings.Settings.Chunking)
	assert.Contains(t, out, "Chunking set to 500 characters with 50 overlap.")
}

func TestSettingsChunkingCmd_Invalid(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, "", "settings", "chunking", "big", "50")
	assert.EqualError(t, err, `invalid chunk size "big"`)

	_, err = executeCommand(t, "", "settings", "chunking", "100", "100")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsValidateCmd(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "", "settings", "validate")

	require.NoError(t, err)
	assert.Contains(t, out, "Embedding provider... OK")
	assert.Contains(t, out, "LLM provider... OK")
}

func TestSettingsValidateCmd_PingFails(t *testing.T) {
	ts := setupTestServices(t)
	ts.Settings.PingErr = errors.New("connection refused")

	out, err := executeCommand(t, "", "settings", "validate")

	assert.ErrorContains(t, err, "connection refused")
	assert.Contains(t, out, "Embedding provider... FAILED")
}

func TestSettingsWizardCmd(t *testing.T) {
	ts := setupTestServices(t)

	// OpenAI embeddings with a typed key, then Ollama with a custom model.
	stdin := "2\n\nsk-test-key-123456\n1\nmistral\n"
	out, err := executeCommand(t, stdin, "settings", "wizard")

	require.NoError(t, err)
	assert.Equal(t, []string{"openai/text-embedding-3-small"}, ts.Settings.EmbeddingCalls)
	assert.Equal(t, []string{"ollama/mistral"}, ts.Settings.LLMCalls)
	assert.Equal(t, []string{"sk-test-key-123456", ""}, ts.Settings.APIKeys)
	assert.Contains(t, out, "All settings are valid and saved.")
}

func TestSettingsEmbeddingCmd_BlankKeyUsesEnvironment(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "2\n\n\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "blank to use $OPENAI_API_KEY")
	assert.Equal(t, []string{""}, ts.Settings.APIKeys)
}

func TestSettingsCmd_NoService(t *testing.T) {
	SetServices(&Services{})
	t.Cleanup(func() { SetServices(nil) })

	_, err := executeCommand(t, "", "settings", "show")

	assert.EqualError(t, err, "settings service not configured")
}

func TestSettingsLLMCmd_Anthropic(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "3\n\nsk-ant-0123456789\n", "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic/claude-3-5-sonnet-latest"}, ts.Settings.LLMCalls)
	assert.Contains(t, out, "blank to use $ANTHROPIC_API_KEY")
	assert.Contains(t, out, "LLM provider configured: ")
}
