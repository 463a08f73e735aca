package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// MockSession implements driving.QASession for CLI tests.
type MockSession struct {
	AskFunc   func(ctx context.Context, question string) (*domain.Answer, error)
	Info      driving.SessionInfo
	Questions []string
}

func (m *MockSession) Answer(ctx context.Context, question string) (string, error) {
	answer, err := m.Ask(ctx, question)
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

func (m *MockSession) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	m.Questions = append(m.Questions, question)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &domain.Answer{
		Question: question,
		Text:     "Bananas are yellow.",
		Sources: []domain.ScoredChunk{
			{
				Chunk: domain.Chunk{
					Content:  "red. Bananas are ",
					Metadata: map[string]any{domain.MetaPage: 1},
				},
				Score: 0.75,
			},
			{Chunk: domain.Chunk{Content: " are yellow."}, Score: 0.577},
		},
	}, nil
}

func (m *MockSession) Document() driving.SessionInfo {
	return m.Info
}

// MockBuilder implements driving.IndexBuilder for CLI tests.
type MockBuilder struct {
	Session  *MockSession
	Err      error
	Opened   []string
	Rebuilds []string
}

func (m *MockBuilder) BuildOrLoad(_ context.Context, path string) (driving.QASession, error) {
	m.Opened = append(m.Opened, path)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Session, nil
}

func (m *MockBuilder) Rebuild(_ context.Context, path string) (driving.QASession, error) {
	m.Rebuilds = append(m.Rebuilds, path)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Session, nil
}

// MockIndexManager implements driving.IndexManager for CLI tests.
type MockIndexManager struct {
	Infos     []domain.IndexInfo
	DeleteErr error
	Deleted   []string
	Cleared   bool
}

func (m *MockIndexManager) List(_ context.Context) ([]domain.IndexInfo, error) {
	return m.Infos, nil
}

func (m *MockIndexManager) Delete(_ context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, key)
	return nil
}

func (m *MockIndexManager) Clear(_ context.Context) (int, error) {
	m.Cleared = true
	return len(m.Infos), nil
}

// MockSettingsService implements driving.SettingsService for CLI tests.
type MockSettingsService struct {
	Settings    domain.AppSettings
	ValidateErr error
	PingErr     error

	EmbeddingCalls []string
	LLMCalls       []string
	APIKeys        []string
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.Settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Settings = *settings
	return nil
}

func (m *MockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.EmbeddingCalls = append(m.EmbeddingCalls, provider.String()+"/"+model)
	m.APIKeys = append(m.APIKeys, apiKey)
	m.Settings.Embedding.Provider = provider
	m.Settings.Embedding.Model = model
	return nil
}

func (m *MockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.LLMCalls = append(m.LLMCalls, provider.String()+"/"+model)
	m.APIKeys = append(m.APIKeys, apiKey)
	m.Settings.LLM.Provider = provider
	m.Settings.LLM.Model = model
	return nil
}

func (m *MockSettingsService) SetChunking(size, overlap int) error {
	if overlap >= size {
		return domain.ErrInvalidInput
	}
	m.Settings.Chunking = domain.ChunkingSettings{Size: size, Overlap: overlap}
	return nil
}

func (m *MockSettingsService) Validate() error {
	return m.ValidateErr
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error {
	return m.PingErr
}

func (m *MockSettingsService) ValidateLLMConfig() error {
	return m.PingErr
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	Session  *MockSession
	Builder  *MockBuilder
	Indexes  *MockIndexManager
	Settings *MockSettingsService
}

func fruitInfo() driving.SessionInfo {
	return driving.SessionInfo{
		Index: domain.IndexInfo{
			Key:         "0123456789abcdef0123456789abcdef",
			DocumentURI: "/docs/fruit.txt",
			Title:       "fruit",
			Model:       "keyword-test",
			Dimensions:  7,
			ChunkCount:  3,
			CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

// setupTestServices installs mock services and restores globals after the test.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	session := &MockSession{Info: fruitInfo()}
	ts := &testServices{
		Session:  session,
		Builder:  &MockBuilder{Session: session},
		Indexes:  &MockIndexManager{},
		Settings: &MockSettingsService{Settings: domain.DefaultAppSettings()},
	}
	SetServices(&Services{
		Settings: ts.Settings,
		Indexes:  ts.Indexes,
		Builder:  ts.Builder,
	})
	t.Cleanup(func() { SetServices(nil) })
	return ts
}

// executeCommand runs the root command with args and stdin.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
