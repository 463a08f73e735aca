package tui

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// MockSession implements driving.QASession for testing.
type MockSession struct {
	AskFunc func(ctx context.Context, question string) (*domain.Answer, error)
	Info    driving.SessionInfo
}

func (m *MockSession) Answer(ctx context.Context, question string) (string, error) {
	answer, err := m.Ask(ctx, question)
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

func (m *MockSession) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &domain.Answer{Question: question, Text: "Bananas are yellow."}, nil
}

func (m *MockSession) Document() driving.SessionInfo {
	return m.Info
}

func newTestSession() *MockSession {
	return &MockSession{
		Info: driving.SessionInfo{
			Index: domain.IndexInfo{
				Key:         "abc123",
				DocumentURI: "/docs/fruit.pdf",
				ChunkCount:  3,
			},
		},
	}
}
