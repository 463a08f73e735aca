package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// mockSession is a mock implementation of driving.QASession.
type mockSession struct {
	answer *domain.Answer
	err    error
	info   driving.SessionInfo
}

func (m *mockSession) Answer(ctx context.Context, question string) (string, error) {
	a, err := m.Ask(ctx, question)
	if err != nil {
		return "", err
	}
	return a.Text, nil
}

func (m *mockSession) Ask(_ context.Context, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidQuestion)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockSession) Document() driving.SessionInfo {
	return m.info
}

// mockIndexManager is a mock implementation of driving.IndexManager.
type mockIndexManager struct {
	infos []domain.IndexInfo
	err   error
}

func (m *mockIndexManager) List(_ context.Context) ([]domain.IndexInfo, error) {
	return m.infos, m.err
}

func (m *mockIndexManager) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockIndexManager) Clear(_ context.Context) (int, error) {
	return len(m.infos), m.err
}

func fruitSession() *mockSession {
	return &mockSession{
		answer: &domain.Answer{
			Question: "What color are bananas?",
			Text:     "Bananas are yellow.",
			Sources: []domain.ScoredChunk{
				{
					Chunk: domain.Chunk{
						Content:  "Bananas are yellow.",
						Metadata: map[string]any{domain.MetaPage: 2},
					},
					Score: 0.91,
				},
			},
		},
		info: driving.SessionInfo{
			Index: domain.IndexInfo{
				Key:         "abc123",
				DocumentURI: "/docs/fruit.pdf",
				Title:       "Fruit",
				Model:       "text-embedding-3-small",
				Dimensions:  1536,
				ChunkCount:  12,
				CreatedAt:   time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
			},
			Loaded: true,
		},
	}
}
