package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure Session implements the interface.
var _ driving.QASession = (*Session)(nil)

// Session answers questions about one indexed document.
// Its vector index is never modified after the session is created.
type Session struct {
	info        driving.SessionInfo
	retriever   *Retriever
	synthesizer *Synthesizer
}

// NewSession composes a retriever and a synthesizer into a session.
func NewSession(info driving.SessionInfo, retriever *Retriever, synthesizer *Synthesizer) *Session {
	return &Session{
		info:        info,
		retriever:   retriever,
		synthesizer: synthesizer,
	}
}

// Answer returns the model's answer to question, unfiltered.
func (s *Session) Answer(ctx context.Context, question string) (string, error) {
	answer, err := s.Ask(ctx, question)
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

// Ask answers question and reports the chunks retrieved for it.
// A blank question fails with domain.ErrInvalidQuestion before any service is called.
func (s *Session) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidQuestion)
	}

	chunks, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	text, err := s.synthesizer.Synthesize(ctx, question, chunks)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		Question: question,
		Text:     text,
		Sources:  chunks,
	}, nil
}

// Document describes the document and index behind the session.
func (s *Session) Document() driving.SessionInfo {
	return s.info
}
