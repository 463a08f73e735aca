// Package messages defines the Bubble Tea messages passed between the
// TUI app and the ask view.
package messages

import (
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QuestionSubmitted is sent when the user asks a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerCompleted carries the session's answer back to the model.
// Elapsed covers retrieval and synthesis.
type AnswerCompleted struct {
	Question string
	Answer   *domain.Answer
	Err      error
	Elapsed  time.Duration
}

// Failed reports whether the question could not be answered.
func (m AnswerCompleted) Failed() bool {
	return m.Err != nil || m.Answer == nil
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
