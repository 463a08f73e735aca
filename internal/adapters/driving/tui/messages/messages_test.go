package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestAnswerCompleted_Failed(t *testing.T) {
	tests := []struct {
		name string
		msg  AnswerCompleted
		want bool
	}{
		{
			name: "answer",
			msg:  AnswerCompleted{Question: "q", Answer: &domain.Answer{Text: "a"}},
			want: false,
		},
		{
			name: "error",
			msg:  AnswerCompleted{Question: "q", Err: errors.New("boom")},
			want: true,
		},
		{
			name: "neither",
			msg:  AnswerCompleted{Question: "q"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.Failed())
		})
	}
}

func TestMessages_CarryPayload(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, "why?", QuestionSubmitted{Question: "why?"}.Question)
	assert.Equal(t, err, ErrorOccurred{Err: err}.Err)
	assert.Equal(t, Quit{}, Quit{})
}
