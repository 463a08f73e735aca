package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vectormemory "github.com/custodia-labs/docqa/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

func TestSession_EmptyQuestion(t *testing.T) {
	f := newBuilderFixture(t, BuilderConfig{})
	session, err := f.builder.BuildOrLoad(context.Background(), writeDoc(t, "fruit.txt", fruitText))
	require.NoError(t, err)
	embedsBefore, _ := f.embedder.calls()

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := session.Answer(context.Background(), q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuestion)
	}

	embedsAfter, _ := f.embedder.calls()
	assert.Equal(t, embedsBefore, embedsAfter)
	assert.Zero(t, f.llm.calls)
}

func TestSession_SynthesisFailure(t *testing.T) {
	f := newBuilderFixture(t, BuilderConfig{})
	session, err := f.builder.BuildOrLoad(context.Background(), writeDoc(t, "fruit.txt", fruitText))
	require.NoError(t, err)
	key := session.Document().Index.Key

	before, err := f.store.Read(context.Background(), key)
	require.NoError(t, err)

	f.llm.err = errors.New("upstream 503")
	_, err = session.Answer(context.Background(), "What color are bananas?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSynthesis)
	assert.Equal(t, 1, f.llm.calls)

	after, err := f.store.Read(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	f.llm.err = nil
	answer, err := session.Answer(context.Background(), "What color are bananas?")
	require.NoError(t, err)
	assert.Contains(t, answer, "yellow")
}

func TestSession_AnswerTrimsQuestion(t *testing.T) {
	f := newBuilderFixture(t, BuilderConfig{})
	session, err := f.builder.BuildOrLoad(context.Background(), writeDoc(t, "fruit.txt", fruitText))
	require.NoError(t, err)

	answer, err := session.Ask(context.Background(), "  What color are bananas?  ")
	require.NoError(t, err)
	assert.Equal(t, "What color are bananas?", answer.Question)
	assert.Contains(t, f.llm.lastPrompt(), "Question: What color are bananas?\n")
}

func TestSession_ConcurrentAsk(t *testing.T) {
	f := newBuilderFixture(t, BuilderConfig{})
	session, err := f.builder.BuildOrLoad(context.Background(), writeDoc(t, "fruit.txt", fruitText))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = session.Ask(context.Background(), fmt.Sprintf("What color are bananas? (%d)", i))
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, len(errs), f.llm.calls)
}

func TestSession_EmptyIndexStillAsksModel(t *testing.T) {
	llm := &fakeLLM{}
	session := NewSession(
		driving.SessionInfo{Index: domain.IndexInfo{Key: "empty"}},
		NewRetriever(newKeywordEmbedder(), vectormemory.New(), 4),
		NewSynthesizer(llm, 0, 0),
	)

	answer, err := session.Ask(context.Background(), "What color are apples?")

	require.NoError(t, err)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, "I don't know.", answer.Text)
	assert.Equal(t, 1, llm.calls)
}
