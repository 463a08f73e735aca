package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driving/watch"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestChatLoop(t *testing.T) {
	session := &MockSession{Info: fruitInfo()}
	out := new(bytes.Buffer)

	err := chatLoop(context.Background(),
		strings.NewReader("What color are bananas?\n\n   \nexit\nnever asked\n"),
		out, &sessionHolder{session: session})

	require.NoError(t, err)
	assert.Equal(t, []string{"What color are bananas?"}, session.Questions)
	assert.Equal(t, 4, strings.Count(out.String(), chatPrompt))
	assert.Contains(t, out.String(), "Bananas are yellow.")
}

func TestChatLoop_ErrorContinues(t *testing.T) {
	session := &MockSession{Info: fruitInfo()}
	calls := 0
	session.AskFunc = func(_ context.Context, question string) (*domain.Answer, error) {
		calls++
		if calls == 1 {
			return nil, domain.ErrSynthesis
		}
		return &domain.Answer{Question: question, Text: "second answer"}, nil
	}
	out := new(bytes.Buffer)

	err := chatLoop(context.Background(), strings.NewReader("first\nsecond\n"), out, &sessionHolder{session: session})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Error obtaining answer: "+domain.ErrSynthesis.Error())
	assert.Contains(t, out.String(), "second answer")
	assert.Equal(t, 2, calls)
}

func TestChatLoop_LastLineWithoutNewline(t *testing.T) {
	session := &MockSession{Info: fruitInfo()}
	out := new(bytes.Buffer)

	err := chatLoop(context.Background(), strings.NewReader("What color are bananas?"), out, &sessionHolder{session: session})

	require.NoError(t, err)
	assert.Equal(t, []string{"What color are bananas?"}, session.Questions)
}

func TestChatLoop_ExitIsCaseInsensitive(t *testing.T) {
	session := &MockSession{Info: fruitInfo()}

	err := chatLoop(context.Background(), strings.NewReader("EXIT\nquestion\n"), new(bytes.Buffer), &sessionHolder{session: session})

	require.NoError(t, err)
	assert.Empty(t, session.Questions)
}

func TestChatLoop_CancelledContext(t *testing.T) {
	session := &MockSession{Info: fruitInfo()}
	out := new(bytes.Buffer)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := chatLoop(ctx, strings.NewReader("\nWhat color are bananas?\nsecond\nexit\n"), out, &sessionHolder{session: session})

	require.NoError(t, err)
	assert.Empty(t, session.Questions)
	assert.Contains(t, out.String(), "Exiting.")
}

func TestChatLoop_CancelWhileWaiting(t *testing.T) {
	session := &MockSession{Info: fruitInfo()}
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() {
		result <- chatLoop(ctx, pr, io.Discard, &sessionHolder{session: session})
	}()
	cancel()

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("chat loop kept waiting for input after cancellation")
	}
	assert.Empty(t, session.Questions)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("terminal gone")
}

func TestChatLoop_ReadError(t *testing.T) {
	session := &MockSession{Info: fruitInfo()}

	err := chatLoop(context.Background(), failingReader{}, new(bytes.Buffer), &sessionHolder{session: session})

	assert.ErrorContains(t, err, "terminal gone")
}

func TestChatCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "What color are bananas?\nexit\n", "chat", "fruit.txt")

	require.NoError(t, err)
	assert.Contains(t, out, "Created new index.")
	assert.Contains(t, out, "Bananas are yellow.")
	assert.Equal(t, []string{"What color are bananas?"}, ts.Session.Questions)
}

func TestChatCmd_DocumentNotFound(t *testing.T) {
	ts := setupTestServices(t)
	ts.Builder.Err = domain.ErrDocumentNotFound

	_, err := executeCommand(t, "", "chat", "/no/such/file.pdf")

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestReloadOnChange(t *testing.T) {
	ts := setupTestServices(t)
	replacement := &MockSession{Info: fruitInfo()}
	replacement.Info.Index.ChunkCount = 9
	ts.Builder.Session = replacement

	holder := &sessionHolder{session: ts.Session}
	changes := make(chan watch.Change, 2)
	changes <- watch.Change{Path: "/docs/fruit.txt", Type: watch.ChangeRemoved}
	changes <- watch.Change{Path: "/docs/fruit.txt", Type: watch.ChangeUpdated}
	close(changes)
	errOut := new(bytes.Buffer)

	reloadOnChange(context.Background(), errOut, changes, holder)

	assert.Same(t, replacement, holder.get())
	assert.Equal(t, []string{"/docs/fruit.txt"}, ts.Builder.Opened)
	assert.Contains(t, errOut.String(), "was removed")
	assert.Contains(t, errOut.String(), "Reloaded /docs/fruit.txt (9 chunks).")
}

func TestReloadOnChange_KeepsSessionOnError(t *testing.T) {
	ts := setupTestServices(t)
	ts.Builder.Err = domain.ErrEmptyDocument

	holder := &sessionHolder{session: ts.Session}
	changes := make(chan watch.Change, 1)
	changes <- watch.Change{Path: "/docs/fruit.txt", Type: watch.ChangeUpdated}
	close(changes)
	errOut := new(bytes.Buffer)

	reloadOnChange(context.Background(), errOut, changes, holder)

	assert.Same(t, ts.Session, holder.get())
	assert.Contains(t, errOut.String(), "Could not reload")
}
