package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/watch"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

const (
	chatPrompt  = "Ask a question: "
	chatExitCmd = "exit"
)

var chatCmd = &cobra.Command{
	Use:   "chat <document>",
	Short: "Ask questions about a document interactively",
	Long: `Start an interactive question loop for a document.

Each line is answered independently; there is no conversation memory.
Type 'exit' or press Ctrl+D to quit. With --watch the index is rebuilt
whenever the document changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolP("watch", "w", false, "reload the index when the document changes")
	chatCmd.Flags().Bool("rebuild", false, "discard any stored index and build again")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	watchDoc, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}
	rebuild, err := cmd.Flags().GetBool("rebuild")
	if err != nil {
		return fmt.Errorf("getting rebuild flag: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	session, err := openSession(ctx, args[0], rebuild)
	if err != nil {
		return err
	}
	printSessionSummary(cmd, session.Document())
	cmd.Println()

	current := &sessionHolder{session: session}

	if watchDoc {
		w := watch.New(args[0])
		defer w.Close()

		changes, err := w.Watch(ctx)
		if err != nil {
			return fmt.Errorf("watching document: %w", err)
		}
		go reloadOnChange(ctx, cmd.ErrOrStderr(), changes, current)
	}

	return chatLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), current)
}

// chatLoop answers one question per input line until exit, end of input
// or cancellation of ctx.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, current *sessionHolder) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nExiting.")
			return nil
		}
		fmt.Fprint(out, chatPrompt)

		var read lineRead
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting.")
			return nil
		case read = <-lines:
		}
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nExiting.")
			return nil
		}

		question := strings.TrimSpace(read.line)
		if read.err != nil && question == "" {
			if errors.Is(read.err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("reading question: %w", read.err)
		}

		if strings.EqualFold(question, chatExitCmd) {
			return nil
		}
		if question == "" {
			continue
		}

		answer, askErr := current.get().Answer(ctx, question)
		switch {
		case ctx.Err() != nil:
			fmt.Fprintln(out, "\nExiting.")
			return nil
		case askErr != nil:
			fmt.Fprintf(out, "Error obtaining answer: %v\n\n", askErr)
		default:
			fmt.Fprintf(out, "%s\n\n", answer)
		}

		if read.err != nil {
			// Final line without a newline.
			return nil
		}
	}
}

type lineRead struct {
	line string
	err  error
}

// readLines feeds input lines to the returned channel so the caller can
// select on cancellation while a read is blocked. It stops after the first
// read error or once done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan lineRead {
	lines := make(chan lineRead)
	go func() {
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			select {
			case lines <- lineRead{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// reloadOnChange rebuilds the session whenever the document is rewritten.
func reloadOnChange(ctx context.Context, errOut io.Writer, changes <-chan watch.Change, current *sessionHolder) {
	for change := range changes {
		switch change.Type {
		case watch.ChangeRemoved:
			fmt.Fprintf(errOut, "\nDocument %s was removed; answering from the last index.\n", change.Path)
		case watch.ChangeUpdated:
			session, err := indexBuilder.BuildOrLoad(ctx, change.Path)
			if err != nil {
				logger.Warn("reload %s: %v", change.Path, err)
				fmt.Fprintf(errOut, "\nCould not reload %s: %v\n", change.Path, err)
				continue
			}
			current.set(session)
			fmt.Fprintf(errOut, "\nReloaded %s (%d chunks).\n",
				change.Path, session.Document().Index.ChunkCount)
		}
	}
}

// sessionHolder swaps the active session between questions.
type sessionHolder struct {
	mu      sync.RWMutex
	session driving.QASession
}

func (h *sessionHolder) get() driving.QASession {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

func (h *sessionHolder) set(s driving.QASession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = s
}
