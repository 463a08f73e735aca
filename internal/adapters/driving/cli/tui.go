package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <document>",
	Short: "Launch the interactive terminal UI",
	Long: `Open a document in a full-screen question and answer view.

Keys:
  enter        ask the typed question
  up/down      recall earlier questions
  tab          show or hide the passages behind the answer
  pgup/pgdn    scroll the answer
  esc          clear the question
  ctrl+c       quit`,
	Example: `  docqa tui handbook.pdf
  docqa tui notes.md -q "What changed in March?"`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Bool("rebuild", false, "discard any stored index and build again")
	tuiCmd.Flags().StringP("question", "q", "", "question to ask on start")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	flags := cmd.Flags()
	rebuild, _ := flags.GetBool("rebuild")     //nolint:errcheck // registered above
	question, _ := flags.GetString("question") //nolint:errcheck // registered above

	// Index before entering the alt screen so build progress stays visible.
	session, err := openSession(cmd.Context(), args[0], rebuild)
	if err != nil {
		return err
	}

	app, err := tui.New(session, tui.WithContext(cmd.Context()), tui.WithQuestion(question))
	if err != nil {
		return err
	}

	// A panic inside bubbletea leaves the terminal in raw mode; report it
	// after the program has restored the screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "tui crashed: %v\n%s\n", r, debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()
	if err := app.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
