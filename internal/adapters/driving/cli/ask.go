package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// sourcePreviewLen bounds each source excerpt printed by --sources.
const sourcePreviewLen = 160

var askCmd = &cobra.Command{
	Use:   "ask <document> <question...>",
	Short: "Answer one question about a document",
	Long: `Answer a single question about a document and exit.

The index is built on first use and loaded on later runs.

Examples:
  docqa ask report.pdf What is the main conclusion?
  docqa ask --sources notes.md "Who approved the budget?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolP("sources", "s", false, "print the passages behind the answer")
	askCmd.Flags().Bool("rebuild", false, "discard any stored index and build again")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	showSources, err := cmd.Flags().GetBool("sources")
	if err != nil {
		return fmt.Errorf("getting sources flag: %w", err)
	}
	rebuild, err := cmd.Flags().GetBool("rebuild")
	if err != nil {
		return fmt.Errorf("getting rebuild flag: %w", err)
	}

	session, err := openSession(cmd.Context(), args[0], rebuild)
	if err != nil {
		return err
	}

	answer, err := session.Ask(cmd.Context(), strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("obtaining answer: %w", err)
	}

	cmd.Println(answer.Text)
	if showSources {
		printSources(cmd, answer.Sources)
	}
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.ScoredChunk) {
	if len(sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range sources {
		heading := fmt.Sprintf("  [%d]", i+1)
		if page := src.Chunk.Page(); page > 0 {
			heading += fmt.Sprintf(" page %d", page)
		}
		cmd.Printf("%s (score %.3f)\n", heading, src.Score)
		preview := strings.Join(strings.Fields(src.Chunk.Content), " ")
		cmd.Printf("      %s\n", list.Truncate(preview, sourcePreviewLen))
	}
}
