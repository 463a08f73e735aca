package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// shortKeyLen is how much of a document key is shown in listings.
const shortKeyLen = 12

var indexCmd = &cobra.Command{
	Use:   "index <document>",
	Short: "Build or load the index for a document",
	Long: `Build the vector index for a document, or load it if the same content
was indexed before with the configured embedding model.

Use --rebuild to discard a stored index and embed the document again, for
example after a corrupt index error.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored indices",
	Args:  cobra.NoArgs,
	RunE:  runIndexList,
}

var indexDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a stored index",
	Long:  `Delete the stored index with the given document key or unambiguous key prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexDelete,
}

var indexClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored index",
	Args:  cobra.NoArgs,
	RunE:  runIndexClear,
}

func init() {
	indexCmd.Flags().Bool("rebuild", false, "discard any stored index and build again")
	indexCmd.AddCommand(indexListCmd)
	indexCmd.AddCommand(indexDeleteCmd)
	indexCmd.AddCommand(indexClearCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	rebuild, err := cmd.Flags().GetBool("rebuild")
	if err != nil {
		return fmt.Errorf("getting rebuild flag: %w", err)
	}

	session, err := openSession(cmd.Context(), args[0], rebuild)
	if err != nil {
		return err
	}

	printSessionSummary(cmd, session.Document())
	return nil
}

func printSessionSummary(cmd *cobra.Command, info driving.SessionInfo) {
	if info.Loaded {
		cmd.Println("Loaded existing index.")
	} else {
		cmd.Println("Created new index.")
	}
	cmd.Printf("  Document: %s\n", info.Index.DocumentURI)
	cmd.Printf("  Key:      %s\n", shortKey(info.Index.Key))
	cmd.Printf("  Chunks:   %d\n", info.Index.ChunkCount)
	cmd.Printf("  Model:    %s (%d dimensions)\n", info.Index.Model, info.Index.Dimensions)
}

func runIndexList(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	infos, err := indexService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list indices: %w", err)
	}

	if len(infos) == 0 {
		cmd.Println("No indices stored.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tCHUNKS\tMODEL\tCREATED\tDOCUMENT")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			shortKey(info.Key),
			info.ChunkCount,
			info.Model,
			info.CreatedAt.Local().Format(time.DateTime),
			info.DocumentURI,
		)
	}
	return w.Flush()
}

func runIndexDelete(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	if err := indexService.Delete(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no index matches %q", args[0])
		}
		return fmt.Errorf("failed to delete index: %w", err)
	}

	cmd.Printf("Deleted index %s\n", args[0])
	return nil
}

func runIndexClear(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	n, err := indexService.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear indices: %w", err)
	}

	cmd.Printf("Deleted %d indices\n", n)
	return nil
}

func shortKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) > shortKeyLen {
		return key[:shortKeyLen]
	}
	return key
}
