package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve <document>",
	Short: "Serve one document to MCP clients",
	Long: `Index the document, then serve it over the Model Context Protocol.

Clients get an "ask" tool that answers from the document, a resource
describing it, and, when storage is available, a list of stored indices.

The server speaks JSON-RPC on stdio unless --http or --port is given.`,
	Example: `  # stdio, for desktop assistants
  docqa mcp serve handbook.pdf

  # streamable HTTP on localhost:8080
  docqa mcp serve handbook.pdf --port 8080

  # assistant config entry
  {"command": "docqa", "args": ["mcp", "serve", "/abs/path/handbook.pdf"]}`,
	Args: cobra.ExactArgs(1),
	RunE: runMCPServe,
}

func init() {
	flags := mcpServeCmd.Flags()
	flags.IntP("port", "p", 0, "serve HTTP on localhost at this port")
	flags.String("http", "", "serve HTTP at this address (host:port)")
	mcpServeCmd.MarkFlagsMutuallyExclusive("port", "http")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// listenAddr resolves the HTTP address from the flags; "" selects stdio.
func listenAddr(cmd *cobra.Command) (string, error) {
	addr, _ := cmd.Flags().GetString("http") //nolint:errcheck // registered in init
	port, _ := cmd.Flags().GetInt("port")    //nolint:errcheck // registered in init
	switch {
	case addr != "":
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return "", fmt.Errorf("invalid --http address %q: %w", addr, err)
		}
		return addr, nil
	case port < 0 || port > 65535:
		return "", fmt.Errorf("invalid --port %d", port)
	case port > 0:
		return net.JoinHostPort("localhost", strconv.Itoa(port)), nil
	}
	return "", nil
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	addr, err := listenAddr(cmd)
	if err != nil {
		return err
	}

	session, err := openSession(cmd.Context(), args[0], false)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Session: session, Indexes: indexService})
	if err != nil {
		return err
	}

	if addr == "" {
		return server.Run(cmd.Context())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
