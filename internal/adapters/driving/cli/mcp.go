package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medvault-labs/medvault-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for exposing the vault over the Model Context Protocol (MCP).`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can query
the vault: the ask tool answers questions over your documents, and
medvault:// resources expose document content and summaries.

By default the server speaks JSON-RPC over stdio, which is what
Claude Desktop and similar clients expect. Pass --port to serve over
HTTP instead (useful with the MCP Inspector web UI).

Examples:
  # Stdio mode (default, for Claude Desktop)
  medvault mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  medvault mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "medvault": {
        "command": "/path/to/medvault",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Assistant: assistantService,
		Document:  documentService,
		Ingest:    ingestService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
