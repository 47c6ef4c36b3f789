package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose explanations to MCP clients",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve the explain and ask tools and the topics, cache and explanation
resources over the Model Context Protocol.

Stdio is the default transport. --port serves streamable HTTP at /mcp
instead, which the MCP Inspector can connect to.

  algomaster mcp serve
  algomaster mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "algomaster": {"command": "algomaster", "args": ["mcp", "serve"]}
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

	ports := &mcp.Ports{
		Explanations: explanationService,
		Catalog:      catalogService,
		NewSession:   newSession,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s%s\n", addr, mcp.EndpointPath)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
