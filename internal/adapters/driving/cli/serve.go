package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/httpapi"
)

var (
	serveAddr     string
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts an HTTP API for browser front ends. One learning session is
shared by all clients; player state changes are streamed on /ws.

Examples:
  algomaster serve
  algomaster serve --addr :8080 --allow-all-origins`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", httpapi.DefaultAddr, "listen address")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow cross-origin requests from any origin")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireSessions(); err != nil {
		return err
	}

	session := newSession()
	defer session.Close()

	server, err := httpapi.NewServer(
		httpapi.Config{Addr: serveAddr, AllowAll: serveAllowAll},
		&httpapi.Ports{Session: session, Catalog: catalogService},
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "HTTP API listening on http://%s\n", server.Addr())
	return server.Run(ctx)
}
