package cli

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui"
	"github.com/custodia-labs/algomaster/internal/logger"
)

var tuiExportDir string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [topic]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Pick or type a topic, step through its explanation with the player and
ask the AI tutor about key terms or any part of the visual.

Controls:
  ←/h, →/l   Previous / next step
  space      Play / pause (advances every few seconds)
  tab        Focus the next key term
  [ / ]      Select a node, point or cell in the visual
  enter      Ask the tutor about the focused item
  c          Open the chat
  d          Show the dataset
  r          Regenerate the explanation
  ?          Toggle help
  q          Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiExportDir, "export-dir", ".", "directory for exported chat transcripts")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	if err := requireSessions(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if logger.IsVerbose() && logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logger.SetOutput(f)
		defer func() {
			logger.SetOutput(os.Stderr)
			_ = f.Close()
		}()
		cmd.PrintErrf("Verbose logs are written to %s\n", logPath)
	}

	session := newSession()
	defer session.Close()

	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		cmd.PrintErrf("Loading %s...\n", args[0])
		if err := session.Search(cmd.Context(), args[0]); err != nil {
			// The browser shows the failure and lets the user retry.
			cmd.PrintErrf("Warning: %s\n", describeError(err))
		}
	}

	app, err := tui.NewApp(tui.NewPorts(session, catalogService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context()).WithExportDir(tuiExportDir)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
