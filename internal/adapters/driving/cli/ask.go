package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

var askStep int

var askCmd = &cobra.Command{
	Use:   "ask [topic] [question]",
	Short: "Ask the tutor a question about a topic",
	Long: `Loads the topic, moves to the chosen step and asks the tutor one
question with that step as context.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askStep, "step", "s", 1, "step used as context (1-based)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireSessions(); err != nil {
		return err
	}

	ctx := cmd.Context()
	session := newSession()
	defer session.Close()

	if err := session.Search(ctx, args[0]); err != nil {
		return fmt.Errorf("%s: %w", describeError(err), err)
	}
	total := session.State().Total
	if askStep < 1 || askStep > total {
		return fmt.Errorf("%w: step %d out of range 1-%d", domain.ErrInvalidInput, askStep, total)
	}
	session.GoTo(askStep - 1)

	reply, err := session.Ask(ctx, strings.Join(args[1:], " "))
	if reply != "" {
		printMarkdown(cmd.OutOrStdout(), reply)
	}
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}
	return nil
}
