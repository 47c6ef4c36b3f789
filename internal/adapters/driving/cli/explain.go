package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

var (
	explainRefresh bool
	explainJSON    bool
	explainStep    int
)

var explainCmd = &cobra.Command{
	Use:   "explain [topic]",
	Short: "Explain an algorithm step by step",
	Long: `Prints the step-by-step explanation of a topic.

The local cache is consulted first; a cache miss generates the explanation
with the configured LLM and stores it. Use --refresh to regenerate.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().BoolVarP(&explainRefresh, "refresh", "r", false, "regenerate instead of using the cache")
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "output the explanation document as JSON")
	explainCmd.Flags().IntVarP(&explainStep, "step", "s", 0, "show only this step (1-based)")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	if err := requireExplanations(); err != nil {
		return err
	}

	doc, source, err := explanationService.Explain(cmd.Context(), args[0], driving.ExplainOptions{Refresh: explainRefresh})
	if err != nil {
		return fmt.Errorf("%s: %w", describeError(err), err)
	}
	if explainStep < 0 || explainStep > doc.StepCount() {
		return fmt.Errorf("%w: step %d out of range 1-%d", domain.ErrInvalidInput, explainStep, doc.StepCount())
	}

	if explainJSON {
		var v any = doc
		if explainStep > 0 {
			v = doc.Steps[explainStep-1]
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal explanation: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if source == domain.SourceCache {
		cmd.PrintErrln("(cached)")
	}
	printMarkdown(cmd.OutOrStdout(), explanationMarkdown(doc, explainStep))
	return nil
}
