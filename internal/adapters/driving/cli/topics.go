package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

var (
	topicsJSON   bool
	topicsSearch string
)

var topicsCmd = &cobra.Command{
	Use:   "topics [category]",
	Short: "List suggested topics",
	Long:  `Lists the topic catalog, optionally limited to one category.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTopics,
}

func init() {
	topicsCmd.Flags().BoolVar(&topicsJSON, "json", false, "output topics as JSON")
	topicsCmd.Flags().StringVarP(&topicsSearch, "find", "f", "", "only topics whose name contains this text")
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	var (
		topics []domain.Topic
		err    error
	)
	switch {
	case topicsSearch != "":
		topics, err = catalogService.Find(topicsSearch)
	case len(args) == 1:
		topics, err = catalogService.Topics(args[0])
	default:
		topics, err = catalogService.Topics("")
	}
	if err != nil {
		return fmt.Errorf("failed to list topics: %w", err)
	}

	if topicsJSON {
		data, err := json.MarshalIndent(topics, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal topics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(topics) == 0 {
		cmd.Println("No topics found.")
		return nil
	}

	current := ""
	for _, t := range topics {
		if t.Category != current {
			if current != "" {
				cmd.Println()
			}
			current = t.Category
			cmd.Printf("%s\n", current)
		}
		cmd.Printf("  - %s\n", t.Name)
	}
	return nil
}
