package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached explanations",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached explanations",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete [topic]",
	Short: "Remove one cached explanation",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheDelete,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached explanation",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	if err := requireExplanations(); err != nil {
		return err
	}

	entries, err := explanationService.Cached(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("Cache is empty.")
		return nil
	}

	for _, e := range entries {
		cmd.Printf("  %-32s %8s  %s\n", e.Term(), formatBytes(e.Size), e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	cmd.Printf("\n%d cached explanation(s)\n", len(entries))
	return nil
}

func runCacheDelete(cmd *cobra.Command, args []string) error {
	if err := requireExplanations(); err != nil {
		return err
	}

	if err := explanationService.Forget(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%q is not cached", args[0])
		}
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	cmd.Printf("Removed %q from the cache.\n", args[0])
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if err := requireExplanations(); err != nil {
		return err
	}

	if err := explanationService.ClearCache(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	cmd.Println("Cache cleared.")
	return nil
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
