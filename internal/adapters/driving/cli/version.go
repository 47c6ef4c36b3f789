package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/core/domain"
)

var versionBuild bool

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: map[string]string{annotationNoServices: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("algomaster version %s\n", version)
		if versionBuild {
			cmd.Printf("  go:           %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			cmd.Printf("  cache format: %s\n", strings.TrimSuffix(domain.CacheKeyPrefix, "_"))
		}
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionBuild, "build", "b", false, "also print build and cache format details")
	rootCmd.AddCommand(versionCmd)
}
