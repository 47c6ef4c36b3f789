// Package cli implements the algomaster command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
	"github.com/custodia-labs/algomaster/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// annotationNoServices marks commands that run without wiring services.
const annotationNoServices = "algomaster/no-services"

// Options carries the persistent flags needed to wire services.
type Options struct {
	ConfigDir string
	Cache     domain.CacheBackend
}

// Services is the set of driving ports the commands use.
type Services struct {
	Explanations driving.ExplanationService
	Catalog      driving.CatalogService
	Settings     driving.SettingsService
	// NewSession creates an independent learning session.
	NewSession func() driving.LearningSession
	// Warnings are shown once before the command runs.
	Warnings []string
	// LogPath receives verbose logs while the TUI owns the terminal.
	LogPath string
}

// Bootstrap wires services for opts. The returned cleanup releases them.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	explanationService driving.ExplanationService
	catalogService     driving.CatalogService
	settingsService    driving.SettingsService
	newSession         func() driving.LearningSession
	logPath            string

	bootstrap Bootstrap
	cleanup   func()
)

var (
	verbose   bool
	configDir string
	cacheFlag string
)

var rootCmd = &cobra.Command{
	Use:   "algomaster",
	Short: "Learn machine learning algorithms step by step",
	Long: `algomaster explains machine learning algorithms as short, visual,
step-by-step walkthroughs generated by an LLM, and answers follow-up
questions about each step.

Explanations are cached locally, so a topic is only generated once
unless it is refreshed.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.algomaster)")
	rootCmd.PersistentFlags().StringVar(&cacheFlag, "cache", "", "cache backend override: sqlite or memory")
}

// SetBootstrap installs the function that wires services before a command runs.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		explanationService, catalogService, settingsService, newSession = nil, nil, nil, nil
		logPath = ""
		return
	}
	explanationService = s.Explanations
	catalogService = s.Catalog
	settingsService = s.Settings
	newSession = s.NewSession
	logPath = s.LogPath
}

// Execute runs the root command and releases wired services.
func Execute(ctx context.Context) error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationNoServices] == "true" || bootstrap == nil || cleanup != nil {
		return nil
	}

	opts := Options{ConfigDir: configDir}
	if cacheFlag != "" {
		opts.Cache = domain.CacheBackend(cacheFlag)
		if !opts.Cache.IsValid() {
			return fmt.Errorf("invalid --cache %q: use sqlite or memory", cacheFlag)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, release, err := bootstrap(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(svc)
	cleanup = release
	if cleanup == nil {
		cleanup = func() {}
	}
	for _, w := range svc.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	return nil
}

// describeError turns domain errors into short user-facing messages.
func describeError(err error) string {
	var rl *domain.RateLimitError
	switch {
	case errors.As(err, &rl):
		return "the LLM provider is rate limiting requests, try again shortly"
	case errors.Is(err, domain.ErrLLMUnavailable):
		return "no LLM provider is configured, run 'algomaster settings llm'"
	case errors.Is(err, domain.ErrGeneration):
		return domain.GenerationFailedMessage
	case errors.Is(err, domain.ErrChat):
		return domain.ChatFallback
	case errors.Is(err, domain.ErrBusy):
		return "another request is still running"
	default:
		return err.Error()
	}
}

func requireExplanations() error {
	if explanationService == nil {
		return errors.New("explanation service not configured")
	}
	return nil
}

func requireSessions() error {
	if newSession == nil {
		return errors.New("learning sessions not configured")
	}
	return nil
}
