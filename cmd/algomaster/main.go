// Package main is the algomaster entry point. It wires the driven adapters
// into the core services and hands them to the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/algomaster/internal/adapters/driven/ai"
	"github.com/custodia-labs/algomaster/internal/adapters/driven/catalog"
	"github.com/custodia-labs/algomaster/internal/adapters/driven/clock"
	"github.com/custodia-labs/algomaster/internal/adapters/driven/config/file"
	"github.com/custodia-labs/algomaster/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/algomaster/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/cli"
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
	"github.com/custodia-labs/algomaster/internal/core/services"
	"github.com/custodia-labs/algomaster/internal/logger"
)

// topicsFile overrides the built-in catalog when present in the config dir.
const topicsFile = "topics.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	dir, err := configDir(opts.ConfigDir)
	if err != nil {
		return nil, nil, err
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}

	var (
		warnings []string
		closers  []func()
	)
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	backend := settings.Cache.Backend
	if opts.Cache != "" {
		backend = opts.Cache
	}
	cache, closeCache, err := openCache(dir, backend)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("explanation cache unavailable, using memory: %v", err))
		cache = memory.NewExplanationCache()
	} else {
		closers = append(closers, closeCache)
	}

	promptDir := filepath.Join(dir, "prompts")
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("loading prompts: %w", err)
	}
	watcher := file.NewPromptWatcher(promptDir, prompts, file.WithLogger(logger.L()))
	if err := watcher.Start(ctx); err != nil {
		logger.Warn("Prompt hot reload disabled: %v", err)
	} else {
		closers = append(closers, watcher.Stop)
	}

	result := ai.Initialise(&settings.LLM, prompts, false)
	closers = append(closers, result.Close)
	warnings = append(warnings, result.Warnings...)

	topics, err := loadCatalog(dir)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("custom topics ignored: %v", err))
		topics = catalog.New()
	}

	explanations := services.NewExplanationService(cache, result.Generator)
	player := settings.Player

	return &cli.Services{
		Explanations: explanations,
		Catalog:      services.NewCatalogService(topics),
		Settings:     settingsService,
		NewSession: func() driving.LearningSession {
			return services.NewLearningSession(services.SessionConfig{
				Explanations: explanations,
				Assistant:    result.Assistant,
				Clock:        clock.New(),
				Settings:     player,
			})
		},
		Warnings: warnings,
		LogPath:  filepath.Join(dir, "algomaster.log"),
	}, release, nil
}

// configDir resolves the configuration directory, defaulting to ~/.algomaster.
func configDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".algomaster"), nil
}

func openCache(dir string, backend domain.CacheBackend) (driven.ExplanationCache, func(), error) {
	if backend == domain.CacheBackendMemory {
		return memory.NewExplanationCache(), func() {}, nil
	}
	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Explanation cache: %s", store.Path())
	return store.ExplanationCache(), func() { _ = store.Close() }, nil
}

// loadCatalog returns the user's topic catalog, or the built-in one when
// the config dir has none.
func loadCatalog(dir string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(filepath.Join(dir, topicsFile))
	if errors.Is(err, os.ErrNotExist) {
		return catalog.New(), nil
	}
	if err != nil {
		return nil, err
	}
	c := catalog.FromYAML(data)
	if _, err := c.Categories(); err != nil {
		return nil, err
	}
	return c, nil
}
