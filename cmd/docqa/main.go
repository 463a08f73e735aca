// Command docqa answers questions about a document.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	vectormemory "github.com/custodia-labs/docqa/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/extractors"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires adapters into the core services.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	promptStore, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	var store driven.IndexStore
	if opts.Ephemeral {
		store = memory.NewIndexStore()
	} else {
		sqliteStore, err := sqlite.NewStore(opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening index database: %w", err)
		}
		logger.Debug("index database: %s", sqliteStore.Path())
		store = sqliteStore
	}

	result := &cli.Services{
		Settings: settingsService,
		Indexes:  services.NewIndexService(store),
	}

	if err := settings.Validate(); err != nil {
		result.BuilderErr = err
		result.Close = func() { _ = store.Close() }
		return result, nil
	}

	aiServices, err := ai.Init(settings)
	if err != nil {
		logger.Debug("AI services unavailable: %v", err)
		result.BuilderErr = err
		result.Close = func() { _ = store.Close() }
		return result, nil
	}

	synthesizer := services.NewSynthesizer(aiServices.LLMService, settings.LLM.MaxContextChars, settings.LLM.MaxTokens)
	synthesizer.SetPromptStore(promptStore)

	result.Builder = services.NewIndexBuilder(
		extractors.NewDefaultRegistry(),
		chunker.New(
			chunker.WithChunkSize(settings.Chunking.Size),
			chunker.WithOverlap(settings.Chunking.Overlap),
		),
		aiServices.EmbeddingService,
		store,
		vectormemory.Factory{},
		synthesizer,
		services.BuilderConfig{
			BatchSize: settings.Embedding.BatchSize,
			TopK:      settings.Retrieval.TopK,
		},
	)
	result.Close = func() {
		aiServices.Close()
		_ = store.Close()
	}

	return result, nil
}
