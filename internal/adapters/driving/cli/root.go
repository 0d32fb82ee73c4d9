// Package cli implements the quaero command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ferrule-labs/quaero/internal/adapters/driven/ai"
	configfile "github.com/ferrule-labs/quaero/internal/adapters/driven/config/file"
	"github.com/ferrule-labs/quaero/internal/adapters/driven/storage/sqlite"
	vectorfile "github.com/ferrule-labs/quaero/internal/adapters/driven/vector/file"
	"github.com/ferrule-labs/quaero/internal/chunker"
	"github.com/ferrule-labs/quaero/internal/connectors/web"
	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
	"github.com/ferrule-labs/quaero/internal/core/ports/driving"
	"github.com/ferrule-labs/quaero/internal/core/services"
	"github.com/ferrule-labs/quaero/internal/logger"
	"github.com/ferrule-labs/quaero/internal/ratelimit"
)

// version is set at build time via -ldflags.
var version = "dev"

// Package-level services, wired by initServices and replaceable in tests.
var (
	ingestService driving.IngestService
	answerService driving.AnswerService
	adminService  driving.AdminService

	settings *domain.AppSettings
	teardown []func() error
)

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "quaero",
	Short: "Ask questions over your own documents",
	Long: `Quaero is a retrieval-augmented generation (RAG) tool.
Ingest documents, web pages or raw text into a local vector index,
then ask natural-language questions answered with citations.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "",
		"config directory (default ~/.quaero)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires the service graph. AI providers are created and
// ping-validated only when the command will call them.
func initServices(needAI bool) error {
	if ingestService != nil || answerService != nil || adminService != nil {
		return nil // already wired (tests)
	}

	configStore, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	settings, err = services.NewSettingsService(configStore).Get()
	if err != nil {
		return err
	}

	dataDir := filepath.Dir(configStore.Path())
	indexPath := settings.IndexPath
	if indexPath == "" {
		indexPath = filepath.Join(dataDir, "data", vectorfile.DefaultFileName)
	}

	index, err := vectorfile.New(indexPath, settings.Embedding.Dimensions)
	if err != nil {
		return fmt.Errorf("opening vector index: %w", err)
	}
	teardown = append(teardown, index.Close)

	sourceStore, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
	if err != nil {
		return fmt.Errorf("opening source registry: %w", err)
	}
	teardown = append(teardown, sourceStore.Close)

	embedLimiter := ratelimit.New(ratelimit.Config{
		MinInterval: settings.Embedding.Client.MinInterval,
		BaseDelay:   settings.Embedding.Client.BaseDelay,
		MaxRetries:  settings.Embedding.Client.MaxRetries,
	})
	llmLimiter := ratelimit.New(ratelimit.Config{
		MinInterval: settings.LLM.Client.MinInterval,
		BaseDelay:   settings.LLM.Client.BaseDelay,
		MaxRetries:  settings.LLM.Client.MaxRetries,
	})

	embedProvider, llmProvider, err := createProviders(needAI)
	if err != nil {
		return err
	}

	embedder := services.NewEmbedder(embedProvider, embedLimiter, settings.Embedding.BatchSize)
	generator := services.NewGenerator(llmProvider, llmLimiter)

	ingest := services.NewIngestService(
		chunker.New(
			chunker.WithSize(settings.Chunking.Size),
			chunker.WithOverlap(settings.Chunking.Overlap),
		),
		embedder, index, sourceStore,
	)
	ingest.SetFetcher(web.NewFetcher(web.Config{}))

	ingestService = ingest
	answerService = services.NewAnswerService(embedder, generator, index, settings.Retrieval)
	adminService = services.NewAdminService(index, sourceStore, embedder, generator)
	return nil
}

// createProviders builds both AI providers, ping-validated. Commands
// that never call the providers (stats, clear) pass needAI false and
// get nil providers, so they work without API keys configured.
func createProviders(needAI bool) (driven.EmbeddingService, driven.LLMService, error) {
	if !needAI {
		return nil, nil, nil
	}

	embed, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, nil, err
	}
	teardown = append(teardown, embed.Close)

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		return nil, nil, err
	}
	teardown = append(teardown, llm.Close)
	return embed, llm, nil
}

// closeServices runs the accumulated teardown callbacks.
func closeServices() {
	for i := len(teardown) - 1; i >= 0; i-- {
		if err := teardown[i](); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}
	teardown = nil
}
