package services

import (
	"os"
	"time"

	"github.com/ferrule-labs/quaero/internal/core/domain"
	"github.com/ferrule-labs/quaero/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedDimensions  = "embedding.dimensions"
	keyEmbedBatchSize   = "embedding.batch_size"
	keyEmbedInterval    = "embedding.min_request_interval"
	keyEmbedBaseDelay   = "embedding.base_delay"
	keyEmbedMaxRetries  = "embedding.max_retries"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMInterval      = "llm.min_request_interval"
	keyLLMBaseDelay     = "llm.base_delay"
	keyLLMMaxRetries    = "llm.max_retries"
	keyChunkSize        = "chunking.size"
	keyChunkOverlap     = "chunking.overlap"
	keyTopK             = "retrieval.top_k"
	keyMaxContextLength = "retrieval.max_context_length"
	keyIndexPath        = "index.path"
)

// Environment variables consulted for API keys when the config file
// leaves them unset.
const (
	envMistralAPIKey = "MISTRAL_API_KEY"
	envOpenAIAPIKey  = "OPENAI_API_KEY"
)

// SettingsService resolves effective application settings: config file
// values over defaults, API keys falling back to the environment.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a settings service over the config store.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get resolves the effective settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			Dimensions: s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
			BatchSize:  s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			Client: domain.ClientSettings{
				MinInterval: s.getSeconds(keyEmbedInterval, defaults.Embedding.Client.MinInterval),
				BaseDelay:   s.getSeconds(keyEmbedBaseDelay, defaults.Embedding.Client.BaseDelay),
				MaxRetries:  s.getInt(keyEmbedMaxRetries, defaults.Embedding.Client.MaxRetries),
			},
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			Client: domain.ClientSettings{
				MinInterval: s.getSeconds(keyLLMInterval, defaults.LLM.Client.MinInterval),
				BaseDelay:   s.getSeconds(keyLLMBaseDelay, defaults.LLM.Client.BaseDelay),
				MaxRetries:  s.getInt(keyLLMMaxRetries, defaults.LLM.Client.MaxRetries),
			},
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:             s.getInt(keyTopK, defaults.Retrieval.TopK),
			MaxContextLength: s.getInt(keyMaxContextLength, defaults.Retrieval.MaxContextLength),
		},
		IndexPath: s.configStore.GetString(keyIndexPath),
	}

	settings.Embedding.APIKey = s.getAPIKey(keyEmbedAPIKey, settings.Embedding.Provider)
	settings.LLM.APIKey = s.getAPIKey(keyLLMAPIKey, settings.LLM.Provider)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// getAPIKey prefers the config file, then the provider's environment
// variable.
func (s *SettingsService) getAPIKey(key string, provider domain.AIProvider) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	switch provider {
	case domain.AIProviderMistral:
		return os.Getenv(envMistralAPIKey)
	case domain.AIProviderOpenAI:
		return os.Getenv(envOpenAIAPIKey)
	default:
		return ""
	}
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if v := s.configStore.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

func (s *SettingsService) getSeconds(key string, fallback time.Duration) time.Duration {
	if v := s.configStore.GetFloat(key); v > 0 {
		return time.Duration(v * float64(time.Second))
	}
	return fallback
}

func (s *SettingsService) getProvider(key string, fallback domain.AIProvider) domain.AIProvider {
	v := domain.AIProvider(s.configStore.GetString(key))
	if v.IsValid() {
		return v
	}
	return fallback
}
