package summarizer

import (
	"context"
	"sync"

	"iwatcher/internal/config"
	"iwatcher/internal/logger"
)

type implSummarizer struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	// mu guards currentKey; one Summarizer is shared by all concurrent runs.
	mu         sync.Mutex
	currentKey int

	// generate is swapped out in tests.
	generate func(ctx context.Context, apiKey, prompt string) (string, error)
}

// New creates a Summarizer that rotates through the configured Gemini API
// keys on rate limits.
func New(cfg *config.Config, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys:  cfg.Secrets.GeminiAPIKeys,
		model:    cfg.Summarizer.Model,
		logger:   log,
		generate: generateGemini(cfg.Summarizer.Model),
	}
}
