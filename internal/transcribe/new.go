package transcribe

import (
	"net/http"
	"time"

	"iwatcher/internal/config"
	"iwatcher/internal/logger"
)

type implClient struct {
	baseURL      string
	apiKey       string
	diarization  bool
	pollInterval time.Duration
	pollDeadline time.Duration
	httpClient   *http.Client
	logger       logger.Logger
}

// New creates a transcription Client against the configured provider.
func New(cfg *config.Config, log logger.Logger) Client {
	return &implClient{
		baseURL:      cfg.Transcription.BaseURL,
		apiKey:       cfg.Secrets.TranscriptionAPIKey,
		diarization:  cfg.Pipeline.SpeakerDiarization,
		pollInterval: cfg.PollInterval(),
		pollDeadline: cfg.PollDeadline(),
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		logger:       log,
	}
}
