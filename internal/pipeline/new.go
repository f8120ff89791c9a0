package pipeline

import (
	"iwatcher/internal/config"
	"iwatcher/internal/delivery"
	"iwatcher/internal/logger"
	"iwatcher/internal/source"
	"iwatcher/internal/summarizer"
	"iwatcher/internal/transcribe"
)

type implPipeline struct {
	cfg        *config.Config
	store      source.Store
	transcribe transcribe.Client
	summarizer summarizer.Summarizer
	dispatcher delivery.Dispatcher
	logger     logger.Logger
}

// New wires the pipeline from its collaborators.
func New(
	cfg *config.Config,
	store source.Store,
	client transcribe.Client,
	summ summarizer.Summarizer,
	dispatcher delivery.Dispatcher,
	log logger.Logger,
) Pipeline {
	return &implPipeline{
		cfg:        cfg,
		store:      store,
		transcribe: client,
		summarizer: summ,
		dispatcher: dispatcher,
		logger:     log,
	}
}
