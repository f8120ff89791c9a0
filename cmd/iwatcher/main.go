package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"iwatcher/internal/config"
	"iwatcher/internal/delivery"
	"iwatcher/internal/delivery/flatfile"
	"iwatcher/internal/delivery/notion"
	"iwatcher/internal/logger"
	"iwatcher/internal/pipeline"
	"iwatcher/internal/source"
	"iwatcher/internal/summarizer"
	"iwatcher/internal/transcribe"
	"iwatcher/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "Audio ingestion pipeline starting")
	log.Info(ctx, "Poll interval: %s, deadline: %s, chunk size: %d chars",
		cfg.PollInterval(), cfg.PollDeadline(), cfg.Pipeline.ChunkMaxChars)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	store := source.NewLocalStore(cfg, log)
	client := transcribe.New(cfg, log)
	summ := summarizer.New(cfg, log)
	dispatcher := delivery.NewDispatcher(log, notion.New(cfg, log), flatfile.New(cfg, log))
	pipe := pipeline.New(cfg, store, client, summ, dispatcher, log)

	handler := func(ctx context.Context, filePath string) error {
		ref, err := source.RefForPath(filePath)
		if err != nil {
			return fmt.Errorf("build file reference: %w", err)
		}
		pipe.Process(ctx, ref)
		return nil
	}

	w, err := watcher.New(cfg.Paths.New, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	watcherDone := make(chan error, 1)
	go func() {
		watcherDone <- w.Start(ctx)
	}()

	if cfg.Metrics.Address != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info(ctx, "Metrics listening on %s", cfg.Metrics.Address)
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				log.Error(ctx, "Metrics server error: %v", err)
			}
		}()
	}

	log.Info(ctx, "Pipeline ready. Monitoring: %s", cfg.Paths.New)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
		log.Info(ctx, "Shutting down gracefully...")
		cancel()

		// Start returns only after in-flight runs have drained.
		if err := <-watcherDone; err != nil && err != context.Canceled {
			log.Error(ctx, "Watcher error: %v", err)
		}
	case err := <-watcherDone:
		if err != nil && err != context.Canceled {
			log.Error(ctx, "Watcher error: %v", err)
		}
		cancel()
	}

	log.Info(ctx, "Pipeline stopped")
}

// ensureDirectories creates the folder tree if it does not exist.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.New,
		cfg.Paths.Processing,
		cfg.Paths.Completed,
		cfg.Paths.Failed,
		cfg.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
