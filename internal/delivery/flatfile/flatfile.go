// Package flatfile is the flat sink: one markdown document per recording
// with the unchunked summary and transcript, plus a docx rendition for
// sharing.
package flatfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"iwatcher/internal/config"
	"iwatcher/internal/delivery"
	"iwatcher/internal/logger"
)

const fileSuffix = " - transcript"

type implSink struct {
	outputDir string
	logger    logger.Logger
}

// New creates the flat sink writing into the configured output directory.
func New(cfg *config.Config, log logger.Logger) delivery.Sink {
	return &implSink{
		outputDir: cfg.Paths.Output,
		logger:    log,
	}
}

func (s *implSink) Name() string { return "flatfile" }

// Deliver writes the markdown document in a single shot. The docx rendition
// is best effort: its failure is logged but does not fail the sink.
func (s *implSink) Deliver(ctx context.Context, req delivery.Request) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	base := strings.TrimSuffix(req.FileName, filepath.Ext(req.FileName)) + fileSuffix
	mdPath := filepath.Join(s.outputDir, base+".md")

	if err := os.WriteFile(mdPath, []byte(renderMarkdown(req)), 0644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	docxPath := filepath.Join(s.outputDir, base+".docx")
	if err := renderDocx(req, docxPath); err != nil {
		s.logger.Warn(ctx, "Failed to write docx rendition %s: %v", docxPath, err)
	}

	return mdPath, nil
}

// renderMarkdown produces the full document: metadata header, then the
// complete summary and transcript without any chunking.
func renderMarkdown(req delivery.Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", req.FileName)
	fmt.Fprintf(&sb, "_Processed: %s_\n\n", req.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Confidence: %.0f%% | Duration: %s\n\n",
		req.Confidence*100, req.Duration.Round(time.Second))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(req.SummaryText)
	sb.WriteString("\n\n## Transcript\n\n")
	sb.WriteString(req.TranscriptText)
	sb.WriteString("\n")

	return sb.String()
}
