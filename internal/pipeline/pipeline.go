package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"iwatcher/internal/chunk"
	"iwatcher/internal/delivery"
	"iwatcher/internal/metrics"
	"iwatcher/internal/source"
	"iwatcher/internal/transcript"
)

// Process runs the full pipeline for one file: claim, download, transcribe,
// format, summarize, chunk, deliver, finalize. A failure before delivery
// skips straight to finalize with a failed verdict. Delivery failures and
// summary fallbacks never demote the run: once a transcript was obtained the
// file ends in Completed.
func (p *implPipeline) Process(ctx context.Context, ref source.FileRef) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		File:      ref,
		CreatedAt: time.Now(),
		Stage:     StageClaim,
	}

	p.logger.Info(ctx, "Run %s started for %s (%d bytes)", run.ID, ref.Name, ref.ByteSize)

	claimed, err := p.store.Claim(ctx, ref)
	if err != nil {
		if errors.Is(err, source.ErrAlreadyClaimed) {
			p.logger.Debug(ctx, "Run %s: %s already claimed, skipping", run.ID, ref.Name)
			run.State = StateSkipped
			return run
		}
		return p.fail(ctx, run, StageClaim, err)
	}
	run.File = claimed

	run.Stage = StageDownload
	audio, err := p.store.Fetch(ctx, claimed)
	if err != nil {
		return p.fail(ctx, run, StageDownload, err)
	}

	run.Stage = StageTranscribe
	jobID, err := p.transcribe.Submit(ctx, audio)
	if err != nil {
		return p.fail(ctx, run, StageTranscribe, err)
	}

	tr, err := p.transcribe.AwaitCompletion(ctx, jobID)
	if err != nil {
		return p.fail(ctx, run, StageTranscribe, err)
	}
	run.Transcript = tr

	run.Stage = StageFormat
	transcriptText := transcript.Format(*tr)

	run.Stage = StageSummarize
	run.Summary = p.summarizer.Summarize(ctx, transcriptText)
	if run.Summary.Fallback {
		metrics.SummaryFallbacks.Inc()
	}

	run.Stage = StageChunk
	summaryBlocks, err := chunk.Split(chunk.KindSummary, run.Summary.Text, p.cfg.Pipeline.ChunkMaxChars)
	if err != nil {
		return p.fail(ctx, run, StageChunk, err)
	}
	transcriptBlocks, err := chunk.Split(chunk.KindTranscript, transcriptText, p.cfg.Pipeline.ChunkMaxChars)
	if err != nil {
		return p.fail(ctx, run, StageChunk, err)
	}

	run.Stage = StageDeliver
	run.Outcomes = p.dispatcher.Deliver(ctx, delivery.Request{
		RunID:     run.ID,
		FileName:  run.File.Name,
		CreatedAt: run.CreatedAt,

		Confidence: tr.Confidence,
		Duration:   tr.Duration,

		SummaryBlocks:    summaryBlocks,
		TranscriptBlocks: transcriptBlocks,

		SummaryText:     run.Summary.Text,
		TranscriptText:  transcriptText,
		SummaryFallback: run.Summary.Fallback,
	})
	for _, o := range run.Outcomes {
		metrics.DeliveryOutcomes.WithLabelValues(o.Sink, result(o.Success)).Inc()
	}

	return p.finalize(ctx, run, StateCompleted)
}

// fail records the fatal stage error and finalizes the run as failed.
func (p *implPipeline) fail(ctx context.Context, run *Run, stage Stage, err error) *Run {
	p.logger.Error(ctx, "Run %s failed at %s: %v", run.ID, stage, err)
	run.FailedStage = stage
	run.Err = err
	metrics.StageFailures.WithLabelValues(string(stage)).Inc()
	return p.finalize(ctx, run, StateFailed)
}

// finalize applies the single terminal file move and closes the run.
func (p *implPipeline) finalize(ctx context.Context, run *Run, state State) *Run {
	run.Stage = StageFinalize
	run.State = state

	dest := source.DestinationCompleted
	if state == StateFailed {
		dest = source.DestinationFailed
	}

	if err := p.store.Move(ctx, run.File, dest); err != nil {
		p.logger.Error(ctx, "Run %s: failed to move %s to %s: %v", run.ID, run.File.Name, dest, err)
	}

	metrics.RunsTotal.WithLabelValues(string(state)).Inc()
	p.logger.Info(ctx, "Run %s finished: %s (file -> %s)", run.ID, state, dest)
	return run
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
