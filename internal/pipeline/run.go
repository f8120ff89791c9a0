package pipeline

import (
	"time"

	"iwatcher/internal/delivery"
	"iwatcher/internal/source"
	"iwatcher/internal/summarizer"
	"iwatcher/internal/transcript"
)

// Stage names the step a run is currently in, or failed at.
type Stage string

const (
	StageClaim      Stage = "claim"
	StageDownload   Stage = "download"
	StageTranscribe Stage = "transcribe"
	StageFormat     Stage = "format"
	StageSummarize  Stage = "summarize"
	StageChunk      Stage = "chunk"
	StageDeliver    Stage = "deliver"
	StageFinalize   Stage = "finalize"
)

// State is a run's terminal state. Skipped means another run claimed the
// file first and nothing was done.
type State string

const (
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateSkipped   State = "skipped"
)

// Run records one end-to-end processing attempt for a single source file.
type Run struct {
	ID        string
	File      source.FileRef
	CreatedAt time.Time

	Stage Stage
	State State

	// FailedStage and Err are set when a stage aborted the run.
	FailedStage Stage
	Err         error

	Transcript *transcript.Transcript
	Summary    summarizer.Result
	Outcomes   []delivery.Outcome
}
