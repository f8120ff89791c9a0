package delivery

import (
	"context"
	"time"

	"iwatcher/internal/chunk"
)

// Request carries everything a sink needs to persist one run's output.
// Structured sinks consume the block sequences; flat sinks consume the full
// texts.
type Request struct {
	RunID     string
	FileName  string
	CreatedAt time.Time

	Confidence float64
	Duration   time.Duration

	SummaryBlocks    []chunk.Block
	TranscriptBlocks []chunk.Block

	SummaryText     string
	TranscriptText  string
	SummaryFallback bool
}

// Outcome records one sink's delivery result for a run.
type Outcome struct {
	Sink    string
	Success bool
	Ref     string // external reference (page id, file path) when successful
	Err     error
}

// Sink is one external destination store.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, req Request) (ref string, err error)
}

// Dispatcher fans a run's output out to every sink concurrently and joins on
// all of them before returning.
type Dispatcher interface {
	Deliver(ctx context.Context, req Request) []Outcome
}
