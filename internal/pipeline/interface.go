package pipeline

import (
	"context"

	"iwatcher/internal/source"
)

// Pipeline processes one observed audio file end to end. Runs are
// independent; the only shared state is the immutable configuration.
type Pipeline interface {
	Process(ctx context.Context, ref source.FileRef) *Run
}
