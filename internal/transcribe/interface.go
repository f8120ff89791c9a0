package transcribe

import (
	"context"

	"iwatcher/internal/transcript"
)

// Client drives an asynchronous transcription job from submission to a final
// transcript.
type Client interface {
	// Submit uploads the audio and creates a transcription job, returning
	// the provider job id.
	Submit(ctx context.Context, audio []byte) (string, error)

	// AwaitCompletion polls the job until it completes, the provider
	// reports an error, or the configured deadline passes. It returns no
	// later than deadline plus one poll interval after being called.
	AwaitCompletion(ctx context.Context, jobID string) (*transcript.Transcript, error)
}
