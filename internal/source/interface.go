package source

import (
	"context"
	"errors"
	"fmt"
)

// FileRef identifies one observed audio file in the monitored store.
type FileRef struct {
	ID       string
	Name     string
	MimeType string
	ByteSize int64
}

// Destination is a terminal location for a processed source file.
type Destination string

const (
	DestinationCompleted Destination = "completed"
	DestinationFailed    Destination = "failed"
)

// ErrAlreadyClaimed means another run claimed the file first.
var ErrAlreadyClaimed = errors.New("file already claimed by another run")

// DownloadError means the source file bytes could not be read.
type DownloadError struct {
	Ref FileRef
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.Ref.Name, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Store is the monitored location audio files arrive in and leave from.
type Store interface {
	// Claim takes exclusive ownership of a newly observed file, moving it
	// out of the monitored location. Returns ErrAlreadyClaimed if the file
	// is gone, which means a concurrent run owns it.
	Claim(ctx context.Context, ref FileRef) (FileRef, error)

	// Fetch reads the claimed file's bytes.
	Fetch(ctx context.Context, ref FileRef) ([]byte, error)

	// Move relocates the claimed file to its terminal destination.
	Move(ctx context.Context, ref FileRef, dest Destination) error
}
