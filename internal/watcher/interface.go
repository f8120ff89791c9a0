package watcher

import "context"

// Watcher monitors the New folder for incoming audio files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one newly observed audio file.
type EventHandler func(ctx context.Context, filePath string) error
