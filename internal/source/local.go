package source

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"iwatcher/internal/config"
	"iwatcher/internal/logger"
)

type localStore struct {
	newDir        string
	processingDir string
	completedDir  string
	failedDir     string
	logger        logger.Logger
}

// NewLocalStore creates a Store over the configured folder tree
// (New/Processing/Completed/Failed).
func NewLocalStore(cfg *config.Config, log logger.Logger) Store {
	return &localStore{
		newDir:        cfg.Paths.New,
		processingDir: cfg.Paths.Processing,
		completedDir:  cfg.Paths.Completed,
		failedDir:     cfg.Paths.Failed,
		logger:        log,
	}
}

// RefForPath builds a FileRef for a file observed in the New folder.
func RefForPath(path string) (FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("stat %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return FileRef{
		ID:       path,
		Name:     filepath.Base(path),
		MimeType: mimeType,
		ByteSize: info.Size(),
	}, nil
}

// Claim renames the file from New into Processing. The rename is atomic, so
// exactly one of any concurrent detections of the same file wins.
func (s *localStore) Claim(ctx context.Context, ref FileRef) (FileRef, error) {
	dest := filepath.Join(s.processingDir, ref.Name)

	if err := os.Rename(ref.ID, dest); err != nil {
		if os.IsNotExist(err) {
			return FileRef{}, ErrAlreadyClaimed
		}
		return FileRef{}, fmt.Errorf("move to processing: %w", err)
	}

	s.logger.Debug(ctx, "Claimed %s -> %s", ref.ID, dest)

	claimed := ref
	claimed.ID = dest
	return claimed, nil
}

func (s *localStore) Fetch(ctx context.Context, ref FileRef) ([]byte, error) {
	data, err := os.ReadFile(ref.ID)
	if err != nil {
		return nil, &DownloadError{Ref: ref, Err: err}
	}
	return data, nil
}

func (s *localStore) Move(ctx context.Context, ref FileRef, dest Destination) error {
	var dir string
	switch dest {
	case DestinationCompleted:
		dir = s.completedDir
	case DestinationFailed:
		dir = s.failedDir
	default:
		return fmt.Errorf("unknown destination %q", dest)
	}

	target := filepath.Join(dir, ref.Name)
	if err := os.Rename(ref.ID, target); err != nil {
		return fmt.Errorf("move to %s: %w", dest, err)
	}

	s.logger.Info(ctx, "Moved %s -> %s", ref.Name, target)
	return nil
}
