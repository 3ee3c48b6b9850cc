package asset

import (
	"context"
	"io"
)

// Store saves and retires binary assets under a content root. Effects are
// immediate; the store has no transactional awareness.
type Store interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Delete(ctx context.Context, path string) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
}
