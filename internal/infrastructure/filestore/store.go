// Package filestore keeps product images on a local content directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"backoffice/catalog/internal/domain/asset"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists assets beneath a content root.
type Store struct {
	root   string
	logger *zap.Logger
}

// Ensure Store implements the asset.Store interface.
var _ asset.Store = (*Store)(nil)

// New constructs a store rooted at root.
func New(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: root, logger: logger.Named("filestore")}
}

// Root returns the content directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes the upload under a generated name and returns its
// store-relative path. Bytes land in a temp file first and are renamed into
// place, so the returned path is never partially written.
func (s *Store) Save(ctx context.Context, upload asset.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &asset.StoreWriteError{Op: "save", Err: err}
	}
	if upload.Content == nil {
		return "", &asset.StoreWriteError{Op: "save", Err: errors.New("upload has no content")}
	}

	rel := path.Join(asset.ProductDir, uuid.NewString()+asset.Extension(upload.Filename))
	dir := filepath.Join(s.root, filepath.FromSlash(asset.ProductDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &asset.StoreWriteError{Op: "save", Path: rel, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", &asset.StoreWriteError{Op: "save", Path: rel, Err: err}
	}
	if err := writeAndPlace(tmp, upload, filepath.Join(s.root, filepath.FromSlash(rel))); err != nil {
		_ = tmp.Close()
		if rmErr := os.Remove(tmp.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			s.logger.Warn("failed to remove temp upload", zap.String("tmp", tmp.Name()), zap.Error(rmErr))
		}
		return "", &asset.StoreWriteError{Op: "save", Path: rel, Err: err}
	}

	s.logger.Debug("asset saved", zap.String("path", rel), zap.Int64("size", upload.Size))
	return rel, nil
}

func writeAndPlace(tmp *os.File, upload asset.Upload, final string) error {
	n, err := io.Copy(tmp, upload.Content)
	if err != nil {
		return err
	}
	if upload.Size > 0 && n != upload.Size {
		return fmt.Errorf("short write: wrote %d of %d bytes", n, upload.Size)
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), final)
}

// Delete removes the asset at p. A missing asset is not an error.
func (s *Store) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return &asset.StoreWriteError{Op: "delete", Path: p, Err: err}
	}
	full, err := s.resolve(p)
	if err != nil {
		return &asset.StoreWriteError{Op: "delete", Path: p, Err: err}
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("asset already absent", zap.String("path", p))
			return nil
		}
		return &asset.StoreWriteError{Op: "delete", Path: p, Err: err}
	}
	s.logger.Debug("asset deleted", zap.String("path", p))
	return nil
}

// Open returns a reader for the asset at p.
func (s *Store) Open(_ context.Context, p string) (io.ReadCloser, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", asset.ErrNotFound, p)
		}
		return nil, err
	}
	return f, nil
}

// Exists reports whether an asset is stored at p.
func (s *Store) Exists(_ context.Context, p string) (bool, error) {
	full, err := s.resolve(p)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolve maps a store-relative path onto the filesystem, refusing anything
// that would leave the content root. A leading slash is accepted.
func (s *Store) resolve(p string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(strings.TrimSpace(p), "/")))
	if rel == "." || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", asset.ErrInvalidPath, p)
	}
	return filepath.Join(s.root, rel), nil
}
