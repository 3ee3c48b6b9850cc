package asset

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// DefaultPath is the placeholder image used when a product has no upload.
	DefaultPath = "images/default-product.png"
	// ProductDir is the store-relative directory holding product images.
	ProductDir = "images/products"
)

var (
	// ErrStoreWrite classifies every asset write or delete failure.
	ErrStoreWrite = errors.New("asset store write failed")
	// ErrNotFound indicates no asset exists under the requested path.
	ErrNotFound = errors.New("asset not found")
	// ErrInvalidPath rejects paths that resolve outside the content root.
	ErrInvalidPath = errors.New("invalid asset path")
)

// Upload carries operator-supplied image bytes.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Present reports whether the upload carries any bytes.
func (u *Upload) Present() bool {
	return u != nil && u.Size > 0 && u.Content != nil
}

// StoreWriteError wraps an I/O failure raised by the asset store.
type StoreWriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreWriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("asset %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("asset %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// Is makes every StoreWriteError match ErrStoreWrite.
func (e *StoreWriteError) Is(target error) bool { return target == ErrStoreWrite }

// IsCustom reports whether path names an asset owned by a product rather than
// the shared placeholder.
func IsCustom(path string) bool {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	return path != "" && path != DefaultPath
}
