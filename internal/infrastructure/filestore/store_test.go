package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"backoffice/catalog/internal/domain/asset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var productImagePattern = regexp.MustCompile(`^images/products/[0-9a-f-]{36}\.jpg$`)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), zaptest.NewLogger(t))
}

func upload(name string, data []byte) asset.Upload {
	return asset.Upload{Filename: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func TestSaveWritesUnderGeneratedName(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p, err := s.Save(ctx, upload("photo.JPG", []byte{1, 2, 3}))
	require.NoError(t, err)
	assert.Regexp(t, productImagePattern, p)

	rc, err := s.Open(ctx, p)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	entries, err := os.ReadDir(filepath.Join(s.Root(), "images", "products"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not linger")
}

func TestSaveNeverUsesUploadedName(t *testing.T) {
	s := newStore(t)

	p, err := s.Save(context.Background(), upload("../../etc/passwd.png", []byte("x")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "images/products/"))
	assert.NotContains(t, p, "passwd")
	assert.NotContains(t, p, "..")
}

func TestSaveFailsWhenRootIsNotADirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.WriteFile(root, []byte("file"), 0o644))
	s := New(root, nil)

	_, err := s.Save(context.Background(), upload("photo.jpg", []byte{1}))
	require.Error(t, err)
	assert.ErrorIs(t, err, asset.ErrStoreWrite)

	var swe *asset.StoreWriteError
	require.True(t, errors.As(err, &swe))
	assert.Equal(t, "save", swe.Op)
}

func TestSaveShortWriteLeavesNothingBehind(t *testing.T) {
	s := newStore(t)
	u := asset.Upload{Filename: "photo.jpg", Size: 10, Content: bytes.NewReader([]byte{1, 2, 3})}

	_, err := s.Save(context.Background(), u)
	require.ErrorIs(t, err, asset.ErrStoreWrite)

	entries, err := os.ReadDir(filepath.Join(s.Root(), "images", "products"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p, err := s.Save(ctx, upload("photo.png", []byte("png")))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, p))
	require.NoError(t, s.Delete(ctx, p))

	ok, err := s.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteAcceptsLeadingSlash(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p, err := s.Save(ctx, upload("photo.png", []byte("png")))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "/"+p))
	ok, err := s.Exists(ctx, p)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteRejectsEscapingPaths(t *testing.T) {
	s := newStore(t)
	outside := filepath.Join(filepath.Dir(s.Root()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	for _, p := range []string{"../keep.txt", "images/../../keep.txt", "", "."} {
		err := s.Delete(context.Background(), p)
		require.Error(t, err, p)
		assert.ErrorIs(t, err, asset.ErrStoreWrite)
		assert.ErrorIs(t, err, asset.ErrInvalidPath)
	}
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestOpenMissingAsset(t *testing.T) {
	s := newStore(t)
	_, err := s.Open(context.Background(), "images/products/missing.jpg")
	assert.ErrorIs(t, err, asset.ErrNotFound)
}
