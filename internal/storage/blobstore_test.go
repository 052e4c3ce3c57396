package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteshare/internal/models"
)

func newTestStore(t *testing.T) *DiskBlobStore {
	t.Helper()
	s, err := NewDiskBlobStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	content := []byte("lecture notes")

	blob, err := s.Store(bytes.NewReader(content), "dsa.pdf", "application/pdf", int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), blob.Size)
	assert.Equal(t, "application/pdf", blob.MediaType)
	assert.True(t, strings.HasSuffix(blob.Path, ".pdf"), "path %q should keep the extension", blob.Path)

	rc, err := s.Open(blob.Path)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestStore_UniquePaths(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Store(strings.NewReader("a"), "same.txt", "text/plain", 1)
	require.NoError(t, err)
	second, err := s.Store(strings.NewReader("b"), "same.txt", "text/plain", 1)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}

func TestStore_RejectsDisallowedMediaType(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Store(strings.NewReader("MZ"), "evil.exe", "application/x-msdownload", 2)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file", verr.Field)

	// Nothing may be persisted on rejection.
	_, err = s.Open("anything")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_NormalizesMediaTypeParameters(t *testing.T) {
	s := newTestStore(t)

	blob, err := s.Store(strings.NewReader("hi"), "a.txt", "text/plain; charset=utf-8", 2)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", blob.MediaType)
}

func TestStore_RejectsOversizeDeclaration(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Store(strings.NewReader("x"), "big.pdf", "application/pdf", MaxBlobSize+1)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRemove_Idempotence(t *testing.T) {
	s := newTestStore(t)

	blob, err := s.Store(strings.NewReader("bye"), "b.txt", "text/plain", 3)
	require.NoError(t, err)

	require.NoError(t, s.Remove(blob.Path))
	// Second removal reports the absence for observability.
	assert.True(t, errors.Is(s.Remove(blob.Path), models.ErrNotFound))

	_, err = s.Open(blob.Path)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
