// Package storage manages the on-disk lifecycle of uploaded note blobs.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"noteshare/internal/models"
)

// MaxBlobSize is the upload ceiling: 50 MiB.
const MaxBlobSize int64 = 50 << 20

// allowedMediaTypes is the upload allow-list: PDF, DOCX, TXT, JPG, PNG.
var allowedMediaTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
	"image/jpeg": {},
	"image/png":  {},
}

// StoredBlob describes a blob after a successful store.
type StoredBlob struct {
	// Path is the opaque storage handle to pass back for Open/Remove.
	Path string
	// Size is the number of bytes written.
	Size int64
	// MediaType is the accepted MIME type of the blob.
	MediaType string
}

// DiskBlobStore stores blobs as files under a single directory.
// Storage names carry a time prefix and a random suffix so concurrent
// stores never collide or overwrite another note's blob.
type DiskBlobStore struct {
	dir string
}

// NewDiskBlobStore creates the upload directory if needed and returns a
// store rooted at it.
func NewDiskBlobStore(dir string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskBlobStore{dir: dir}, nil
}

// Store validates the declared media type and size, then writes the
// incoming bytes to a freshly allocated path. Both checks fail before
// any byte is persisted. declaredSize is the size announced by the
// transport; the written stream is additionally capped so a lying
// client cannot exceed the ceiling.
func (s *DiskBlobStore) Store(r io.Reader, declaredName, declaredType string, declaredSize int64) (*StoredBlob, error) {
	mediaType := normalizeMediaType(declaredType)
	if _, ok := allowedMediaTypes[mediaType]; !ok {
		return nil, models.NewValidationError("file", "media type not allowed")
	}
	if declaredSize > MaxBlobSize {
		return nil, models.NewValidationError("file", "file exceeds 50 MiB limit")
	}

	path := s.allocatePath(declaredName)
	f, err := os.OpenFile(filepath.Join(s.dir, path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, &models.StorageError{Op: "store", Err: err}
	}

	written, err := io.Copy(f, io.LimitReader(r, MaxBlobSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, path))
		return nil, &models.StorageError{Op: "store", Err: err}
	}
	if written > MaxBlobSize {
		_ = os.Remove(filepath.Join(s.dir, path))
		return nil, models.NewValidationError("file", "file exceeds 50 MiB limit")
	}

	return &StoredBlob{Path: path, Size: written, MediaType: mediaType}, nil
}

// Open returns a reader over the blob at path. A missing blob reports
// models.ErrNotFound: the artifact the caller expected is absent.
func (s *DiskBlobStore) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(path)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, &models.StorageError{Op: "open", Err: err}
	}
	return f, nil
}

// Remove irreversibly deletes the blob at path. Removing an already
// absent path reports models.ErrNotFound so callers can observe it,
// but note deletion treats that as success.
func (s *DiskBlobStore) Remove(path string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(path)))
	if errors.Is(err, os.ErrNotExist) {
		return models.ErrNotFound
	}
	if err != nil {
		return &models.StorageError{Op: "remove", Err: err}
	}
	return nil
}

// allocatePath builds a unique storage name: unix-nano prefix plus a
// random suffix, preserving the original extension.
func (s *DiskBlobStore) allocatePath(declaredName string) string {
	ext := filepath.Ext(filepath.Base(declaredName))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}

// normalizeMediaType strips any parameters ("text/plain; charset=utf-8")
// and lowercases the type before the allow-list check.
func normalizeMediaType(declared string) string {
	mt := declared
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
