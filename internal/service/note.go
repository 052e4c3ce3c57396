package service

import (
	"context"
	"errors"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"noteshare/internal/models"
	"noteshare/internal/storage"
)

// NoteRepository defines the record persistence operations needed by
// the NoteService.
type NoteRepository interface {
	// Insert persists a new note record.
	Insert(ctx context.Context, note *models.Note) error
	// GetByID fetches a note, models.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.Note, error)
	// ListPublic returns all notes newest first with owner names joined.
	ListPublic(ctx context.Context) ([]models.PublicNote, error)
	// ListByOwner returns one owner's notes newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error)
	// DeleteByID removes a note record, models.ErrNotFound if already gone.
	DeleteByID(ctx context.Context, id string) error
}

// BlobStore defines the blob lifecycle operations needed by the
// NoteService.
type BlobStore interface {
	// Store validates and persists incoming bytes under a fresh path.
	Store(r io.Reader, declaredName, declaredType string, declaredSize int64) (*storage.StoredBlob, error)
	// Open returns a reader over a stored blob.
	Open(path string) (io.ReadCloser, error)
	// Remove deletes a stored blob, models.ErrNotFound if already absent.
	Remove(path string) error
}

// Sanitizer strips markup from user-supplied text fields.
type Sanitizer interface {
	Clean(raw string) string
}

// NoteService implements note business logic: creation of file and
// link notes, public and owned listings, downloads and owner-checked
// deletion. A file note's blob and its record are created and
// destroyed together; the crash window between the two writes is a
// documented gap, not guarded by a transaction.
type NoteService struct {
	repo     NoteRepository
	blobs    BlobStore
	sanitize Sanitizer
	log      *zap.Logger

	// deleteLocks serializes competing deletes per note id so that
	// exactly one caller observes success.
	mu          sync.Mutex
	deleteLocks map[string]*deleteLock
}

type deleteLock struct {
	mu   sync.Mutex
	refs int
}

// NewNoteService constructs a NoteService.
func NewNoteService(repo NoteRepository, blobs BlobStore, sanitize Sanitizer, log *zap.Logger) *NoteService {
	return &NoteService{
		repo:        repo,
		blobs:       blobs,
		sanitize:    sanitize,
		log:         log,
		deleteLocks: make(map[string]*deleteLock),
	}
}

// Download bundles the byte stream and metadata returned for a file
// note download.
type Download struct {
	// Content streams the blob bytes. The caller closes it.
	Content io.ReadCloser
	// OriginalName is the filename to suggest to the client.
	OriginalName string
	// MediaType is the blob's MIME type.
	MediaType string
	// Size is the blob size in bytes.
	Size int64
}

// CreateFileNote validates the inputs, stores the blob, then persists
// the note record. If the record insert fails after a successful store
// the blob is orphaned; that is logged and surfaced, not rolled back.
func (s *NoteService) CreateFileNote(ctx context.Context, ownerID, subject, caption string, file io.Reader, declaredName, declaredType string, declaredSize int64) (*models.Note, error) {
	subject = s.sanitize.Clean(subject)
	if subject == "" {
		return nil, models.NewValidationError("subject", "required")
	}

	blob, err := s.blobs.Store(file, declaredName, declaredType, declaredSize)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Subject:      subject,
		Caption:      s.sanitize.Clean(caption),
		Kind:         models.KindFile,
		StoragePath:  blob.Path,
		OriginalName: declaredName,
		ByteSize:     blob.Size,
		MediaType:    blob.MediaType,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, note); err != nil {
		s.log.Warn("note record insert failed after blob store, blob orphaned",
			zap.String("storage_path", blob.Path),
			zap.Error(err),
		)
		return nil, err
	}
	return note, nil
}

// CreateLinkNote validates the inputs and persists a link note. The
// blob store is never touched.
func (s *NoteService) CreateLinkNote(ctx context.Context, ownerID, subject, caption, targetURL string) (*models.Note, error) {
	subject = s.sanitize.Clean(subject)
	if subject == "" {
		return nil, models.NewValidationError("subject", "required")
	}
	if targetURL == "" {
		return nil, models.NewValidationError("linkUrl", "required")
	}
	if u, err := url.ParseRequestURI(targetURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, models.NewValidationError("linkUrl", "must be an http(s) URL")
	}

	note := &models.Note{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Subject:   subject,
		Caption:   s.sanitize.Clean(caption),
		Kind:      models.KindLink,
		TargetURL: targetURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// ListPublic returns every note, newest first, with owner display
// names. Recomputed per call, never cached.
func (s *NoteService) ListPublic(ctx context.Context) ([]models.PublicNote, error) {
	return s.repo.ListPublic(ctx)
}

// ListOwned returns the caller's notes, newest first.
func (s *NoteService) ListOwned(ctx context.Context, ownerID string) ([]models.Note, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// FetchForDownload resolves a note id to its blob stream. Public by
// design: download links are shareable, no ownership check. A link
// note reports models.ErrWrongKind. A missing record and a missing
// blob both report models.ErrNotFound: either way the artifact the
// caller expected is absent.
func (s *NoteService) FetchForDownload(ctx context.Context, noteID string) (*Download, error) {
	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.Kind != models.KindFile {
		return nil, models.ErrWrongKind
	}

	content, err := s.blobs.Open(note.StoragePath)
	if errors.Is(err, models.ErrNotFound) {
		s.log.Error("file note references missing blob",
			zap.String("note_id", note.ID),
			zap.String("storage_path", note.StoragePath),
		)
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Download{
		Content:      content,
		OriginalName: note.OriginalName,
		MediaType:    note.MediaType,
		Size:         note.ByteSize,
	}, nil
}

// DeleteOwned deletes a note if the requester owns it. Ownership is
// the sole authorization rule; there is no admin override. For a file
// note the blob is removed before the record to minimize the
// orphan-blob window; a blob that is already gone never blocks record
// deletion. Competing deletes for the same id are serialized so that
// the loser observes models.ErrNotFound.
func (s *NoteService) DeleteOwned(ctx context.Context, noteID, requesterID string) error {
	lock := s.acquireDeleteLock(noteID)
	defer s.releaseDeleteLock(noteID, lock)

	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.OwnerID != requesterID {
		return models.ErrForbidden
	}

	if note.Kind == models.KindFile && note.StoragePath != "" {
		if err := s.blobs.Remove(note.StoragePath); err != nil && !errors.Is(err, models.ErrNotFound) {
			s.log.Warn("blob removal failed, continuing with record deletion",
				zap.String("note_id", note.ID),
				zap.String("storage_path", note.StoragePath),
				zap.Error(err),
			)
		}
	}

	return s.repo.DeleteByID(ctx, noteID)
}

// acquireDeleteLock locks the per-id mutex, creating it on first use.
func (s *NoteService) acquireDeleteLock(noteID string) *deleteLock {
	s.mu.Lock()
	lock, ok := s.deleteLocks[noteID]
	if !ok {
		lock = &deleteLock{}
		s.deleteLocks[noteID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// releaseDeleteLock unlocks and drops the entry once no caller holds it.
func (s *NoteService) releaseDeleteLock(noteID string, lock *deleteLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.deleteLocks, noteID)
	}
	s.mu.Unlock()
}
