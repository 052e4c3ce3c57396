package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"noteshare/internal/middleware"
	"noteshare/internal/models"
	"noteshare/internal/service"
	"noteshare/internal/storage"
)

// maxUploadMemory bounds how much of a multipart body is buffered in
// memory; the rest spills to temporary files.
const maxUploadMemory = 32 << 20

// NoteService defines the interface for note operations required by
// the NoteHandler.
type NoteService interface {
	// CreateFileNote stores the blob and persists a file-kind note.
	CreateFileNote(ctx context.Context, ownerID, subject, caption string, file io.Reader, declaredName, declaredType string, declaredSize int64) (*models.Note, error)
	// CreateLinkNote persists a link-kind note.
	CreateLinkNote(ctx context.Context, ownerID, subject, caption, targetURL string) (*models.Note, error)
	// ListPublic returns every note newest first with owner names.
	ListPublic(ctx context.Context) ([]models.PublicNote, error)
	// ListOwned returns the caller's notes newest first.
	ListOwned(ctx context.Context, ownerID string) ([]models.Note, error)
	// FetchForDownload resolves a note id to its blob stream.
	FetchForDownload(ctx context.Context, noteID string) (*service.Download, error)
	// DeleteOwned deletes a note if the requester owns it.
	DeleteOwned(ctx context.Context, noteID, requesterID string) error
}

// OperationMetrics counts note operations for observability.
type OperationMetrics interface {
	RecordUpload(byteSize int64)
	RecordDownload()
	RecordDelete()
}

// NoteHandler handles HTTP requests for note creation, listing,
// download and deletion.
type NoteHandler struct {
	NoteService NoteService
	Metrics     OperationMetrics
}

// Upload handles POST /api/notes/upload. The body is a form with
// "subject", "caption" and "noteType" fields; a file note carries the
// upload in the "file" part, a link note carries "linkUrl".
func (h *NoteHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	// Cap the request body before parsing: anything past the blob
	// ceiling plus form overhead is over the limit regardless of content.
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxBlobSize+maxUploadMemory)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			if err := r.ParseForm(); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
				return
			}
		} else {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid or oversize request body"})
			return
		}
	}

	subject := r.FormValue("subject")
	caption := r.FormValue("caption")

	switch models.NoteKind(r.FormValue("noteType")) {
	case models.KindFile:
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no file uploaded"})
			return
		}
		defer file.Close()

		note, err := h.NoteService.CreateFileNote(r.Context(), ownerID, subject, caption,
			file, header.Filename, header.Header.Get("Content-Type"), header.Size)
		if err != nil {
			writeError(w, err)
			return
		}
		h.Metrics.RecordUpload(note.ByteSize)
		writeJSON(w, http.StatusCreated, note)

	case models.KindLink:
		note, err := h.NoteService.CreateLinkNote(r.Context(), ownerID, subject, caption, r.FormValue("linkUrl"))
		if err != nil {
			writeError(w, err)
			return
		}
		h.Metrics.RecordUpload(0)
		writeJSON(w, http.StatusCreated, note)

	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid note type"})
	}
}

// ListPublic handles GET /api/notes/public. No authentication.
func (h *NoteHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	notes, err := h.NoteService.ListPublic(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []models.PublicNote{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// ListOwned handles GET /api/notes for the authenticated owner.
func (h *NoteHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserIDFromContext(r.Context())

	notes, err := h.NoteService.ListOwned(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// Download handles GET /api/notes/download/{id}. Public by design:
// download links are shareable.
func (h *NoteHandler) Download(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")

	download, err := h.NoteService.FetchForDownload(r.Context(), noteID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer download.Content.Close()

	w.Header().Set("Content-Type", download.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.OriginalName))
	if download.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(download.Size, 10))
	}
	if _, err := io.Copy(w, download.Content); err == nil {
		h.Metrics.RecordDownload()
	}
}

// Delete handles DELETE /api/notes/{id} for the authenticated owner.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")
	requesterID := middleware.GetUserIDFromContext(r.Context())

	if err := h.NoteService.DeleteOwned(r.Context(), noteID, requesterID); err != nil {
		writeError(w, err)
		return
	}
	h.Metrics.RecordDelete()
	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}
