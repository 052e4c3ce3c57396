package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"noteshare/internal/models"
)

func setupNoteMock(t *testing.T) (*PostgresNoteRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresNoteRepository(db)
	cleanup := func() {
		db.Close()
	}
	return repo, mock, cleanup
}

func noteRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "subject", "caption", "kind",
		"storage_path", "original_name", "byte_size", "media_type",
		"target_url", "created_at",
	})
}

func TestInsert_FileNote(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	now := time.Now()
	note := &models.Note{
		ID: "n1", OwnerID: "u1", Subject: "DSA", Caption: "week 3",
		Kind: models.KindFile, StoragePath: "170000-abc.pdf",
		OriginalName: "notes.pdf", ByteSize: 1024, MediaType: "application/pdf",
		CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notes`)).
		WithArgs("n1", "u1", "DSA", "week 3", models.KindFile,
			"170000-abc.pdf", "notes.pdf", int64(1024), "application/pdf", "", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Insert(context.Background(), note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_id, subject`)).
		WithArgs("missing").
		WillReturnRows(noteRows())

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPublic_NewestFirstWithOwnerName(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	t1 := time.Now().Add(-time.Hour)
	t2 := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "subject", "caption", "kind",
		"storage_path", "original_name", "byte_size", "media_type",
		"target_url", "created_at", "name",
	}).
		AddRow("n2", "u1", "Algo", "", models.KindLink, "", "", int64(0), "", "https://x.test", t2, "Alice").
		AddRow("n1", "u2", "DSA", "", models.KindFile, "p1.pdf", "a.pdf", int64(9), "application/pdf", "", t1, "Bob")

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY n.created_at DESC`)).
		WillReturnRows(rows)

	notes, err := repo.ListPublic(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != "n2" || notes[1].ID != "n1" {
		t.Errorf("unexpected order: %+v", notes)
	}
	if notes[0].OwnerName != "Alice" {
		t.Errorf("expected owner name Alice, got %q", notes[0].OwnerName)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListByOwner_FiltersByOwner(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	rows := noteRows().
		AddRow("n1", "u7", "OS", "", models.KindLink, "", "", int64(0), "", "https://os.test", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE owner_id = $1 ORDER BY created_at DESC`)).
		WithArgs("u7").
		WillReturnRows(rows)

	notes, err := repo.ListByOwner(context.Background(), "u7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 1 || notes[0].OwnerID != "u7" {
		t.Errorf("unexpected notes: %+v", notes)
	}
}

func TestDeleteByID_Success(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notes WHERE id = $1`)).
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByID(context.Background(), "n1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDeleteByID_AlreadyGone(t *testing.T) {
	repo, mock, cleanup := setupNoteMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM notes WHERE id = $1`)).
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByID(context.Background(), "n1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
