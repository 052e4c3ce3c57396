// Package models defines the core data structures for users and notes.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Name is the display name shown next to public notes.
	Name string `json:"name"`
	// Email is the unique login address of the user.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	// It is never serialized outward.
	PasswordHash string `json:"-"`
	// CreatedAt is the signup timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// NoteKind defines the set of valid note type identifiers.
type NoteKind string

const (
	// KindFile represents a note backed by an uploaded file.
	KindFile NoteKind = "file"
	// KindLink represents a note pointing at an external URL.
	KindLink NoteKind = "link"
)

// Note is the central record representing a shared file or link.
// Exactly one of the file-field group (StoragePath, OriginalName,
// ByteSize, MediaType) or TargetURL is populated, determined by Kind.
type Note struct {
	// ID is the unique identifier for the note, assigned at creation.
	ID string `json:"id"`
	// OwnerID references the user who created the note. Never reassigned.
	OwnerID string `json:"ownerId"`
	// Subject is the required label of the note.
	Subject string `json:"subject"`
	// Caption is optional free text.
	Caption string `json:"caption,omitempty"`
	// Kind is "file" or "link", immutable after creation.
	Kind NoteKind `json:"kind"`

	// StoragePath is the opaque handle into the blob store (file kind only).
	StoragePath string `json:"-"`
	// OriginalName is the filename the uploader supplied (file kind only).
	OriginalName string `json:"originalName,omitempty"`
	// ByteSize is the stored blob size in bytes (file kind only).
	ByteSize int64 `json:"byteSize,omitempty"`
	// MediaType is the declared MIME type of the blob (file kind only).
	MediaType string `json:"mediaType,omitempty"`

	// TargetURL is the shared link (link kind only).
	TargetURL string `json:"targetUrl,omitempty"`

	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"createdAt"`
}

// PublicNote is a note as shown on the public listing, with the owner's
// display name attached via a read-only join.
type PublicNote struct {
	Note
	// OwnerName is the display name of the note's owner.
	OwnerName string `json:"ownerName"`
}

// Session represents an issued identity token. Only the SHA-256 hash of
// the raw token is ever persisted.
type Session struct {
	// TokenHash is the hex SHA-256 of the raw bearer token.
	TokenHash string
	// UserID is the user the token authenticates.
	UserID string
	// ExpiresAt is the instant after which the token is rejected.
	ExpiresAt time.Time
	// CreatedAt is when the token was issued.
	CreatedAt time.Time
}
