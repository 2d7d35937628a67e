// Package store defines the persistence interface for the Notedown registry
// and the listing semantics shared by its backends.
package store

import (
	"context"

	"github.com/notedownapp/notedown-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Uniqueness invariants are enforced by the backends themselves, inside the
// same write unit as the mutation: a pre-check performed outside the store
// would leave a duplicate-creation race, so the store's rejection
// (ErrAlreadyExists) is the authoritative guard.
type Store interface {
	// Lifecycle
	Close() error

	// Libraries
	// CreateLibrary persists a new library. Returns ErrAlreadyExists when the
	// owner already has a library with the same name or slug.
	CreateLibrary(ctx context.Context, lib *domain.Library) error
	// GetLibraryBySlug resolves a library by owner and slug.
	// Returns ErrNotFound when absent or owned by someone else.
	GetLibraryBySlug(ctx context.Context, ownerID, slug string) (*domain.Library, error)
	// UpdateLibrary rewrites a library record identified by lib.ID,
	// re-checking name/slug uniqueness against the owner's other libraries.
	UpdateLibrary(ctx context.Context, lib *domain.Library) error
	// DeleteLibraryCascade removes a library and every note that references it
	// as one atomic unit. Returns the deleted library. Returns ErrNotFound
	// before any write when the library does not exist for the owner, and
	// ErrTxnFailed when the unit could not commit (no partial state remains).
	DeleteLibraryCascade(ctx context.Context, ownerID, slug string) (*domain.Library, error)
	// ListLibraries returns one page of the owner's libraries.
	ListLibraries(ctx context.Context, ownerID string, params ListParams) (*Page[*domain.Library], error)

	// Notes
	// CreateNote persists a new note and increments the parent library's
	// NoteCount in the same write unit. Returns ErrNotFound when the parent
	// is gone, ErrAlreadyExists on a name/slug collision within the library.
	CreateNote(ctx context.Context, note *domain.Note) error
	// GetNoteBySlug resolves a note by its parent library and slug.
	GetNoteBySlug(ctx context.Context, libraryID, slug string) (*domain.Note, error)
	// UpdateNote rewrites a note record identified by note.ID, re-checking
	// name/slug uniqueness against the library's other notes.
	UpdateNote(ctx context.Context, note *domain.Note) error
	// DeleteNote removes a note and decrements the parent library's NoteCount
	// in the same write unit. Returns ErrTxnFailed when the unit fails.
	DeleteNote(ctx context.Context, noteID string) (*domain.Note, error)
	// ListNotes returns one page of a library's notes.
	ListNotes(ctx context.Context, libraryID string, params ListParams) (*Page[*domain.Note], error)
	// CountNotes returns the live number of notes referencing a library.
	CountNotes(ctx context.Context, libraryID string) (int, error)
}
