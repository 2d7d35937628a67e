package service

import (
	"context"
	"log/slog"

	"github.com/notedownapp/notedown-server/internal/domain"
	"github.com/notedownapp/notedown-server/internal/errors"
	"github.com/notedownapp/notedown-server/internal/id"
	"github.com/notedownapp/notedown-server/internal/store"
	"github.com/notedownapp/notedown-server/internal/validation"
)

// NoteService orchestrates note operations within an owner's libraries.
// Every operation resolves the parent library first; a library the owner
// does not hold yields NOT_FOUND before any note state is touched.
type NoteService struct {
	store    store.Store
	validate *validation.Validator
	logger   *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store store.Store, validate *validation.Validator, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:    store,
		validate: validate,
		logger:   logger,
	}
}

// Create adds a note to the owner's library identified by librarySlug.
// The name must be unique (as name and as slug) within that library.
func (s *NoteService) Create(ctx context.Context, ownerID, librarySlug, name, content string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create note")
	}

	lib, err := s.store.GetLibraryBySlug(ctx, ownerID, librarySlug)
	if err != nil {
		return nil, translateStoreError(err, "library", librarySlug)
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate note ID")
	}

	note, err := domain.NewNote(noteID, lib.ID, ownerID, name, content)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, translateStoreError(err, "note", note.Name)
	}

	s.logger.Info("note created",
		"note_id", note.ID,
		"library_id", lib.ID,
		"owner_id", ownerID,
		"slug", note.Slug,
	)

	return note, nil
}

// Get resolves a note by library slug and note slug for the owner.
func (s *NoteService) Get(ctx context.Context, ownerID, librarySlug, noteSlug string) (*domain.Note, error) {
	lib, err := s.store.GetLibraryBySlug(ctx, ownerID, librarySlug)
	if err != nil {
		return nil, translateStoreError(err, "library", librarySlug)
	}

	note, err := s.store.GetNoteBySlug(ctx, lib.ID, noteSlug)
	if err != nil {
		return nil, translateStoreError(err, "note", noteSlug)
	}
	return note, nil
}

// Rename changes a note's name, deriving the new slug alongside it.
// Content is untouched. Renaming a note to its own name is always allowed.
func (s *NoteService) Rename(ctx context.Context, ownerID, librarySlug, noteSlug, newName string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "rename note")
	}

	note, err := s.Get(ctx, ownerID, librarySlug, noteSlug)
	if err != nil {
		return nil, err
	}

	if err := note.Rename(newName); err != nil {
		return nil, err
	}

	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, translateStoreError(err, "note", note.Name)
	}

	s.logger.Info("note renamed",
		"note_id", note.ID,
		"library_id", note.LibraryID,
		"slug", note.Slug,
	)

	return note, nil
}

// UpdateContent replaces a note's content. Name and slug never change here,
// so the note stays addressable at the same path.
func (s *NoteService) UpdateContent(ctx context.Context, ownerID, librarySlug, noteSlug, content string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "update note content")
	}

	note, err := s.Get(ctx, ownerID, librarySlug, noteSlug)
	if err != nil {
		return nil, err
	}

	note.SetContent(content)

	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, translateStoreError(err, "note", note.Name)
	}

	s.logger.Info("note content updated",
		"note_id", note.ID,
		"library_id", note.LibraryID,
	)

	return note, nil
}

// Delete removes a note, returning the deleted note. The parent library's
// note count is adjusted in the same atomic unit as the removal.
func (s *NoteService) Delete(ctx context.Context, ownerID, librarySlug, noteSlug string) (*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "delete note")
	}

	note, err := s.Get(ctx, ownerID, librarySlug, noteSlug)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteNote(ctx, note.ID)
	if err != nil {
		return nil, translateStoreError(err, "note", noteSlug)
	}

	s.logger.Info("note deleted",
		"note_id", deleted.ID,
		"library_id", deleted.LibraryID,
		"owner_id", ownerID,
	)

	return deleted, nil
}

// List returns one page of the library's notes.
func (s *NoteService) List(ctx context.Context, ownerID, librarySlug string, opts ListOptions) (*store.Page[*domain.Note], error) {
	if err := s.validate.Validate(opts); err != nil {
		return nil, err
	}

	lib, err := s.store.GetLibraryBySlug(ctx, ownerID, librarySlug)
	if err != nil {
		return nil, translateStoreError(err, "library", librarySlug)
	}

	page, err := s.store.ListNotes(ctx, lib.ID, opts.params())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list notes")
	}
	return page, nil
}
