package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/notedownapp/notedown-server/internal/domain"
	"github.com/notedownapp/notedown-server/internal/store"
)

// CreateNote persists a new note and increments the parent library's
// NoteCount, all in one transaction. The counter can therefore never drift
// from the live note set on a partial failure.
func (s *Store) CreateNote(_ context.Context, note *domain.Note) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		var lib domain.Library
		if err := getJSON(txn, libraryKey(note.LibraryID), &lib); err != nil {
			return err
		}

		nameKey := noteNameKey(note.LibraryID, note.Name)
		if err := assertAvailable(txn, nameKey, ""); err != nil {
			return err
		}
		slugKey := noteSlugKey(note.LibraryID, note.Slug)
		if err := assertAvailable(txn, slugKey, ""); err != nil {
			return err
		}

		if err := setJSON(txn, noteKey(note.ID), note); err != nil {
			return err
		}
		if err := txn.Set(nameKey, []byte(note.ID)); err != nil {
			return err
		}
		if err := txn.Set(slugKey, []byte(note.ID)); err != nil {
			return err
		}

		notesKey := notesByLibraryKey(note.LibraryID)
		ids, err := readIDList(txn, notesKey)
		if err != nil {
			return err
		}
		if err := setJSON(txn, notesKey, append(ids, note.ID)); err != nil {
			return err
		}

		lib.NoteCount++
		return setJSON(txn, libraryKey(lib.ID), &lib)
	})
	if err != nil {
		switch {
		case errors.Is(err, badgerdb.ErrKeyNotFound):
			return store.ErrNotFound
		case errors.Is(err, badgerdb.ErrConflict):
			return store.ErrAlreadyExists
		case errors.Is(err, store.ErrAlreadyExists):
			return store.ErrAlreadyExists
		default:
			return fmt.Errorf("create note: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("note created", "id", note.ID, "library_id", note.LibraryID, "slug", note.Slug)
	}
	return nil
}

// GetNoteBySlug resolves a note through the library-scoped slug index.
func (s *Store) GetNoteBySlug(_ context.Context, libraryID, slug string) (*domain.Note, error) {
	var note domain.Note

	err := s.db.View(func(txn *badgerdb.Txn) error {
		id, err := lookupID(txn, noteSlugKey(libraryID, slug))
		if err != nil {
			return err
		}
		return getJSON(txn, noteKey(id), &note)
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return &note, nil
}

// UpdateNote rewrites a note record, moving the name/slug index entries
// when those fields changed. Uniqueness checks exclude note.ID.
func (s *Store) UpdateNote(_ context.Context, note *domain.Note) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		var stored domain.Note
		if err := getJSON(txn, noteKey(note.ID), &stored); err != nil {
			return err
		}

		if stored.Name != note.Name {
			newKey := noteNameKey(note.LibraryID, note.Name)
			if err := assertAvailable(txn, newKey, note.ID); err != nil {
				return err
			}
			if err := txn.Delete(noteNameKey(stored.LibraryID, stored.Name)); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(note.ID)); err != nil {
				return err
			}
		}

		if stored.Slug != note.Slug {
			newKey := noteSlugKey(note.LibraryID, note.Slug)
			if err := assertAvailable(txn, newKey, note.ID); err != nil {
				return err
			}
			if err := txn.Delete(noteSlugKey(stored.LibraryID, stored.Slug)); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(note.ID)); err != nil {
				return err
			}
		}

		return setJSON(txn, noteKey(note.ID), note)
	})
	if err != nil {
		switch {
		case errors.Is(err, badgerdb.ErrKeyNotFound):
			return store.ErrNotFound
		case errors.Is(err, badgerdb.ErrConflict):
			return store.ErrAlreadyExists
		case errors.Is(err, store.ErrAlreadyExists):
			return store.ErrAlreadyExists
		default:
			return fmt.Errorf("update note: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("note updated", "id", note.ID, "slug", note.Slug)
	}
	return nil
}

// DeleteNote removes a note, its index entries, and decrements the parent
// library's NoteCount in the same transaction. Returns the deleted note.
func (s *Store) DeleteNote(_ context.Context, noteID string) (*domain.Note, error) {
	var note domain.Note

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		if err := getJSON(txn, noteKey(noteID), &note); err != nil {
			return err
		}

		if err := txn.Delete(noteKey(noteID)); err != nil {
			return err
		}
		if err := txn.Delete(noteNameKey(note.LibraryID, note.Name)); err != nil {
			return err
		}
		if err := txn.Delete(noteSlugKey(note.LibraryID, note.Slug)); err != nil {
			return err
		}

		notesKey := notesByLibraryKey(note.LibraryID)
		ids, err := readIDList(txn, notesKey)
		if err != nil {
			return err
		}
		ids = slices.DeleteFunc(ids, func(id string) bool { return id == noteID })
		if err := setJSON(txn, notesKey, ids); err != nil {
			return err
		}

		var lib domain.Library
		if err := getJSON(txn, libraryKey(note.LibraryID), &lib); err != nil {
			return err
		}
		if lib.NoteCount > 0 {
			lib.NoteCount--
		}
		return setJSON(txn, libraryKey(lib.ID), &lib)
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("%w: delete note: %v", store.ErrTxnFailed, err)
	}

	if s.logger != nil {
		s.logger.Info("note deleted", "id", note.ID, "library_id", note.LibraryID)
	}
	return &note, nil
}

// ListNotes returns one page of a library's notes.
func (s *Store) ListNotes(_ context.Context, libraryID string, params store.ListParams) (*store.Page[*domain.Note], error) {
	var notes []*domain.Note

	err := s.db.View(func(txn *badgerdb.Txn) error {
		ids, err := readIDList(txn, notesByLibraryKey(libraryID))
		if err != nil {
			return err
		}

		notes = make([]*domain.Note, 0, len(ids))
		for _, id := range ids {
			var note domain.Note
			if err := getJSON(txn, noteKey(id), &note); err != nil {
				return err
			}
			notes = append(notes, &note)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return store.PaginateNotes(notes, params), nil
}

// CountNotes returns the live number of notes referencing a library.
func (s *Store) CountNotes(_ context.Context, libraryID string) (int, error) {
	count := 0
	err := s.db.View(func(txn *badgerdb.Txn) error {
		ids, err := readIDList(txn, notesByLibraryKey(libraryID))
		if err != nil {
			return err
		}
		count = len(ids)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}
