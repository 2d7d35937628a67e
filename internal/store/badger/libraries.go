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

var _ store.Store = (*Store)(nil)

// assertAvailable checks a uniqueness index entry inside the write
// transaction that also performs the mutation, which bounds the
// check-then-write race to Badger's own conflict detection.
// The entry is free when absent or when it already points at excludeID,
// so renames never collide with the entity being renamed.
func assertAvailable(txn *badgerdb.Txn, key []byte, excludeID string) error {
	id, err := lookupID(txn, key)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if id != excludeID {
		return store.ErrAlreadyExists
	}
	return nil
}

// CreateLibrary persists a new library together with its uniqueness index
// entries and owner membership, all in one transaction.
func (s *Store) CreateLibrary(_ context.Context, lib *domain.Library) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		nameKey := libraryNameKey(lib.OwnerID, lib.Name)
		if err := assertAvailable(txn, nameKey, ""); err != nil {
			return err
		}
		slugKey := librarySlugKey(lib.OwnerID, lib.Slug)
		if err := assertAvailable(txn, slugKey, ""); err != nil {
			return err
		}

		if err := setJSON(txn, libraryKey(lib.ID), lib); err != nil {
			return err
		}
		if err := txn.Set(nameKey, []byte(lib.ID)); err != nil {
			return err
		}
		if err := txn.Set(slugKey, []byte(lib.ID)); err != nil {
			return err
		}

		ownerKey := librariesByOwnerKey(lib.OwnerID)
		ids, err := readIDList(txn, ownerKey)
		if err != nil {
			return err
		}
		return setJSON(txn, ownerKey, append(ids, lib.ID))
	})
	if err != nil {
		// A concurrent commit that touched the same index entries lost the
		// race to the engine; surface it as the uniqueness rejection it is.
		if errors.Is(err, badgerdb.ErrConflict) {
			return store.ErrAlreadyExists
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("create library: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("library created", "id", lib.ID, "owner_id", lib.OwnerID, "slug", lib.Slug)
	}
	return nil
}

// GetLibraryBySlug resolves a library through the owner-scoped slug index.
func (s *Store) GetLibraryBySlug(_ context.Context, ownerID, slug string) (*domain.Library, error) {
	var lib domain.Library

	err := s.db.View(func(txn *badgerdb.Txn) error {
		id, err := lookupID(txn, librarySlugKey(ownerID, slug))
		if err != nil {
			return err
		}
		return getJSON(txn, libraryKey(id), &lib)
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get library: %w", err)
	}

	return &lib, nil
}

// UpdateLibrary rewrites a library record, moving the name/slug index
// entries when those fields changed. Uniqueness checks exclude lib.ID.
func (s *Store) UpdateLibrary(_ context.Context, lib *domain.Library) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		var stored domain.Library
		if err := getJSON(txn, libraryKey(lib.ID), &stored); err != nil {
			return err
		}

		if stored.Name != lib.Name {
			newKey := libraryNameKey(lib.OwnerID, lib.Name)
			if err := assertAvailable(txn, newKey, lib.ID); err != nil {
				return err
			}
			if err := txn.Delete(libraryNameKey(stored.OwnerID, stored.Name)); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(lib.ID)); err != nil {
				return err
			}
		}

		if stored.Slug != lib.Slug {
			newKey := librarySlugKey(lib.OwnerID, lib.Slug)
			if err := assertAvailable(txn, newKey, lib.ID); err != nil {
				return err
			}
			if err := txn.Delete(librarySlugKey(stored.OwnerID, stored.Slug)); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(lib.ID)); err != nil {
				return err
			}
		}

		return setJSON(txn, libraryKey(lib.ID), lib)
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
			return fmt.Errorf("update library: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("library updated", "id", lib.ID, "slug", lib.Slug)
	}
	return nil
}

// DeleteLibraryCascade deletes a library and every note referencing it as
// one atomic unit. The not-found case is resolved before the write
// transaction opens; once inside, any failure aborts the whole unit and no
// partial state (library gone but notes remaining, or vice versa) is ever
// observable.
func (s *Store) DeleteLibraryCascade(ctx context.Context, ownerID, slug string) (*domain.Library, error) {
	lib, err := s.GetLibraryBySlug(ctx, ownerID, slug)
	if err != nil {
		return nil, err
	}

	noteCount := 0
	err = s.db.Update(func(txn *badgerdb.Txn) error {
		// Re-read inside the transaction; the library may have been
		// renamed or removed since the resolve above.
		if err := getJSON(txn, libraryKey(lib.ID), lib); err != nil {
			return err
		}

		if err := txn.Delete(libraryKey(lib.ID)); err != nil {
			return err
		}
		if err := txn.Delete(libraryNameKey(lib.OwnerID, lib.Name)); err != nil {
			return err
		}
		if err := txn.Delete(librarySlugKey(lib.OwnerID, lib.Slug)); err != nil {
			return err
		}

		ownerKey := librariesByOwnerKey(lib.OwnerID)
		ids, err := readIDList(txn, ownerKey)
		if err != nil {
			return err
		}
		ids = slices.DeleteFunc(ids, func(id string) bool { return id == lib.ID })
		if err := setJSON(txn, ownerKey, ids); err != nil {
			return err
		}

		// Delete the dependent notes and their index entries.
		notesKey := notesByLibraryKey(lib.ID)
		noteIDs, err := readIDList(txn, notesKey)
		if err != nil {
			return err
		}
		for _, noteID := range noteIDs {
			var note domain.Note
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
			noteCount++
		}
		return txn.Delete(notesKey)
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("%w: delete library cascade: %v", store.ErrTxnFailed, err)
	}

	if s.logger != nil {
		s.logger.Info("library deleted", "id", lib.ID, "owner_id", lib.OwnerID, "notes_deleted", noteCount)
	}
	return lib, nil
}

// ListLibraries returns one page of the owner's libraries.
func (s *Store) ListLibraries(_ context.Context, ownerID string, params store.ListParams) (*store.Page[*domain.Library], error) {
	var libraries []*domain.Library

	err := s.db.View(func(txn *badgerdb.Txn) error {
		ids, err := readIDList(txn, librariesByOwnerKey(ownerID))
		if err != nil {
			return err
		}

		libraries = make([]*domain.Library, 0, len(ids))
		for _, id := range ids {
			var lib domain.Library
			if err := getJSON(txn, libraryKey(id), &lib); err != nil {
				return err
			}
			libraries = append(libraries, &lib)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}

	return store.PaginateLibraries(libraries, params), nil
}
