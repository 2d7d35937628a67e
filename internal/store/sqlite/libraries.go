package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notedownapp/notedown-server/internal/domain"
	"github.com/notedownapp/notedown-server/internal/store"
)

// libraryColumns is the ordered list of columns selected in library queries.
// Must match the scan order in scanLibrary.
const libraryColumns = `id, owner_id, name, slug, note_count, created_at, updated_at`

// scanLibrary scans a sql.Row (or sql.Rows via its Scan method) into a domain.Library.
func scanLibrary(scanner interface{ Scan(dest ...any) error }) (*domain.Library, error) {
	var lib domain.Library

	var createdAt, updatedAt string

	err := scanner.Scan(
		&lib.ID,
		&lib.OwnerID,
		&lib.Name,
		&lib.Slug,
		&lib.NoteCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	lib.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	lib.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &lib, nil
}

// CreateLibrary inserts a new library.
// Returns store.ErrAlreadyExists when the owner already has a library with
// the same name or slug (unique index rejection).
func (s *Store) CreateLibrary(ctx context.Context, lib *domain.Library) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO libraries (
			id, owner_id, name, slug, note_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		lib.ID,
		lib.OwnerID,
		lib.Name,
		lib.Slug,
		lib.NoteCount,
		formatTime(lib.CreatedAt),
		formatTime(lib.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("create library: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("library created", "id", lib.ID, "owner_id", lib.OwnerID, "slug", lib.Slug)
	}
	return nil
}

// GetLibraryBySlug retrieves a library by owner and slug.
// Returns store.ErrNotFound when absent or owned by someone else.
func (s *Store) GetLibraryBySlug(ctx context.Context, ownerID, slug string) (*domain.Library, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+libraryColumns+` FROM libraries WHERE owner_id = ? AND slug = ?`,
		ownerID, slug)

	lib, err := scanLibrary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get library: %w", err)
	}
	return lib, nil
}

// UpdateLibrary rewrites a library row identified by lib.ID.
// The unique indexes reject name/slug collisions with the owner's other
// libraries; the row being updated never collides with itself.
func (s *Store) UpdateLibrary(ctx context.Context, lib *domain.Library) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE libraries
		SET name = ?, slug = ?, note_count = ?, updated_at = ?
		WHERE id = ?`,
		lib.Name,
		lib.Slug,
		lib.NoteCount,
		formatTime(lib.UpdatedAt),
		lib.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("update library: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update library: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if s.logger != nil {
		s.logger.Info("library updated", "id", lib.ID, "slug", lib.Slug)
	}
	return nil
}

// DeleteLibraryCascade deletes a library and every note referencing it in
// one SQL transaction. Not-found is resolved before the transaction opens;
// a failure after that rolls the whole unit back.
func (s *Store) DeleteLibraryCascade(ctx context.Context, ownerID, slug string) (*domain.Library, error) {
	lib, err := s.GetLibraryBySlug(ctx, ownerID, slug)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", store.ErrTxnFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM notes WHERE library_id = ?`, lib.ID); err != nil {
		return nil, fmt.Errorf("%w: delete notes: %v", store.ErrTxnFailed, err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM libraries WHERE id = ? AND owner_id = ?`, lib.ID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: delete library: %v", store.ErrTxnFailed, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: delete library: %v", store.ErrTxnFailed, err)
	}
	if affected == 0 {
		// Vanished between the resolve and the transaction.
		return nil, store.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", store.ErrTxnFailed, err)
	}

	if s.logger != nil {
		s.logger.Info("library deleted", "id", lib.ID, "owner_id", ownerID)
	}
	return lib, nil
}

// ListLibraries returns one page of the owner's libraries.
// Rows are windowed in memory through the shared paginator so ordering and
// clamping semantics match the Badger backend exactly.
func (s *Store) ListLibraries(ctx context.Context, ownerID string, params store.ListParams) (*store.Page[*domain.Library], error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+libraryColumns+` FROM libraries WHERE owner_id = ?`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	defer rows.Close()

	var libraries []*domain.Library
	for rows.Next() {
		lib, err := scanLibrary(rows)
		if err != nil {
			return nil, fmt.Errorf("list libraries: %w", err)
		}
		libraries = append(libraries, lib)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}

	return store.PaginateLibraries(libraries, params), nil
}
