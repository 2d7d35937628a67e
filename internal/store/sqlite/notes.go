package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notedownapp/notedown-server/internal/domain"
	"github.com/notedownapp/notedown-server/internal/store"
)

// noteColumns is the ordered list of columns selected in note queries.
// Must match the scan order in scanNote.
const noteColumns = `id, library_id, owner_id, name, slug, content, created_at, updated_at`

// scanNote scans a sql.Row (or sql.Rows via its Scan method) into a domain.Note.
func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var note domain.Note

	var createdAt, updatedAt string

	err := scanner.Scan(
		&note.ID,
		&note.LibraryID,
		&note.OwnerID,
		&note.Name,
		&note.Slug,
		&note.Content,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	note.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	note.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &note, nil
}

// CreateNote inserts a new note and increments the parent library's
// note_count in one transaction, so the counter never drifts from the live
// note set on a partial failure.
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create note: begin: %w", err)
	}
	defer tx.Rollback()

	// Resolve the parent inside the transaction so the insert and the
	// counter update see the same library row.
	var libID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM libraries WHERE id = ?`, note.LibraryID).Scan(&libID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create note: resolve library: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (
			id, library_id, owner_id, name, slug, content, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.LibraryID,
		note.OwnerID,
		note.Name,
		note.Slug,
		note.Content,
		formatTime(note.CreatedAt),
		formatTime(note.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("create note: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE libraries SET note_count = note_count + 1 WHERE id = ?`,
		note.LibraryID); err != nil {
		return fmt.Errorf("create note: increment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create note: commit: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("note created", "id", note.ID, "library_id", note.LibraryID, "slug", note.Slug)
	}
	return nil
}

// GetNoteBySlug retrieves a note by its parent library and slug.
func (s *Store) GetNoteBySlug(ctx context.Context, libraryID, slug string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE library_id = ? AND slug = ?`,
		libraryID, slug)

	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// UpdateNote rewrites a note row identified by note.ID.
// Name/slug collisions with the library's other notes are rejected by the
// unique indexes; the row being updated never collides with itself.
func (s *Store) UpdateNote(ctx context.Context, note *domain.Note) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes
		SET name = ?, slug = ?, content = ?, updated_at = ?
		WHERE id = ?`,
		note.Name,
		note.Slug,
		note.Content,
		formatTime(note.UpdatedAt),
		note.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("update note: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if s.logger != nil {
		s.logger.Info("note updated", "id", note.ID, "slug", note.Slug)
	}
	return nil
}

// DeleteNote removes a note and decrements the parent library's note_count
// in one transaction. Returns the deleted note.
func (s *Store) DeleteNote(ctx context.Context, noteID string) (*domain.Note, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", store.ErrTxnFailed, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, noteID)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: resolve note: %v", store.ErrTxnFailed, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ?`, noteID); err != nil {
		return nil, fmt.Errorf("%w: delete note: %v", store.ErrTxnFailed, err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE libraries
		SET note_count = note_count - 1
		WHERE id = ? AND note_count > 0`,
		note.LibraryID); err != nil {
		return nil, fmt.Errorf("%w: decrement count: %v", store.ErrTxnFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", store.ErrTxnFailed, err)
	}

	if s.logger != nil {
		s.logger.Info("note deleted", "id", note.ID, "library_id", note.LibraryID)
	}
	return note, nil
}

// ListNotes returns one page of a library's notes.
// Rows are windowed in memory through the shared paginator so ordering and
// clamping semantics match the Badger backend exactly.
func (s *Store) ListNotes(ctx context.Context, libraryID string, params store.ListParams) (*store.Page[*domain.Note], error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE library_id = ?`, libraryID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return store.PaginateNotes(notes, params), nil
}

// CountNotes returns the live number of notes referencing a library.
func (s *Store) CountNotes(ctx context.Context, libraryID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE library_id = ?`, libraryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}
