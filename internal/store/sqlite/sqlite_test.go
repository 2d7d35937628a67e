package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedownapp/notedown-server/internal/domain"
	"github.com/notedownapp/notedown-server/internal/store"
	"github.com/notedownapp/notedown-server/internal/store/sqlite"
)

func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return st
}

func mustLibrary(t *testing.T, id, ownerID, name string) *domain.Library {
	t.Helper()

	lib, err := domain.NewLibrary(id, ownerID, name)
	require.NoError(t, err)
	return lib
}

func mustNote(t *testing.T, id, libraryID, ownerID, name, content string) *domain.Note {
	t.Helper()

	note, err := domain.NewNote(id, libraryID, ownerID, name, content)
	require.NoError(t, err)
	return note
}

func TestStore_LibraryRoundTrip(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	lib := mustLibrary(t, "lib-1", "user-1", "Reading List")
	require.NoError(t, st.CreateLibrary(ctx, lib))

	got, err := st.GetLibraryBySlug(ctx, "user-1", "reading-list")
	require.NoError(t, err)
	assert.Equal(t, "lib-1", got.ID)
	assert.Equal(t, "Reading List", got.Name)
	assert.Equal(t, 0, got.NoteCount)
	assert.True(t, got.CreatedAt.Equal(lib.CreatedAt))
}

func TestStore_CreateLibraryUniqueIndexes(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "Recipes")))

	// Same name, same owner.
	err := st.CreateLibrary(ctx, mustLibrary(t, "lib-2", "user-1", "Recipes"))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// Different name, same slug.
	err = st.CreateLibrary(ctx, mustLibrary(t, "lib-3", "user-1", "RECIPES"))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// Same name, different owner.
	assert.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-4", "user-2", "Recipes")))
}

func TestStore_GetLibraryScopedToOwner(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "Private")))

	_, err := st.GetLibraryBySlug(ctx, "user-2", "private")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_UpdateLibrary(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	lib := mustLibrary(t, "lib-1", "user-1", "Old Name")
	require.NoError(t, st.CreateLibrary(ctx, lib))

	require.NoError(t, lib.Rename("New Name"))
	require.NoError(t, st.UpdateLibrary(ctx, lib))

	_, err := st.GetLibraryBySlug(ctx, "user-1", "old-name")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.GetLibraryBySlug(ctx, "user-1", "new-name")
	require.NoError(t, err)
	assert.Equal(t, "lib-1", got.ID)
}

func TestStore_UpdateLibraryConflictAndNotFound(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "First")))

	second := mustLibrary(t, "lib-2", "user-1", "Second")
	require.NoError(t, st.CreateLibrary(ctx, second))

	require.NoError(t, second.Rename("First"))
	assert.ErrorIs(t, st.UpdateLibrary(ctx, second), store.ErrAlreadyExists)

	ghost := mustLibrary(t, "lib-ghost", "user-1", "Ghost")
	assert.ErrorIs(t, st.UpdateLibrary(ctx, ghost), store.ErrNotFound)
}

func TestStore_NoteLifecycle(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "Journal")))

	note := mustNote(t, "note-1", "lib-1", "user-1", "Meeting Notes", "agenda")
	require.NoError(t, st.CreateNote(ctx, note))

	// Counter moved with the insert.
	lib, err := st.GetLibraryBySlug(ctx, "user-1", "journal")
	require.NoError(t, err)
	assert.Equal(t, 1, lib.NoteCount)

	got, err := st.GetNoteBySlug(ctx, "lib-1", "meeting-notes")
	require.NoError(t, err)
	assert.Equal(t, "note-1", got.ID)
	assert.Equal(t, "agenda", got.Content)

	require.NoError(t, got.Rename("Retro Notes"))
	require.NoError(t, st.UpdateNote(ctx, got))

	_, err = st.GetNoteBySlug(ctx, "lib-1", "meeting-notes")
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := st.DeleteNote(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, "Retro Notes", deleted.Name)

	lib, err = st.GetLibraryBySlug(ctx, "user-1", "journal")
	require.NoError(t, err)
	assert.Equal(t, 0, lib.NoteCount)
}

func TestStore_CreateNoteMissingLibrary(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	err := st.CreateNote(ctx, mustNote(t, "note-1", "lib-ghost", "user-1", "Orphan", ""))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_CreateNoteUniqueWithinLibrary(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "Work")))
	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-2", "user-1", "Home")))

	require.NoError(t, st.CreateNote(ctx, mustNote(t, "note-1", "lib-1", "user-1", "Todo", "")))

	err := st.CreateNote(ctx, mustNote(t, "note-2", "lib-1", "user-1", "Todo", ""))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// The failed insert was rolled back with its counter update.
	lib, err := st.GetLibraryBySlug(ctx, "user-1", "work")
	require.NoError(t, err)
	assert.Equal(t, 1, lib.NoteCount)

	// The same name in a sibling library is free.
	assert.NoError(t, st.CreateNote(ctx, mustNote(t, "note-3", "lib-2", "user-1", "Todo", "")))
}

func TestStore_DeleteLibraryCascade(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "Doomed")))
	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-2", "user-1", "Keeper")))

	for i := range 3 {
		note := mustNote(t, fmt.Sprintf("note-%d", i), "lib-1", "user-1", fmt.Sprintf("Note %d", i), "")
		require.NoError(t, st.CreateNote(ctx, note))
	}
	require.NoError(t, st.CreateNote(ctx, mustNote(t, "note-x", "lib-2", "user-1", "Survivor", "")))

	deleted, err := st.DeleteLibraryCascade(ctx, "user-1", "doomed")
	require.NoError(t, err)
	assert.Equal(t, "lib-1", deleted.ID)
	assert.Equal(t, 3, deleted.NoteCount)

	_, err = st.GetLibraryBySlug(ctx, "user-1", "doomed")
	assert.ErrorIs(t, err, store.ErrNotFound)

	count, err := st.CountNotes(ctx, "lib-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Sibling library and its notes are untouched.
	_, err = st.GetNoteBySlug(ctx, "lib-2", "survivor")
	assert.NoError(t, err)

	// Cascade of a missing library resolves before any write happens.
	_, err = st.DeleteLibraryCascade(ctx, "user-1", "doomed")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ListLibrariesAndNotes(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"Charlie", "Alpha", "Bravo"} {
		require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, fmt.Sprintf("lib-%d", i), "user-1", name)))
	}

	page, err := st.ListLibraries(ctx, "user-1", store.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Alpha", page.Items[0].Name)

	for i := range 12 {
		note := mustNote(t, fmt.Sprintf("note-%02d", i), "lib-0", "user-1", fmt.Sprintf("Note %02d", i), "")
		require.NoError(t, st.CreateNote(ctx, note))
	}

	notes, err := st.ListNotes(ctx, "lib-0", store.ListParams{Page: 2})
	require.NoError(t, err)
	assert.Len(t, notes.Items, 2)
	assert.Equal(t, "Note 10", notes.Items[0].Name)
	assert.Equal(t, 12, notes.Pagination.TotalItems)
}
