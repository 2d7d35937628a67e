package badger_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedownapp/notedown-server/internal/domain"
	"github.com/notedownapp/notedown-server/internal/store"
	"github.com/notedownapp/notedown-server/internal/store/badger"
)

func setupTestStore(t *testing.T) *badger.Store {
	t.Helper()

	st, err := badger.Open(t.TempDir(), nil)
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

func TestStore_CreateAndGetLibrary(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	lib := mustLibrary(t, "lib-1", "user-1", "Reading List")
	require.NoError(t, st.CreateLibrary(ctx, lib))

	got, err := st.GetLibraryBySlug(ctx, "user-1", "reading-list")
	require.NoError(t, err)
	assert.Equal(t, "lib-1", got.ID)
	assert.Equal(t, "Reading List", got.Name)
	assert.Equal(t, 0, got.NoteCount)
}

func TestStore_CreateLibraryNameTaken(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "Recipes")))

	err := st.CreateLibrary(ctx, mustLibrary(t, "lib-2", "user-1", "Recipes"))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// The same name under a different owner is free.
	err = st.CreateLibrary(ctx, mustLibrary(t, "lib-3", "user-2", "Recipes"))
	assert.NoError(t, err)
}

func TestStore_CreateLibrarySlugTaken(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "My Notes")))

	// Different name, same derived slug.
	err := st.CreateLibrary(ctx, mustLibrary(t, "lib-2", "user-1", "MY NOTES"))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestStore_GetLibraryNotFound(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	_, err := st.GetLibraryBySlug(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_UpdateLibraryMovesIndexes(t *testing.T) {
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

	// The vacated name is free for a new library.
	assert.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-2", "user-1", "Old Name")))
}

func TestStore_UpdateLibrarySelfExclusion(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	lib := mustLibrary(t, "lib-1", "user-1", "Stable")
	require.NoError(t, st.CreateLibrary(ctx, lib))

	// Rewriting a library without changing name/slug must not trip the
	// uniqueness check against its own index entries.
	lib.NoteCount = 5
	assert.NoError(t, st.UpdateLibrary(ctx, lib))
}

func TestStore_UpdateLibraryConflict(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "First")))

	second := mustLibrary(t, "lib-2", "user-1", "Second")
	require.NoError(t, st.CreateLibrary(ctx, second))

	require.NoError(t, second.Rename("First"))
	err := st.UpdateLibrary(ctx, second)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestStore_UpdateLibraryNotFound(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	ghost := mustLibrary(t, "lib-ghost", "user-1", "Ghost")
	err := st.UpdateLibrary(ctx, ghost)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_DeleteLibraryCascade(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	lib := mustLibrary(t, "lib-1", "user-1", "Doomed")
	require.NoError(t, st.CreateLibrary(ctx, lib))

	for i := range 4 {
		note := mustNote(t, fmt.Sprintf("note-%d", i), "lib-1", "user-1", fmt.Sprintf("Note %d", i), "body")
		require.NoError(t, st.CreateNote(ctx, note))
	}

	deleted, err := st.DeleteLibraryCascade(ctx, "user-1", "doomed")
	require.NoError(t, err)
	assert.Equal(t, "lib-1", deleted.ID)
	assert.Equal(t, 4, deleted.NoteCount)

	_, err = st.GetLibraryBySlug(ctx, "user-1", "doomed")
	assert.ErrorIs(t, err, store.ErrNotFound)

	for i := range 4 {
		_, err := st.GetNoteBySlug(ctx, "lib-1", fmt.Sprintf("note-%d", i))
		assert.ErrorIs(t, err, store.ErrNotFound)
	}

	count, err := st.CountNotes(ctx, "lib-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// All index entries were released with the records.
	assert.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-2", "user-1", "Doomed")))
}

func TestStore_DeleteLibraryCascadeNotFound(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	_, err := st.DeleteLibraryCascade(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_DeleteLibraryCascadeLeavesSiblings(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-1", "user-1", "Doomed")))
	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-2", "user-1", "Keeper")))

	require.NoError(t, st.CreateNote(ctx, mustNote(t, "note-1", "lib-2", "user-1", "Survivor", "")))

	_, err := st.DeleteLibraryCascade(ctx, "user-1", "doomed")
	require.NoError(t, err)

	got, err := st.GetNoteBySlug(ctx, "lib-2", "survivor")
	require.NoError(t, err)
	assert.Equal(t, "note-1", got.ID)

	page, err := st.ListLibraries(ctx, "user-1", store.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Keeper", page.Items[0].Name)
}

func TestStore_ListLibraries(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"Charlie", "Alpha", "Bravo"} {
		require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, fmt.Sprintf("lib-%d", i), "user-1", name)))
	}
	require.NoError(t, st.CreateLibrary(ctx, mustLibrary(t, "lib-x", "user-2", "Other")))

	page, err := st.ListLibraries(ctx, "user-1", store.ListParams{})
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	assert.Equal(t, "Alpha", page.Items[0].Name)
	assert.Equal(t, "Charlie", page.Items[2].Name)
	assert.Equal(t, 3, page.Pagination.TotalItems)
}

func TestStore_ListLibrariesEmpty(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	page, err := st.ListLibraries(ctx, "user-1", store.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}
