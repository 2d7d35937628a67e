package domain

import (
	"strings"
	"testing"

	"github.com/notedownapp/notedown-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLibrary(t *testing.T) {
	lib, err := NewLibrary("lib-001", "user-001", "Data Structures")
	require.NoError(t, err)

	assert.Equal(t, "lib-001", lib.ID)
	assert.Equal(t, "user-001", lib.OwnerID)
	assert.Equal(t, "Data Structures", lib.Name)
	assert.Equal(t, "data-structures", lib.Slug)
	assert.Equal(t, 0, lib.NoteCount)
	assert.False(t, lib.CreatedAt.IsZero())
	assert.Equal(t, lib.CreatedAt, lib.UpdatedAt)
}

func TestNewLibrary_TrimsName(t *testing.T) {
	lib, err := NewLibrary("lib-001", "user-001", "  Algorithms  ")
	require.NoError(t, err)

	assert.Equal(t, "Algorithms", lib.Name)
	assert.Equal(t, "algorithms", lib.Slug)
}

func TestNewLibrary_InvalidNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"only whitespace", "   "},
		{"too long", strings.Repeat("a", 51)},
		{"punctuation", "my/library"},
		{"underscore", "my_library"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLibrary("lib-001", "user-001", tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

func TestLibrary_Rename(t *testing.T) {
	lib, err := NewLibrary("lib-001", "user-001", "Old Name")
	require.NoError(t, err)

	created := lib.CreatedAt

	err = lib.Rename("New Name")
	require.NoError(t, err)

	assert.Equal(t, "New Name", lib.Name)
	assert.Equal(t, "new-name", lib.Slug)
	assert.Equal(t, created, lib.CreatedAt)
	assert.True(t, !lib.UpdatedAt.Before(created))
}

func TestLibrary_Rename_Invalid(t *testing.T) {
	lib, err := NewLibrary("lib-001", "user-001", "Old Name")
	require.NoError(t, err)

	err = lib.Rename("")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValidation)

	// A failed rename leaves the entity untouched.
	assert.Equal(t, "Old Name", lib.Name)
	assert.Equal(t, "old-name", lib.Slug)
}

func TestValidateLibraryName_Charset(t *testing.T) {
	assert.NoError(t, ValidateLibraryName("Top 10 Books"))
	assert.Error(t, ValidateLibraryName("notes!"))
	assert.Error(t, ValidateLibraryName("a/b"))
}
