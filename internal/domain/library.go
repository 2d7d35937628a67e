// Package domain defines the core entities of the Notedown registry.
package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/notedownapp/notedown-server/internal/errors"
	"github.com/notedownapp/notedown-server/internal/slug"
)

// Name length bounds shared by libraries and notes.
const (
	NameMinLen = 1
	NameMaxLen = 50
)

// Library is a named collection of notes owned by a single user.
// Identity (ID) is immutable; Name and Slug only ever change together,
// and NoteCount tracks the live number of child notes.
type Library struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	NoteCount int       `json:"note_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLibrary constructs a validated library with a derived slug and zero notes.
func NewLibrary(id, ownerID, name string) (*Library, error) {
	name, s, err := normalizeLibraryName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Library{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Slug:      s,
		NoteCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename updates the library name and slug together.
// The two fields are never mutated independently.
func (l *Library) Rename(newName string) error {
	name, s, err := normalizeLibraryName(newName)
	if err != nil {
		return err
	}

	l.Name = name
	l.Slug = s
	l.UpdatedAt = time.Now()
	return nil
}

// normalizeLibraryName trims, validates, and slugs a library name.
func normalizeLibraryName(name string) (string, string, error) {
	trimmed := trimName(name)
	if err := ValidateLibraryName(trimmed); err != nil {
		return "", "", err
	}

	s := slug.Make(trimmed)
	if s == "" {
		return "", "", errors.Validation("library name must contain at least one letter or digit")
	}
	return trimmed, s, nil
}

// trimName strips surrounding whitespace before validation,
// mirroring the trim-on-write behavior of the persisted schema.
func trimName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateLibraryName checks length and charset (letters, digits, spaces).
func ValidateLibraryName(name string) error {
	if len(name) < NameMinLen || len(name) > NameMaxLen {
		return errors.Validationf("library name must be between %d and %d characters", NameMinLen, NameMaxLen)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return errors.Validation("library name may only contain letters, digits, and spaces")
		}
	}
	return nil
}
