package domain

import (
	"time"

	"github.com/notedownapp/notedown-server/internal/errors"
	"github.com/notedownapp/notedown-server/internal/slug"
)

// Note is a content document that lives inside exactly one library.
// LibraryID is immutable after creation. OwnerID is denormalized from
// the owning library for query efficiency and is never mutated independently.
type Note struct {
	ID        string    `json:"id"`
	LibraryID string    `json:"library_id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote constructs a validated note under the given library.
// The owner must be the owning library's owner; callers resolve
// the parent before constructing.
func NewNote(id, libraryID, ownerID, name, content string) (*Note, error) {
	name, s, err := normalizeNoteName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Note{
		ID:        id,
		LibraryID: libraryID,
		OwnerID:   ownerID,
		Name:      name,
		Slug:      s,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename updates the note name and slug together.
func (n *Note) Rename(newName string) error {
	name, s, err := normalizeNoteName(newName)
	if err != nil {
		return err
	}

	n.Name = name
	n.Slug = s
	n.UpdatedAt = time.Now()
	return nil
}

// SetContent replaces the note body. Name and slug are untouched.
func (n *Note) SetContent(content string) {
	n.Content = content
	n.UpdatedAt = time.Now()
}

// normalizeNoteName trims, validates, and slugs a note name.
func normalizeNoteName(name string) (string, string, error) {
	trimmed := trimName(name)
	if err := ValidateNoteName(trimmed); err != nil {
		return "", "", err
	}

	s := slug.Make(trimmed)
	if s == "" {
		return "", "", errors.Validation("note name must contain at least one letter or digit")
	}
	return trimmed, s, nil
}

// ValidateNoteName checks length only; note names allow punctuation.
func ValidateNoteName(name string) error {
	if len(name) < NameMinLen || len(name) > NameMaxLen {
		return errors.Validationf("note name must be between %d and %d characters", NameMinLen, NameMaxLen)
	}
	return nil
}
