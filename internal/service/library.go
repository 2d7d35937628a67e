// Package service provides the business logic layer for managing libraries and notes.
//
// Services are the operation boundary of the registry: every store or domain
// failure is translated here into a coded domain error, so callers only ever
// see the stable error taxonomy.
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

// ListOptions carries pagination and sorting parameters for listings.
// Page is coerced (never rejected); the sort axes are validated.
type ListOptions struct {
	Page    int    `json:"page"`
	Name    string `json:"name_order" validate:"omitempty,oneof=asc desc"`
	Recency string `json:"recency_order" validate:"omitempty,oneof=newest oldest"`
}

func (o ListOptions) params() store.ListParams {
	return store.ListParams{
		Page:    o.Page,
		Name:    o.Name,
		Recency: o.Recency,
	}
}

// LibraryService orchestrates library operations for authenticated owners.
type LibraryService struct {
	store    store.Store
	validate *validation.Validator
	logger   *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(store store.Store, validate *validation.Validator, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:    store,
		validate: validate,
		logger:   logger,
	}
}

// Create creates a library for the owner.
// The name must be 1-50 characters of letters, digits, and spaces, and must
// be unique (as name and as slug) among the owner's libraries.
func (s *LibraryService) Create(ctx context.Context, ownerID, name string) (*domain.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create library")
	}

	libraryID, err := id.Generate("lib")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate library ID")
	}

	lib, err := domain.NewLibrary(libraryID, ownerID, name)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateLibrary(ctx, lib); err != nil {
		return nil, translateStoreError(err, "library", lib.Name)
	}

	s.logger.Info("library created",
		"library_id", lib.ID,
		"owner_id", ownerID,
		"slug", lib.Slug,
	)

	return lib, nil
}

// Get resolves a library by slug for the owner.
// Absent and foreign-owned libraries are indistinguishable to the caller.
func (s *LibraryService) Get(ctx context.Context, ownerID, librarySlug string) (*domain.Library, error) {
	lib, err := s.store.GetLibraryBySlug(ctx, ownerID, librarySlug)
	if err != nil {
		return nil, translateStoreError(err, "library", librarySlug)
	}
	return lib, nil
}

// Rename changes a library's name, deriving the new slug alongside it.
// Renaming a library to its own current name is always allowed.
func (s *LibraryService) Rename(ctx context.Context, ownerID, librarySlug, newName string) (*domain.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "rename library")
	}

	lib, err := s.store.GetLibraryBySlug(ctx, ownerID, librarySlug)
	if err != nil {
		return nil, translateStoreError(err, "library", librarySlug)
	}

	if err := lib.Rename(newName); err != nil {
		return nil, err
	}

	if err := s.store.UpdateLibrary(ctx, lib); err != nil {
		return nil, translateStoreError(err, "library", lib.Name)
	}

	s.logger.Info("library renamed",
		"library_id", lib.ID,
		"owner_id", ownerID,
		"slug", lib.Slug,
	)

	return lib, nil
}

// Delete removes a library and every note in it as one atomic unit,
// returning the deleted library.
func (s *LibraryService) Delete(ctx context.Context, ownerID, librarySlug string) (*domain.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "delete library")
	}

	lib, err := s.store.DeleteLibraryCascade(ctx, ownerID, librarySlug)
	if err != nil {
		return nil, translateStoreError(err, "library", librarySlug)
	}

	s.logger.Info("library deleted",
		"library_id", lib.ID,
		"owner_id", ownerID,
		"notes_removed", lib.NoteCount,
	)

	return lib, nil
}

// List returns one page of the owner's libraries.
func (s *LibraryService) List(ctx context.Context, ownerID string, opts ListOptions) (*store.Page[*domain.Library], error) {
	if err := s.validate.Validate(opts); err != nil {
		return nil, err
	}

	page, err := s.store.ListLibraries(ctx, ownerID, opts.params())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "list libraries")
	}
	return page, nil
}

// translateStoreError maps store sentinels onto the domain error taxonomy.
// Anything unrecognized is an internal error; it never escapes untyped.
func translateStoreError(err error, entity, name string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errors.NotFoundf("%s does not exist for this user", entity)
	case errors.Is(err, store.ErrAlreadyExists):
		return errors.Conflictf("a %s named %q already exists", entity, name)
	case errors.Is(err, store.ErrTxnFailed):
		return errors.Wrapf(err, errors.CodeTransaction, "delete %s", entity)
	default:
		return errors.Wrapf(err, errors.CodeInternal, "%s operation failed", entity)
	}
}
