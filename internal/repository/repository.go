// Package repository declares the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/printscript/snippet-manager/internal/model"
)

// PageRequest is a zero-based page index plus page size.
type PageRequest struct {
	Page int
	Size int
}

// SnippetRepository persists snippet metadata rows.
type SnippetRepository interface {
	// Insert stores a new snippet and assigns its ID.
	Insert(ctx context.Context, snippet *model.Snippet) error
	// GetByID returns apperror.ErrNotFound if no such snippet exists.
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	Delete(ctx context.Context, id string) error
}

// StatusRepository persists per-(snippet, user) review state rows.
// Method names carry a Status prefix so one concrete type can implement
// this alongside SnippetRepository.
type StatusRepository interface {
	InsertStatus(ctx context.Context, status *model.SnippetStatus) error
	UpdateStatus(ctx context.Context, status *model.SnippetStatus) error
	DeleteStatus(ctx context.Context, snippetID, userEmail string) error
	// GetStatus returns apperror.ErrNotFound if no row exists for the pair.
	GetStatus(ctx context.Context, snippetID, userEmail string) (*model.SnippetStatus, error)
}

// FilterRepository is the search query collaborator. Search returns one
// page of snippet summaries visible to identity (authored by them or
// shared with them), newest first (descending id).
type FilterRepository interface {
	Search(ctx context.Context, filter model.Filter, page PageRequest, identity string) (*model.Page, error)
}
