// Package service contains the snippet coordination logic.
//
// A create or edit touches two independent stores with no shared
// transaction: the relational metadata/status rows and the blob store
// holding the code body. The coordinator writes the cheap, reversible
// relational rows first, then the blob, and rolls the rows back if the
// blob write fails. All state lives in the stores; the coordinator keeps
// nothing between requests.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/printscript/snippet-manager/internal/apperror"
	"github.com/printscript/snippet-manager/internal/blob"
	"github.com/printscript/snippet-manager/internal/model"
	"github.com/printscript/snippet-manager/internal/repository"
)

const (
	MaxSnippetNameLength = 100
	MaxLanguageLength    = 50
	MaxCodeLength        = 100000 // ~100KB of code
	DefaultPageSize      = 20
	MaxPageSize          = 100
)

// SnippetService coordinates writes across the metadata store, the
// status store and the blob store, and enforces the authorization rules
// on edit. The identity argument on every method is an already-verified
// principal; the service never parses credentials.
type SnippetService struct {
	snippets repository.SnippetRepository
	statuses repository.StatusRepository
	filter   repository.FilterRepository
	blobs    blob.Store
	logger   *slog.Logger
}

// NewSnippetService wires the coordinator to its stores.
func NewSnippetService(
	snippets repository.SnippetRepository,
	statuses repository.StatusRepository,
	filter repository.FilterRepository,
	blobs blob.Store,
	logger *slog.Logger,
) *SnippetService {
	return &SnippetService{
		snippets: snippets,
		statuses: statuses,
		filter:   filter,
		blobs:    blobs,
		logger:   logger,
	}
}

// compensation is one recorded undo step. Steps are appended as they
// succeed and run in reverse order on failure, so the rollback logic is
// an explicit value rather than call-stack unwinding.
type compensation struct {
	name string
	run  func(context.Context) error
}

// rollback runs the recorded compensations newest-first, best-effort. A
// failed compensation is logged but never replaces the original failure
// reported to the caller.
func (s *SnippetService) rollback(ctx context.Context, steps []compensation) {
	for i := len(steps) - 1; i >= 0; i-- {
		if err := steps[i].run(ctx); err != nil {
			s.logger.Error("compensation failed, stores may be inconsistent",
				slog.String("step", steps[i].name),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Create persists a new snippet: a metadata row authored by identity, a
// PENDING status row for the author, and the code body in the blob store
// under the new id. If the blob write fails, both rows are deleted again
// and the caller gets a persistence error wrapping the blob failure —
// never a half-applied snippet.
func (s *SnippetService) Create(ctx context.Context, name, language, code, identity string) (*model.SnippetView, error) {
	name = strings.TrimSpace(name)
	language = strings.TrimSpace(language)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "snippet name is required")
	}
	if len(name) > MaxSnippetNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("snippet name must be %d characters or less", MaxSnippetNameLength))
	}
	if language == "" {
		return nil, apperror.ValidationFailed("language", "language is required")
	}
	if len(language) > MaxLanguageLength {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("language must be %d characters or less", MaxLanguageLength))
	}
	if len(code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	if identity == "" {
		return nil, apperror.ValidationFailed("identity", "caller identity is required")
	}

	var undo []compensation

	snippet := &model.Snippet{
		Name:     name,
		Language: language,
		Author:   identity,
	}
	if err := s.snippets.Insert(ctx, snippet); err != nil {
		s.logger.Error("failed to insert snippet",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Persistence("creating snippet", err)
	}
	undo = append(undo, compensation{
		name: "delete snippet row",
		run:  func(ctx context.Context) error { return s.snippets.Delete(ctx, snippet.ID) },
	})

	status := &model.SnippetStatus{
		SnippetID: snippet.ID,
		UserEmail: identity,
		Status:    model.StatusPending,
	}
	if err := s.statuses.InsertStatus(ctx, status); err != nil {
		s.logger.Error("failed to insert snippet status",
			slog.String("id", snippet.ID),
			slog.String("error", err.Error()),
		)
		s.rollback(ctx, undo)
		return nil, apperror.Persistence("creating snippet status", err)
	}
	undo = append(undo, compensation{
		name: "delete status row",
		run: func(ctx context.Context) error {
			return s.statuses.DeleteStatus(ctx, snippet.ID, identity)
		},
	})

	// The expensive write goes last. The blob key is the snippet id, so
	// code bodies stay 1:1 with metadata rows across edits.
	if err := s.blobs.Put(ctx, snippet.ID, []byte(code)); err != nil {
		s.logger.Error("failed to store code body, rolling back",
			slog.String("id", snippet.ID),
			slog.String("error", err.Error()),
		)
		s.rollback(ctx, undo)
		return nil, apperror.Persistence("storing snippet code", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("name", snippet.Name),
		slog.String("author", snippet.Author),
	)

	return &model.SnippetView{
		ID:       snippet.ID,
		Name:     snippet.Name,
		Language: snippet.Language,
		Code:     code,
		Author:   snippet.Author,
	}, nil
}

// isAuthor is the ownership predicate for the edit gate.
func isAuthor(snippet *model.Snippet, identity string) bool {
	return snippet.Author == identity
}

// Edit replaces a snippet's code body and resets the caller's review
// status to PENDING.
//
// The gate is two separate predicates with distinct errors: only the
// author may edit (Forbidden otherwise), and a status row must exist for
// the caller (NotShared otherwise). Both checks run before any write, so
// these failures leave the stores untouched.
//
// The blob replacement is delete-then-put. If the put fails the caller
// gets a persistence error, the status row stays PENDING and the old
// body is already gone — the edit path has no compensation, unlike
// create. Concurrent edits to the same snippet are last-writer-wins.
func (s *SnippetService) Edit(ctx context.Context, id, code, identity string) (*model.SnippetView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}
	if len(code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	if identity == "" {
		return nil, apperror.ValidationFailed("identity", "caller identity is required")
	}

	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Persistence("looking up snippet", err)
	}

	if !isAuthor(snippet, identity) {
		return nil, apperror.Forbidden("no permission to edit this snippet")
	}

	status, err := s.statuses.GetStatus(ctx, id, identity)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotShared(id, identity)
		}
		return nil, apperror.Persistence("looking up snippet status", err)
	}

	status.Status = model.StatusPending
	if err := s.statuses.UpdateStatus(ctx, status); err != nil {
		s.logger.Error("failed to reset snippet status",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Persistence("resetting snippet status", err)
	}

	if err := s.blobs.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete old code body",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Persistence("deleting old snippet code", err)
	}

	if err := s.blobs.Put(ctx, id, []byte(code)); err != nil {
		// No compensation here: the status row stays PENDING and the old
		// body is gone. The compilation pipeline re-evaluates once the
		// caller retries the write.
		s.logger.Error("failed to store new code body",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Persistence("storing snippet code", err)
	}

	s.logger.Info("snippet edited",
		slog.String("id", id),
		slog.String("author", identity),
	)

	return &model.SnippetView{
		ID:       snippet.ID,
		Name:     snippet.Name,
		Language: snippet.Language,
		Code:     code,
		Author:   snippet.Author,
	}, nil
}

// GetByID returns the full view of one snippet, code body included.
// Visibility follows the search rule: the author and anyone the snippet
// was shared with may read it.
func (s *SnippetService) GetByID(ctx context.Context, id, identity string) (*model.SnippetView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Persistence("looking up snippet", err)
	}

	if !isAuthor(snippet, identity) {
		if _, err := s.statuses.GetStatus(ctx, id, identity); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.Forbidden("no permission to view this snippet")
			}
			return nil, apperror.Persistence("looking up snippet status", err)
		}
	}

	code, err := s.blobs.Get(ctx, id)
	if err != nil {
		s.logger.Error("failed to load code body",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Persistence("loading snippet code", err)
	}

	return &model.SnippetView{
		ID:       snippet.ID,
		Name:     snippet.Name,
		Language: snippet.Language,
		Code:     string(code),
		Author:   snippet.Author,
	}, nil
}

// Search returns one page of snippet summaries visible to identity,
// newest first. Pure read, delegated to the filter repository.
func (s *SnippetService) Search(ctx context.Context, filter model.Filter, page, size int, identity string) (*model.Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	result, err := s.filter.Search(ctx, filter, repository.PageRequest{Page: page, Size: size}, identity)
	if err != nil {
		s.logger.Error("failed to search snippets", slog.String("error", err.Error()))
		return nil, apperror.Persistence("searching snippets", err)
	}

	return result, nil
}
