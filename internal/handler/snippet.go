// Package handler is the HTTP layer: it parses requests, pulls the
// verified identity from the context, calls the service, and writes JSON.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/printscript/snippet-manager/internal/auth"
	"github.com/printscript/snippet-manager/internal/model"
	"github.com/printscript/snippet-manager/internal/service"
)

// SnippetHandler exposes the snippet operations over HTTP. Every route
// it serves sits behind auth.RequireIdentity, so the identity is always
// present in the request context.
type SnippetHandler struct {
	service *service.SnippetService
	logger  *slog.Logger
}

func NewSnippetHandler(service *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{service: service, logger: logger}
}

type createRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

type editRequest struct {
	Code string `json:"code"`
}

// HandleCreate creates a snippet.
//
// POST /api/snippets
// Body: {"name":"sum","language":"printscript","code":"let x = 1;"}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_json", Message: "request body must be valid JSON"})
		return
	}

	view, err := h.service.Create(r.Context(), req.Name, req.Language, req.Code, identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// HandleEdit replaces a snippet's code body.
//
// PUT /api/snippets/{id}
// Body: {"code":"let x = 2;"}
func (h *SnippetHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	id := r.PathValue("id")

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_json", Message: "request body must be valid JSON"})
		return
	}

	view, err := h.service.Edit(r.Context(), id, req.Code, identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// HandleGetByID returns the full view of one snippet, code included.
//
// GET /api/snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	view, err := h.service.GetByID(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// HandleSearch returns one page of snippet summaries.
//
// GET /api/snippets?name=&language=&status=&page=0&size=20
func (h *SnippetHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "valid authentication required"})
		return
	}

	q := r.URL.Query()
	filter := model.Filter{
		Name:     q.Get("name"),
		Language: q.Get("language"),
		Status:   model.Status(q.Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "unknown status filter"})
		return
	}

	page := parseIntParam(q.Get("page"), 0)
	size := parseIntParam(q.Get("size"), service.DefaultPageSize)

	result, err := h.service.Search(r.Context(), filter, page, size, identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
