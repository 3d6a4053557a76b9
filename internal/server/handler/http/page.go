package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/atinyakov/LinkHub/internal/issue"
	"github.com/atinyakov/LinkHub/internal/middleware"
	"github.com/atinyakov/LinkHub/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PageService defines the page operations required by PageHandler.
type PageService interface {
	Create(ctx context.Context, identity models.Identity, req models.PageCreateRequest) (models.PageResponse, error)
	Update(ctx context.Context, identity models.Identity, req models.PageUpdateRequest, pageID int64) (models.PageResponse, error)
	FindBySlug(ctx context.Context, slug string) (models.PageResponse, error)
	ListOwned(ctx context.Context, identity models.Identity) ([]models.PageResponse, error)
}

// PageHandler handles page endpoints.
type PageHandler struct {
	Pages PageService
	Log   *zap.Logger
}

// Create handles POST /api/pages.
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req models.PageCreateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	page, err := h.Pages.Create(r.Context(), identity, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info("page created", zap.Int64("page_id", page.ID), zap.String("slug", page.Slug))
	writeJSON(w, http.StatusCreated, page)
}

// Update handles PUT /api/pages/{id}.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	pageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || pageID <= 0 {
		writeError(w, h.Log, issue.Validation("id: must be a positive integer"))
		return
	}

	var req models.PageUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	page, err := h.Pages.Update(r.Context(), identity, req, pageID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetBySlug handles GET /api/pages/slug/{slug}. It is public.
func (h *PageHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	page, err := h.Pages.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListMine handles GET /api/pages.
func (h *PageHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	pages, err := h.Pages.ListOwned(r.Context(), identity)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}
