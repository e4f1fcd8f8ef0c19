package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/internal/service/catalog"
)

// catalogService defines the minimal interface needed by CatalogHandler.
type catalogService interface {
	GetEntry(ctx context.Context, entryID uuid.UUID) (*catalog.EntryView, error)
	Like(ctx context.Context, entryID uuid.UUID) error
}

// taxonomyBrowser defines the taxonomy reads exposed over HTTP.
type taxonomyBrowser interface {
	Roots(ctx context.Context) ([]domain.TaxonomyNode, error)
	ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]domain.TaxonomyNode, error)
}

// CatalogHandler serves entry and taxonomy read endpoints.
type CatalogHandler struct {
	svc      catalogService
	taxonomy taxonomyBrowser
	log      *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(svc catalogService, taxonomy taxonomyBrowser, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		svc:      svc,
		taxonomy: taxonomy,
		log:      logger.With("handler", "catalog"),
	}
}

type entryViewResponse struct {
	Entry    entryResponse   `json:"entry"`
	Variants []entryResponse `json:"variants"`
}

// GetEntry handles GET /v1/entries/{id}.
func (h *CatalogHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	view, err := h.svc.GetEntry(r.Context(), entryID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entryViewResponse{
		Entry:    toEntryResponse(view.Entry),
		Variants: toEntryResponses(view.Variants),
	})
}

// Like handles POST /v1/entries/{id}/like.
func (h *CatalogHandler) Like(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := h.svc.Like(r.Context(), entryID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TaxonomyRoots handles GET /v1/taxonomy/roots.
func (h *CatalogHandler) TaxonomyRoots(w http.ResponseWriter, r *http.Request) {
	roots, err := h.taxonomy.Roots(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]nodeResponse{"nodes": toNodeResponses(roots)})
}

// TaxonomyChildren handles GET /v1/taxonomy/nodes/{id}/children.
func (h *CatalogHandler) TaxonomyChildren(w http.ResponseWriter, r *http.Request) {
	nodeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid node id")
		return
	}

	children, err := h.taxonomy.ChildrenOf(r.Context(), nodeID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]nodeResponse{"nodes": toNodeResponses(children)})
}
