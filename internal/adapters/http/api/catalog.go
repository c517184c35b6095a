package api

import (
	"net/http"

	"github.com/okian/persona/internal/domain/catalog"
	"github.com/okian/persona/internal/domain/facets"
)

// CatalogHandler serves the role catalog and the facet import preview.
type CatalogHandler struct {
	deps         CatalogDependencies
	maxBodyBytes int64
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies, maxBodyBytes int64) *CatalogHandler {
	return &CatalogHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

type rolesResponse struct {
	Count int                   `json:"count"`
	Roles []catalog.RolePattern `json:"roles"`
}

type facetsResponse struct {
	Count   int            `json:"count"`
	Preview []string       `json:"preview"`
	Facets  []facets.Facet `json:"facets"`
}

// HandleRoles handles GET /roles.
func (h *CatalogHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.deps.Roles(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rolesResponse{Count: len(roles), Roles: roles})
}

// HandleImportFacets handles POST /import/facets. The payload is only
// previewed; nothing is stored.
func (h *CatalogHandler) HandleImportFacets(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if rerr := decodeBody(w, r, h.maxBodyBytes, &payload); rerr != nil {
		rerr.write(w)
		return
	}
	fs, err := h.deps.ImportFacets(r.Context(), payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if fs == nil {
		fs = []facets.Facet{}
	}
	writeJSON(w, http.StatusOK, facetsResponse{Count: len(fs), Preview: facets.Preview(fs), Facets: fs})
}
