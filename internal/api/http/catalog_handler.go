package http

import (
	"net/http"

	"fixo-backend/internal/service"

	"github.com/gorilla/mux"
)

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogSvc.ListServices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalogSvc.GetService(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

// Register adds the authenticated provider to a service's candidate pool.
func (h *CatalogHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogSvc.RegisterProviderService(r.Context(), ActorFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}
