package handlers

import (
	"net/http"

	"github.com/cinelog/cinelog-server/internal/catalog"
	"github.com/cinelog/cinelog-server/internal/httputil"
)

// CatalogHandler fronts the external title catalog. Upstream responses
// pass through with their original status and body; only transport
// failures are reported as gateway errors.
type CatalogHandler struct {
	client *catalog.Client
}

func NewCatalogHandler(client *catalog.Client) *CatalogHandler {
	return &CatalogHandler{
		client: client,
	}
}

func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	result, err := h.client.Trending(r.Context())
	h.writeResult(w, result, err)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		httputil.WriteError(w, http.StatusBadRequest, "query is required")
		return
	}
	page := httputil.ParseIntParam(r.URL.Query().Get("page"), 0)

	result, err := h.client.Search(r.Context(), query, page)
	h.writeResult(w, result, err)
}

func (h *CatalogHandler) TitleByID(w http.ResponseWriter, r *http.Request) {
	result, err := h.client.TitleByID(r.Context(), r.PathValue("id"))
	h.writeResult(w, result, err)
}

func (h *CatalogHandler) Similar(w http.ResponseWriter, r *http.Request) {
	result, err := h.client.Similar(r.Context(), r.PathValue("id"))
	h.writeResult(w, result, err)
}

func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	result, err := h.client.Genres(r.Context())
	h.writeResult(w, result, err)
}

func (h *CatalogHandler) writeResult(w http.ResponseWriter, result *catalog.Result, err error) {
	if err != nil {
		httputil.WriteError(w, http.StatusBadGateway, "catalog upstream unavailable")
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(result.Status)
	w.Write(result.Body)
}
