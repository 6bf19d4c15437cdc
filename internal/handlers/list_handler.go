package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cinelog/cinelog-server/internal/httputil"
	"github.com/cinelog/cinelog-server/internal/middleware"
	"github.com/cinelog/cinelog-server/internal/models"
	"github.com/cinelog/cinelog-server/internal/service"
)

type ListHandler struct {
	service *service.ListService
}

func NewListHandler(service *service.ListService) *ListHandler {
	return &ListHandler{
		service: service,
	}
}

func (h *ListHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	kind := r.PathValue("kind")

	items, err := h.service.GetItems(r.Context(), accountID, kind)
	if err != nil {
		if errors.Is(err, service.ErrUnknownListKind) {
			httputil.WriteError(w, http.StatusBadRequest, "unknown list kind")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load list")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"kind":  kind,
		"items": items,
		"count": len(items),
	})
}

func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	kind := r.PathValue("kind")

	var req models.AddListItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.TitleID) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title_id is required")
		return
	}

	item, err := h.service.AddItem(r.Context(), accountID, kind, &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownListKind) {
			httputil.WriteError(w, http.StatusBadRequest, "unknown list kind")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "failed to add list item")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, item)
}

// RemoveItem deletes a title from a list. Removing a title that was never
// added still returns 204.
func (h *ListHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	kind := r.PathValue("kind")
	titleID := r.PathValue("titleID")

	if err := h.service.RemoveItem(r.Context(), accountID, kind, titleID); err != nil {
		if errors.Is(err, service.ErrUnknownListKind) {
			httputil.WriteError(w, http.StatusBadRequest, "unknown list kind")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "failed to remove list item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
