package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cinelog/cinelog-server/internal/httputil"
	"github.com/cinelog/cinelog-server/internal/models"
	"github.com/cinelog/cinelog-server/internal/service"
)

const maxAccountPageSize = 200

// AdminHandler exposes the moderation surface. Every route behind it is
// wrapped in the admin middleware.
type AdminHandler struct {
	accounts *service.AccountService
	reviews  *service.ReviewService
}

func NewAdminHandler(accounts *service.AccountService, reviews *service.ReviewService) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		reviews:  reviews,
	}
}

func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	limit := httputil.ClampLimit(httputil.ParseIntParam(r.URL.Query().Get("limit"), 50), maxAccountPageSize)

	accounts, err := h.accounts.ListAccounts(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	responses := make([]*models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, account.ToResponse())
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"accounts": responses,
		"count":    len(responses),
	})
}

func (h *AdminHandler) SetAccountActive(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	var req models.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.SetAccountActive(r.Context(), accountID, req.Active)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "account not found")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update account")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, account.ToResponse())
}

// DeleteReview removes any account's review.
func (h *AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")

	if err := h.reviews.DeleteAnyReview(r.Context(), reviewID); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "review not found")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete review")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
