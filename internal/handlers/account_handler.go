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

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{
		service: service,
	}
}

// GetMe returns the profile of the authenticated account.
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "account not found")
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, account.ToResponse())
}

// UpdateMe applies a partial profile update to the authenticated account.
func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateProfileUpdate(&req); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	account, err := h.service.UpdateProfile(r.Context(), accountID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAccountNotFound):
			httputil.WriteError(w, http.StatusNotFound, "account not found")
		default:
			httputil.WriteError(w, http.StatusInternalServerError, "failed to update account")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, account.ToResponse())
}

func validateProfileUpdate(req *models.UpdateProfileRequest) string {
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return "a valid email is required"
	}
	if req.Password != nil && len(*req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	return ""
}
