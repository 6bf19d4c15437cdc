package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/cinelog/cinelog-server/internal/httputil"
	"github.com/cinelog/cinelog-server/internal/logging"
	"github.com/cinelog/cinelog-server/internal/middleware"
	"github.com/cinelog/cinelog-server/internal/models"
	"github.com/cinelog/cinelog-server/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateRegisterRequest(&req); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	account, pair, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername), errors.Is(err, service.ErrDuplicateEmail):
			// The message names the colliding field
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			httputil.WriteError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	logging.Default().InfoContext(r.Context(), "account registered",
		logging.AccountID(account.ID),
		logging.IP(httputil.GetClientIP(r)))

	httputil.WriteJSON(w, http.StatusCreated, &models.AuthResponse{
		Account:   account.ToResponse(),
		TokenPair: *pair,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, pair, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrAccountDeactivated) {
			logging.Default().WarnContext(r.Context(), "login rejected",
				logging.Email(req.Email),
				logging.IP(httputil.GetClientIP(r)))
		}
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, service.ErrAccountDeactivated):
			httputil.WriteError(w, http.StatusUnauthorized, "account deactivated")
		default:
			httputil.WriteError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &models.AuthResponse{
		Account:   account.ToResponse(),
		TokenPair: *pair,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	// An absent body is the same as an empty token, which the service
	// reports as missing.
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			httputil.WriteError(w, http.StatusUnauthorized, "refresh token required")
		case errors.Is(err, service.ErrInvalidToken):
			// Revoked, rotated, forged, and reused tokens all land here.
			logging.Default().WarnContext(r.Context(), "refresh rejected",
				logging.IP(httputil.GetClientIP(r)))
			httputil.WriteError(w, http.StatusForbidden, "invalid refresh token")
		default:
			httputil.WriteError(w, http.StatusInternalServerError, "refresh failed")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	// The body is optional; without a token every outstanding refresh
	// token for the account is revoked.
	var req models.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), accountID, req.RefreshToken); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			httputil.WriteError(w, http.StatusNotFound, "account not found")
		default:
			httputil.WriteError(w, http.StatusInternalServerError, "logout failed")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func validateRegisterRequest(req *models.RegisterRequest) string {
	if strings.TrimSpace(req.Username) == "" {
		return "username is required"
	}
	if !strings.Contains(req.Email, "@") {
		return "a valid email is required"
	}
	if len(req.Password) < 8 {
		return "password must be at least 8 characters"
	}
	return ""
}
