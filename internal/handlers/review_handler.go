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

const maxReviewPageSize = 100

type ReviewHandler struct {
	service *service.ReviewService
}

func NewReviewHandler(service *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.TitleID) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title_id is required")
		return
	}
	if msg := validateReviewBody(req.Rating, req.Content); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	review, err := h.service.CreateReview(r.Context(), accountID, &req)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create review")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	reviewID := r.PathValue("id")

	var req models.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateReviewBody(req.Rating, req.Content); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), accountID, reviewID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			httputil.WriteError(w, http.StatusNotFound, "review not found")
		case errors.Is(err, service.ErrNotReviewOwner):
			httputil.WriteError(w, http.StatusForbidden, "review belongs to another account")
		default:
			httputil.WriteError(w, http.StatusInternalServerError, "failed to update review")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	reviewID := r.PathValue("id")

	if err := h.service.DeleteReview(r.Context(), accountID, reviewID); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			httputil.WriteError(w, http.StatusNotFound, "review not found")
		case errors.Is(err, service.ErrNotReviewOwner):
			httputil.WriteError(w, http.StatusForbidden, "review belongs to another account")
		default:
			httputil.WriteError(w, http.StatusInternalServerError, "failed to delete review")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByTitle returns reviews for one catalog title, newest first.
func (h *ReviewHandler) ListByTitle(w http.ResponseWriter, r *http.Request) {
	titleID := r.PathValue("titleID")
	limit := httputil.ClampLimit(httputil.ParseIntParam(r.URL.Query().Get("limit"), 50), maxReviewPageSize)

	reviews, err := h.service.ListReviewsByTitle(r.Context(), titleID, limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ListMine returns the authenticated account's reviews, newest first.
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	limit := httputil.ClampLimit(httputil.ParseIntParam(r.URL.Query().Get("limit"), 50), maxReviewPageSize)

	reviews, err := h.service.ListReviewsByAccount(r.Context(), accountID, limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

func validateReviewBody(rating int, content string) string {
	if rating < 1 || rating > 10 {
		return "rating must be between 1 and 10"
	}
	if strings.TrimSpace(content) == "" {
		return "content is required"
	}
	return ""
}
