package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinelog/cinelog-server/internal/handlers"
	"github.com/cinelog/cinelog-server/internal/middleware"
)

// RouterConfig holds dependencies needed to configure routes
type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AccountHandler *handlers.AccountHandler
	CatalogHandler *handlers.CatalogHandler
	ReviewHandler  *handlers.ReviewHandler
	ListHandler    *handlers.ListHandler
	AdminHandler   *handlers.AdminHandler
	HealthHandler  *handlers.HealthHandler
	Auth           *middleware.Auth
	CORS           middleware.CORSConfig
}

// NewRouter constructs a ServeMux with all API routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := cfg.Auth

	// Credential and token endpoints
	mux.HandleFunc("POST /api/v1/auth/register", cfg.AuthHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", cfg.AuthHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", cfg.AuthHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.RequireAuth(cfg.AuthHandler.Logout))

	// Profile endpoints
	mux.HandleFunc("GET /api/v1/users/me", auth.RequireAuth(cfg.AccountHandler.GetMe))
	mux.HandleFunc("PUT /api/v1/users/me", auth.RequireAuth(cfg.AccountHandler.UpdateMe))

	// Catalog proxy endpoints
	mux.HandleFunc("GET /api/v1/catalog/trending", auth.RequireAuth(cfg.CatalogHandler.Trending))
	mux.HandleFunc("GET /api/v1/catalog/search", auth.RequireAuth(cfg.CatalogHandler.Search))
	mux.HandleFunc("GET /api/v1/catalog/titles/{id}", auth.RequireAuth(cfg.CatalogHandler.TitleByID))
	mux.HandleFunc("GET /api/v1/catalog/titles/{id}/similar", auth.RequireAuth(cfg.CatalogHandler.Similar))
	mux.HandleFunc("GET /api/v1/catalog/genres", auth.RequireAuth(cfg.CatalogHandler.Genres))

	// Review endpoints
	mux.HandleFunc("POST /api/v1/reviews", auth.RequireAuth(cfg.ReviewHandler.Create))
	mux.HandleFunc("GET /api/v1/reviews/me", auth.RequireAuth(cfg.ReviewHandler.ListMine))
	mux.HandleFunc("GET /api/v1/reviews/title/{titleID}", auth.RequireAuth(cfg.ReviewHandler.ListByTitle))
	mux.HandleFunc("PUT /api/v1/reviews/{id}", auth.RequireAuth(cfg.ReviewHandler.Update))
	mux.HandleFunc("DELETE /api/v1/reviews/{id}", auth.RequireAuth(cfg.ReviewHandler.Delete))

	// List endpoints
	mux.HandleFunc("GET /api/v1/lists/{kind}", auth.RequireAuth(cfg.ListHandler.GetItems))
	mux.HandleFunc("POST /api/v1/lists/{kind}", auth.RequireAuth(cfg.ListHandler.AddItem))
	mux.HandleFunc("DELETE /api/v1/lists/{kind}/{titleID}", auth.RequireAuth(cfg.ListHandler.RemoveItem))

	// Admin endpoints
	mux.HandleFunc("GET /api/v1/admin/users", auth.RequireAdmin(cfg.AdminHandler.ListAccounts))
	mux.HandleFunc("PUT /api/v1/admin/users/{id}/active", auth.RequireAdmin(cfg.AdminHandler.SetAccountActive))
	mux.HandleFunc("DELETE /api/v1/admin/reviews/{id}", auth.RequireAdmin(cfg.AdminHandler.DeleteReview))

	// Operational endpoints
	mux.HandleFunc("GET /healthz", cfg.HealthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Metrics reads the matched pattern off the request, so it has to wrap
	// the mux before any middleware that clones the request.
	var handler http.Handler = middleware.Metrics(mux)
	handler = middleware.CORS(cfg.CORS)(handler)
	return middleware.RequestID(handler)
}
