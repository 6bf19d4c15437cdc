package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/cinelog/cinelog-server/internal/catalog"
	"github.com/cinelog/cinelog-server/internal/handlers"
	"github.com/cinelog/cinelog-server/internal/middleware"
	"github.com/cinelog/cinelog-server/internal/models"
	"github.com/cinelog/cinelog-server/internal/repository"
	"github.com/cinelog/cinelog-server/internal/service"
	"github.com/cinelog/cinelog-server/pkg/tokens"
)

func setupRouter(t *testing.T) (http.Handler, *repository.InMemoryRepository) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(upstream.Close)

	repo := repository.NewInMemoryRepository()
	gen := tokens.NewGenerator(
		"test-access-secret-long-enough-for-hs256",
		"test-refresh-secret-long-enough-for-hs256",
		0, 0,
	)

	authService := service.NewAuthService(repo, gen, nil, bcrypt.MinCost)
	accountService := service.NewAccountService(repo, bcrypt.MinCost)
	reviewService := service.NewReviewService(repo, nil)
	listService := service.NewListService(repo)

	router := NewRouter(RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(authService),
		AccountHandler: handlers.NewAccountHandler(accountService),
		CatalogHandler: handlers.NewCatalogHandler(catalog.NewClient(upstream.URL, "test-key", 0, nil)),
		ReviewHandler:  handlers.NewReviewHandler(reviewService),
		ListHandler:    handlers.NewListHandler(listService),
		AdminHandler:   handlers.NewAdminHandler(accountService, reviewService),
		HealthHandler:  handlers.NewHealthHandler("test"),
		Auth:           middleware.NewAuth(gen),
		CORS: middleware.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
	})
	return router, repo
}

func registerViaRouter(t *testing.T, router http.Handler, username, email string) models.AuthResponse {
	t.Helper()

	body, _ := json.Marshal(models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("register failed with %d: %s", rr.Code, rr.Body.String())
	}

	var resp models.AuthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	return resp
}

func TestNewRouter_HealthCheck(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Errorf("Expected healthy status, got %s", rr.Body.String())
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
}

func TestNewRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	router, _ := setupRouter(t)

	protectedRoutes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/auth/logout"},
		{"GET", "/api/v1/users/me"},
		{"PUT", "/api/v1/users/me"},
		{"GET", "/api/v1/catalog/trending"},
		{"GET", "/api/v1/catalog/search"},
		{"GET", "/api/v1/catalog/titles/603"},
		{"GET", "/api/v1/catalog/titles/603/similar"},
		{"GET", "/api/v1/catalog/genres"},
		{"POST", "/api/v1/reviews"},
		{"GET", "/api/v1/reviews/me"},
		{"GET", "/api/v1/reviews/title/603"},
		{"PUT", "/api/v1/reviews/some-id"},
		{"DELETE", "/api/v1/reviews/some-id"},
		{"GET", "/api/v1/lists/watchlist"},
		{"POST", "/api/v1/lists/watchlist"},
		{"DELETE", "/api/v1/lists/watchlist/603"},
		{"GET", "/api/v1/admin/users"},
		{"PUT", "/api/v1/admin/users/some-id/active"},
		{"DELETE", "/api/v1/admin/reviews/some-id"},
	}

	for _, route := range protectedRoutes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without token, got %d", rr.Code)
			}
		})
	}
}

func TestNewRouter_RegisterLoginFlow(t *testing.T) {
	router, _ := setupRouter(t)

	registered := registerViaRouter(t, router, "alice", "alice@example.com")

	// The access token from registration opens protected routes.
	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+registered.AccessToken)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 with access token, got %d: %s", rr.Code, rr.Body.String())
	}

	var me models.AccountResponse
	if err := json.NewDecoder(rr.Body).Decode(&me); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("Expected alice, got %q", me.Username)
	}

	// Logging in issues a fresh pair.
	body, _ := json.Marshal(models.LoginRequest{Email: "alice@example.com", Password: "password123"})
	login := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	rr = httptest.NewRecorder()

	router.ServeHTTP(rr, login)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 on login, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestNewRouter_RefreshRotation(t *testing.T) {
	router, _ := setupRouter(t)
	registered := registerViaRouter(t, router, "alice", "alice@example.com")

	body, _ := json.Marshal(models.RefreshRequest{RefreshToken: registered.RefreshToken})
	req := httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 on refresh, got %d: %s", rr.Code, rr.Body.String())
	}

	// The spent token is rejected on replay.
	body, _ = json.Marshal(models.RefreshRequest{RefreshToken: registered.RefreshToken})
	replay := httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewReader(body))
	rr = httptest.NewRecorder()

	router.ServeHTTP(rr, replay)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 on replay, got %d", rr.Code)
	}
}

func TestNewRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	router, repo := setupRouter(t)
	registered := registerViaRouter(t, router, "alice", "alice@example.com")

	// A regular account is turned away.
	req := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+registered.AccessToken)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-admin, got %d", rr.Code)
	}

	// Promote the account and log in again so the new token carries the
	// admin role.
	account, err := repo.GetAccountByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("failed to load account: %v", err)
	}
	account.Role = string(models.RoleAdmin)
	if err := repo.UpdateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to promote account: %v", err)
	}

	body, _ := json.Marshal(models.LoginRequest{Email: "alice@example.com", Password: "password123"})
	login := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	rr = httptest.NewRecorder()

	router.ServeHTTP(rr, login)

	var resp models.AuthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	admin := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
	admin.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rr = httptest.NewRecorder()

	router.ServeHTTP(rr, admin)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestNewRouter_CatalogPassthrough(t *testing.T) {
	router, _ := setupRouter(t)
	registered := registerViaRouter(t, router, "alice", "alice@example.com")

	req := httptest.NewRequest("GET", "/api/v1/catalog/trending", nil)
	req.Header.Set("Authorization", "Bearer "+registered.AccessToken)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "results") {
		t.Errorf("Expected upstream body, got %s", rr.Body.String())
	}
}

func TestNewRouter_MethodRouting(t *testing.T) {
	router, _ := setupRouter(t)

	// Register is POST only.
	req := httptest.NewRequest("GET", "/api/v1/auth/register", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rr.Code)
	}
}

func TestNewRouter_RequestIDHeader(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("Expected X-Request-Id header to be set")
	}
}
