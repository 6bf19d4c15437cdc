package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinelog/cinelog-server/pkg/tokens"
)

func newTestAuth(t *testing.T) (*Auth, *tokens.Generator) {
	t.Helper()
	gen := tokens.NewGenerator("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuth(gen), gen
}

// ============================================================================
// RequireAuth
// ============================================================================

func TestRequireAuth(t *testing.T) {
	auth, gen := newTestAuth(t)

	validToken, err := gen.GenerateAccessToken("7f1c8e7e-1111-2222-3333-444455556666", "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	refreshToken, _, err := gen.GenerateRefreshToken("7f1c8e7e-1111-2222-3333-444455556666")
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	tests := []struct {
		name         string
		authHeader   string
		expectStatus int
	}{
		{
			name:         "valid token",
			authHeader:   "Bearer " + validToken,
			expectStatus: http.StatusOK,
		},
		{
			name:         "missing header",
			authHeader:   "",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "missing bearer prefix",
			authHeader:   validToken,
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "wrong scheme",
			authHeader:   "Basic " + validToken,
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "garbage token",
			authHeader:   "Bearer not.a.jwt",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "refresh token rejected as access token",
			authHeader:   "Bearer " + refreshToken,
			expectStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handlerCalled bool
			handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.expectStatus {
				t.Errorf("expected status %d, got %d", tt.expectStatus, w.Code)
			}

			if tt.expectStatus == http.StatusOK && !handlerCalled {
				t.Error("expected handler to be called")
			}
			if tt.expectStatus != http.StatusOK && handlerCalled {
				t.Error("expected handler not to be called")
			}
		})
	}
}

func TestRequireAuth_ContextValues(t *testing.T) {
	auth, gen := newTestAuth(t)

	accountID := "7f1c8e7e-1111-2222-3333-444455556666"
	token, err := gen.GenerateAccessToken(accountID, "admin")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var gotAccountID, gotRole string
	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotAccountID = GetAccountID(r.Context())
		gotRole = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	handler(w, req)

	if gotAccountID != accountID {
		t.Errorf("expected account ID %q in context, got %q", accountID, gotAccountID)
	}
	if gotRole != "admin" {
		t.Errorf("expected role admin in context, got %q", gotRole)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	gen := tokens.NewGenerator("access-secret", "refresh-secret", time.Nanosecond, 7*24*time.Hour)
	auth := NewAuth(gen)

	token, err := gen.GenerateAccessToken("7f1c8e7e-1111-2222-3333-444455556666", "user")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	handler := auth.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 for expired token, got %d", w.Code)
	}
}

// ============================================================================
// RequireAdmin
// ============================================================================

func TestRequireAdmin(t *testing.T) {
	auth, gen := newTestAuth(t)

	tests := []struct {
		name         string
		role         string
		expectStatus int
	}{
		{
			name:         "admin role allowed",
			role:         "admin",
			expectStatus: http.StatusOK,
		},
		{
			name:         "user role forbidden",
			role:         "user",
			expectStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := gen.GenerateAccessToken("7f1c8e7e-1111-2222-3333-444455556666", tt.role)
			if err != nil {
				t.Fatalf("failed to generate token: %v", err)
			}

			handler := auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.expectStatus {
				t.Errorf("expected status %d, got %d", tt.expectStatus, w.Code)
			}
		})
	}
}

func TestRequireAdmin_MissingToken(t *testing.T) {
	auth, _ := newTestAuth(t)

	handler := auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}
