package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cinelog/cinelog-server/internal/httputil"
	"github.com/cinelog/cinelog-server/internal/metrics"
	"github.com/cinelog/cinelog-server/pkg/tokens"
)

const (
	AccountIDKey = contextKey("account-id")
	RoleKey      = contextKey("role")
)

// Auth guards routes behind a valid access token. Verification is
// stateless: signature and expiry only, no store lookup.
type Auth struct {
	tokens *tokens.Generator
}

func NewAuth(generator *tokens.Generator) *Auth {
	return &Auth{tokens: generator}
}

func (m *Auth) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			metrics.AuthFailures.WithLabelValues("missing_header").Inc()
			httputil.WriteError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			metrics.AuthFailures.WithLabelValues("malformed_header").Inc()
			httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		claims, err := m.tokens.ValidateAccessToken(parts[1])
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid_access_token").Inc()
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), AccountIDKey, claims.AccountID)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func (m *Auth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if GetRole(r.Context()) != "admin" {
			httputil.WriteError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r)
	})
}

// GetAccountID extracts the authenticated account ID from the context.
// Returns empty string if not found.
func GetAccountID(ctx context.Context) string {
	if id, ok := ctx.Value(AccountIDKey).(string); ok {
		return id
	}
	return ""
}

// GetRole extracts the authenticated account role from the context.
// Returns empty string if not found.
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}
