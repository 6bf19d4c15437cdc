package httputil

import (
	"net/http"
	"strconv"
	"strings"
)

// GetClientIP extracts the real client IP address from request headers.
// It handles proxy scenarios by checking headers in this order:
//  1. X-Forwarded-For (extracts first/client IP from comma-separated list)
//  2. X-Real-IP (single IP from reverse proxy)
//  3. RemoteAddr (direct connection)
//
// Example X-Forwarded-For: "203.0.113.195, 70.41.3.18, 150.172.238.178"
// Returns: "203.0.113.195" (the original client)
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2"
		// We want the first (client) IP
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// ParseIntParam parses an integer query parameter with a default value.
// Returns defaultVal if the parameter is empty or invalid.
//
// Example:
//
//	limit := httputil.ParseIntParam(r.URL.Query().Get("limit"), 50)
func ParseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return defaultVal
}

// ClampLimit bounds a requested result count to [1, max].
func ClampLimit(limit, max int) int {
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
