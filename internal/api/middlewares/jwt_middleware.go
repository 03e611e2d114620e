package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// AdminIDKey carries the authenticated admin's id through the request context.
const AdminIDKey contextKey = "admin_id"

// AdminOnly validates the Authorization bearer token against the configured
// secret and requires the admin role. Ingestion and deletion endpoints are
// admin surfaces; search and answer stay public. An empty secret rejects
// every request: a token HMAC'd with "" must never grant admin.
func AdminOnly(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(key) == 0 {
				http.Error(w, "admin auth is not configured", http.StatusUnauthorized)
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if role, _ := claims["role"].(string); role != "admin" {
				http.Error(w, "admin access required", http.StatusForbidden)
				return
			}
			adminID, _ := claims["sub"].(string)

			ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
