package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/service"
)

type contextKeyAuth string

// AdminKey is the context key for the authenticated admin.
const AdminKey contextKeyAuth = "admin"

// Authenticate returns an HTTP middleware that requires a valid Bearer
// token and attaches the verified admin to the request context.
//
// A missing header (or one without the Bearer prefix) is reported as
// TOKEN_MISSING; every verification failure is reported as TOKEN_INVALID.
// The granular rejection reason is never exposed to the client.
func Authenticate(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Authentication token required", "TOKEN_MISSING")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			admin, err := authSvc.VerifyToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token", "TOKEN_INVALID")
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns an HTTP middleware that restricts a route to the
// listed admin roles. It must run after Authenticate. Denied attempts are
// recorded to the audit log.
func RequireRole(rec *audit.Recorder, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := GetAdmin(r.Context())
			if admin == nil {
				writeError(w, http.StatusUnauthorized, "Authentication token required", "TOKEN_MISSING")
				return
			}
			for _, role := range roles {
				if admin.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			rec.Record(model.AuditEntry{
				AdminID:    &admin.ID,
				Action:     model.AuditAccessDenied,
				TargetType: "route",
				NewData:    audit.JSON(map[string]string{"method": r.Method, "path": r.URL.Path}),
				IPAddress:  ClientIP(r),
				UserAgent:  r.UserAgent(),
			})
			writeError(w, http.StatusForbidden, "Insufficient permissions", "INSUFFICIENT_PERMISSIONS")
		})
	}
}

// GetAdmin extracts the authenticated admin from the context. Returns nil
// for unauthenticated requests.
func GetAdmin(ctx context.Context) *model.Admin {
	if a, ok := ctx.Value(AdminKey).(*model.Admin); ok {
		return a
	}
	return nil
}

// ClientIP returns the request origin, preferring the first entry of the
// X-Forwarded-For header when a proxy filled it in.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

// writeError emits the standard error envelope. Kept local to the
// middleware package so it does not depend on the handler package.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.Response{
		Status:    "error",
		Message:   message,
		ErrorCode: code,
		Timestamp: time.Now().UTC(),
	})
}
