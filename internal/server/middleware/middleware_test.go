package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/service"
	"github.com/quizdeck/quizdeck/internal/store"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *store.Store, *model.Admin, string) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	hash, err := service.HashPassword("pw-123456")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := &model.Admin{
		Username: "alice", Email: "alice@example.com",
		PasswordHash: hash, Role: model.RoleModerator, IsActive: true,
	}
	if err := st.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	authSvc := service.NewAuthService(st, "test-secret-key-at-least-32-bytes!!", time.Hour)
	token, _, err := authSvc.IssueToken(admin)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return authSvc, st, admin, token
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.Response {
	t.Helper()
	var resp model.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestAuthenticateMissingToken(t *testing.T) {
	authSvc, _, _, _ := newAuthFixture(t)
	handler := Authenticate(authSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	for _, header := range []string{"", "Basic dXNlcg==", "bearer lowercase"} {
		req := httptest.NewRequest("GET", "/api/admin/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: got status %d, want 401", header, rec.Code)
		}
		if resp := decodeEnvelope(t, rec); resp.ErrorCode != "TOKEN_MISSING" {
			t.Errorf("header %q: got error code %q, want TOKEN_MISSING", header, resp.ErrorCode)
		}
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	authSvc, _, _, token := newAuthFixture(t)
	handler := Authenticate(authSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	// Garbage and tampered tokens produce the same client-facing code.
	for _, tok := range []string{"garbage", token + "x"} {
		req := httptest.NewRequest("GET", "/api/admin/profile", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", rec.Code)
		}
		if resp := decodeEnvelope(t, rec); resp.ErrorCode != "TOKEN_INVALID" {
			t.Errorf("got error code %q, want TOKEN_INVALID", resp.ErrorCode)
		}
	}
}

func TestAuthenticateAttachesAdmin(t *testing.T) {
	authSvc, _, admin, token := newAuthFixture(t)

	var got *model.Admin
	handler := Authenticate(authSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetAdmin(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/admin/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if got == nil || got.ID != admin.ID {
		t.Fatalf("expected admin %d in context, got %+v", admin.ID, got)
	}
}

func TestRequireRole(t *testing.T) {
	authSvc, st, admin, token := newAuthFixture(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := audit.NewRecorder(st, logger, 8)
	t.Cleanup(rec.Close)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Moderator passes a moderator gate.
	allowed := Authenticate(authSvc)(RequireRole(rec, model.RoleAdmin, model.RoleModerator)(next))
	req := httptest.NewRequest("POST", "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	allowed.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	// But not a super_admin gate.
	denied := Authenticate(authSvc)(RequireRole(rec, model.RoleSuperAdmin)(next))
	req = httptest.NewRequest("POST", "/api/admin/create", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	denied.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", rr.Code)
	}
	if resp := decodeEnvelope(t, rr); resp.ErrorCode != "INSUFFICIENT_PERMISSIONS" {
		t.Errorf("got error code %q, want INSUFFICIENT_PERMISSIONS", resp.ErrorCode)
	}

	// The denial lands in the audit log.
	rec.Close()
	entries, _, err := st.ListAuditEntries(context.Background(), model.AuditFilter{Action: model.AuditAccessDenied}, 1, 10)
	if err != nil {
		t.Fatalf("ListAuditEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d denial entries, want 1", len(entries))
	}
	if entries[0].AdminID == nil || *entries[0].AdminID != admin.ID {
		t.Errorf("expected denial attributed to admin %d", admin.ID)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Error("expected generated request ID in context")
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Error("expected request ID echoed on response")
	}

	// Client-supplied IDs are honored.
	req = httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "client-id-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "client-id-123" {
		t.Errorf("got request ID %q, want client-id-123", seen)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.1.2.3:54321"
	if got := ClientIP(req); got != "10.1.2.3" {
		t.Errorf("got %q, want 10.1.2.3", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Errorf("got %q, want 203.0.113.7", got)
	}
}

func TestLoggerCapturesStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("got status %d, want 418", rec.Code)
	}
}
