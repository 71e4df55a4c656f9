package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/server/middleware"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// writeJSON serializes v and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeSuccess writes the standard success envelope.
func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, model.Response{
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// writePaginated writes a success envelope with pagination meta.
func writePaginated(w http.ResponseWriter, message string, data interface{}, page, limit int, total int64) {
	writeJSON(w, http.StatusOK, model.Response{
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
		Meta:      &model.Meta{Pagination: model.NewPagination(page, limit, total)},
	})
}

// writeError writes the standard error envelope with a machine-readable
// error code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, model.Response{
		Status:    "error",
		Message:   message,
		ErrorCode: code,
		Timestamp: time.Now().UTC(),
	})
}

// writeValidationError writes a 400 with per-field messages.
func writeValidationError(w http.ResponseWriter, errors map[string]string) {
	writeJSON(w, http.StatusBadRequest, model.Response{
		Status:    "error",
		Message:   "Validation failed",
		Errors:    errors,
		ErrorCode: "VALIDATION_ERROR",
		Timestamp: time.Now().UTC(),
	})
}

// readJSON decodes the request body into v. The body is closed either way.
func readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// urlID extracts the {id} route parameter as a positive integer.
func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pageParams reads the page/limit query parameters, applying the default
// and maximum page size.
func pageParams(r *http.Request) (page, limit int) {
	page = queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = queryInt(r, "limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// queryInt extracts an integer query parameter, returning defaultVal if
// the parameter is missing or cannot be parsed.
func queryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// queryInt64Ptr extracts an optional int64 query parameter, nil when
// absent or unparseable.
func queryInt64Ptr(r *http.Request, key string) *int64 {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// queryString extracts a string query parameter.
func queryString(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}

// recordAudit writes an admin action to the audit trail, attributed to
// the authenticated admin on the request. No-op on public routes.
func recordAudit(rec *audit.Recorder, r *http.Request, action, targetType string, targetID int64, oldData, newData interface{}) {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		return
	}
	var tid *int64
	if targetID != 0 {
		tid = &targetID
	}
	rec.Record(model.AuditEntry{
		AdminID:    &admin.ID,
		Action:     action,
		TargetType: targetType,
		TargetID:   tid,
		OldData:    audit.JSON(oldData),
		NewData:    audit.JSON(newData),
		IPAddress:  middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
}
