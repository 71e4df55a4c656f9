package handler

import (
	"errors"
	"net/http"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/server/middleware"
	"github.com/quizdeck/quizdeck/internal/service"
	"github.com/quizdeck/quizdeck/internal/store"
	"github.com/quizdeck/quizdeck/internal/validate"
)

// AdminHandler serves authentication and admin account management.
type AdminHandler struct {
	store *store.Store
	auth  *service.AuthService
	rec   *audit.Recorder
}

func NewAdminHandler(st *store.Store, auth *service.AuthService, rec *audit.Recorder) *AdminHandler {
	return &AdminHandler{store: st, auth: auth, rec: rec}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an admin and returns a bearer token. Failures are
// deliberately uniform so the endpoint cannot be used to probe for
// account names; each failed attempt is audited with its origin.
// POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}

	v := validate.New()
	v.String("username", req.Username, validate.Required(), validate.MinLength(3))
	v.String("password", req.Password, validate.Required(), validate.MinLength(6))
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.rec.Record(model.AuditEntry{
				Action:     model.AuditFailedLogin,
				TargetType: "admin",
				NewData:    audit.JSON(map[string]string{"username": req.Username}),
				IPAddress:  middleware.ClientIP(r),
				UserAgent:  r.UserAgent(),
			})
			writeError(w, http.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS")
			return
		}
		writeError(w, http.StatusInternalServerError, "Login failed", "LOGIN_FAILED")
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", map[string]interface{}{
		"admin":      result.Admin.Profile(),
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// Logout acknowledges a client-side logout. Tokens are stateless, so the
// server has nothing to revoke; the client discards its copy.
// POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

// Profile returns the authenticated admin's own account.
// GET /api/admin/profile
func (h *AdminHandler) Profile(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required", "TOKEN_MISSING")
		return
	}
	writeSuccess(w, http.StatusOK, "Success", admin.Profile())
}

type profileUpdateRequest struct {
	Email           *string `json:"email"`
	FullName        *string `json:"full_name"`
	Password        *string `json:"password"`
	CurrentPassword string  `json:"current_password"`
}

// UpdateProfile changes the authenticated admin's email, full name, or
// password. A password change requires the current password.
// PUT /api/admin/profile
func (h *AdminHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required", "TOKEN_MISSING")
		return
	}

	var req profileUpdateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}

	v := validate.New()
	if req.Email != nil {
		v.String("email", *req.Email, validate.Required(), validate.Email(), validate.MaxLength(255))
	}
	if req.FullName != nil {
		v.String("full_name", *req.FullName, validate.Required(), validate.MaxLength(255))
	}
	if req.Password != nil {
		v.String("password", *req.Password, validate.Required(), validate.MinLength(8))
		if req.CurrentPassword == "" {
			v.Fail("current_password", "Current password is required to change password")
		}
	}
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	patch := store.AdminProfilePatch{Email: req.Email, FullName: req.FullName}
	if req.Password != nil {
		if err := h.auth.VerifyPassword(admin.PasswordHash, req.CurrentPassword); err != nil {
			writeError(w, http.StatusUnauthorized, "Current password is incorrect", "INVALID_CREDENTIALS")
			return
		}
		hash, err := service.HashPassword(*req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update profile", "UPDATE_FAILED")
			return
		}
		patch.PasswordHash = &hash
	}

	if err := h.store.UpdateAdminProfile(r.Context(), admin.ID, patch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile", "UPDATE_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditUpdate, "admin", admin.ID, nil,
		map[string]bool{"password_changed": req.Password != nil})
	writeSuccess(w, http.StatusOK, "Profile updated successfully", nil)
}

type createAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Create adds a new admin account. Only super admins reach this handler,
// and they can only grant the admin or moderator role.
// POST /api/admin/create
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}

	v := validate.New()
	v.String("username", req.Username, validate.Required(), validate.MinLength(3), validate.MaxLength(100))
	v.String("email", req.Email, validate.Required(), validate.Email(), validate.MaxLength(255))
	v.String("password", req.Password, validate.Required(), validate.MinLength(8))
	v.String("full_name", req.FullName, validate.Required(), validate.MaxLength(255))
	v.String("role", req.Role, validate.Required(), validate.InArray(model.RoleAdmin, model.RoleModerator))
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create admin", "CREATION_FAILED")
		return
	}

	account := &model.Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := h.store.CreateAdmin(r.Context(), account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Username or email already exists", "CREATION_FAILED")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create admin", "CREATION_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditCreate, "admin", account.ID, nil,
		map[string]string{"username": account.Username, "role": account.Role})
	writeSuccess(w, http.StatusCreated, "Admin created successfully", account.Profile())
}

// Logs returns the audit trail, newest first.
// GET /api/admin/logs
func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := model.AuditFilter{
		Action:     queryString(r, "action"),
		TargetType: queryString(r, "target_type"),
		AdminID:    queryInt64Ptr(r, "admin_id"),
	}
	entries, total, err := h.store.ListAuditEntries(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve logs", "FETCH_FAILED")
		return
	}
	writePaginated(w, "Activity logs retrieved successfully", entries, page, limit, total)
}

type aiGenerateRequest struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}

// AIGenerate accepts a content-generation prompt and records the request.
// Actual model calls are not wired up yet; the endpoint validates and
// stores the prompt so drafts can be attached to content later.
// POST /api/admin/ai-generate
func (h *AdminHandler) AIGenerate(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required", "TOKEN_MISSING")
		return
	}

	var req aiGenerateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}

	v := validate.New()
	v.String("type", req.Type, validate.Required(), validate.InArray(model.AITypeQuestion, model.AITypeCategory))
	v.String("prompt", req.Prompt, validate.Required(), validate.MinLength(10), validate.MaxLength(2000))
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	gen := &model.AIGeneration{
		ContentType: req.Type,
		AIModel:     "pending",
		PromptUsed:  req.Prompt,
		AdminID:     &admin.ID,
	}
	if err := h.store.RecordAIGeneration(r.Context(), gen); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record generation request", "CREATION_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditCreate, "ai_generation", gen.ID, nil,
		map[string]string{"type": req.Type})
	writeSuccess(w, http.StatusAccepted, "Generation request accepted", map[string]interface{}{
		"generation_id": gen.ID,
		"type":          req.Type,
		"status":        "pending",
	})
}
