package handler

import (
	"errors"
	"net/http"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/store"
	"github.com/quizdeck/quizdeck/internal/validate"
)

// CategoryHandler serves the public category catalog and its admin
// management endpoints.
type CategoryHandler struct {
	store *store.Store
	rec   *audit.Recorder
}

func NewCategoryHandler(st *store.Store, rec *audit.Recorder) *CategoryHandler {
	return &CategoryHandler{store: st, rec: rec}
}

// List returns active categories with question counts.
// GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	categories, total, err := h.store.ListCategories(r.Context(), page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve categories", "FETCH_FAILED")
		return
	}
	writePaginated(w, "Categories retrieved successfully", categories, page, limit, total)
}

// Get returns one active category.
// GET /api/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Category ID required", "ID_REQUIRED")
		return
	}
	category, err := h.store.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to retrieve category", "FETCH_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Success", category)
}

type categoryRequest struct {
	Name          string `json:"name"`
	NameAr        string `json:"name_ar"`
	Description   string `json:"description"`
	DescriptionAr string `json:"description_ar"`
	Difficulty    string `json:"difficulty"`
	TimerSeconds  *int   `json:"timer_seconds"`
}

// Create adds a category.
// POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = model.DifficultyMedium
	}
	if req.TimerSeconds == nil {
		n := model.DefaultTimerSeconds
		req.TimerSeconds = &n
	}

	v := validate.New()
	v.String("name", req.Name, validate.Required(), validate.MinLength(2), validate.MaxLength(255))
	v.String("name_ar", req.NameAr, validate.Required(), validate.MinLength(2), validate.MaxLength(255))
	v.String("difficulty", req.Difficulty, validate.InArray(model.Difficulties...))
	v.Int("timer_seconds", *req.TimerSeconds, validate.Min(10))
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	category := &model.Category{
		Name:          req.Name,
		NameAr:        req.NameAr,
		Description:   req.Description,
		DescriptionAr: req.DescriptionAr,
		Difficulty:    req.Difficulty,
		TimerSeconds:  *req.TimerSeconds,
	}
	if err := h.store.CreateCategory(r.Context(), category); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create category", "CREATION_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditCreate, "category", category.ID, nil, category)
	writeSuccess(w, http.StatusCreated, "Category created successfully", map[string]int64{"id": category.ID})
}

type categoryPatchRequest struct {
	model.CategoryPatch
}

// Update applies a partial update.
// PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Category ID required", "ID_REQUIRED")
		return
	}

	old, err := h.store.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to retrieve category", "FETCH_FAILED")
		return
	}

	var req categoryPatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}

	v := validate.New()
	if req.Name != nil {
		v.String("name", *req.Name, validate.Required(), validate.MinLength(2), validate.MaxLength(255))
	}
	if req.NameAr != nil {
		v.String("name_ar", *req.NameAr, validate.Required(), validate.MinLength(2), validate.MaxLength(255))
	}
	if req.Difficulty != nil {
		v.String("difficulty", *req.Difficulty, validate.InArray(model.Difficulties...))
	}
	if req.TimerSeconds != nil {
		v.Int("timer_seconds", *req.TimerSeconds, validate.Min(10))
	}
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	if err := h.store.UpdateCategory(r.Context(), id, req.CategoryPatch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update category", "UPDATE_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditUpdate, "category", id, old, req.CategoryPatch)
	writeSuccess(w, http.StatusOK, "Category updated successfully", nil)
}

// Delete soft-deletes a category.
// DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Category ID required", "ID_REQUIRED")
		return
	}
	if err := h.store.SoftDeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete category", "DELETE_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditDelete, "category", id, nil, nil)
	writeSuccess(w, http.StatusOK, "Category deleted successfully", nil)
}

