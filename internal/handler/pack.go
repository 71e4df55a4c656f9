package handler

import (
	"errors"
	"net/http"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/store"
	"github.com/quizdeck/quizdeck/internal/validate"
)

// PackHandler serves challenge packs: the public catalog, the download
// endpoint used by the app, and admin management.
type PackHandler struct {
	store *store.Store
	rec   *audit.Recorder
}

func NewPackHandler(st *store.Store, rec *audit.Recorder) *PackHandler {
	return &PackHandler{store: st, rec: rec}
}

// List returns active packs, optionally filtered by theme.
// GET /api/challenge-packs
func (h *PackHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	packs, total, err := h.store.ListPacks(r.Context(), page, limit, queryString(r, "theme"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve challenge packs", "FETCH_FAILED")
		return
	}
	writePaginated(w, "Challenge packs retrieved successfully", packs, page, limit, total)
}

// Get returns one active pack.
// GET /api/challenge-packs/{id}
func (h *PackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Pack ID required", "ID_REQUIRED")
		return
	}
	pack, err := h.store.GetPack(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Challenge pack not found", "PACK_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to retrieve challenge pack", "FETCH_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Success", pack)
}

// Download bumps the pack's download counter and hands back the pack with
// all of its questions, shuffled for offline play.
// GET /api/challenge-packs/download/{id}
func (h *PackHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Pack ID required", "ID_REQUIRED")
		return
	}
	dl, err := h.store.DownloadPack(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Challenge pack not found", "PACK_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to download challenge pack", "DOWNLOAD_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Challenge pack downloaded successfully", dl)
}

type packRequest struct {
	Name          string `json:"name"`
	NameAr        string `json:"name_ar"`
	Description   string `json:"description"`
	DescriptionAr string `json:"description_ar"`
	Theme         string `json:"theme"`
	Difficulty    string `json:"difficulty"`
	TimerSeconds  *int   `json:"timer_seconds"`
}

// Create adds a challenge pack.
// POST /api/challenge-packs
func (h *PackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req packRequest
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
	v.String("theme", req.Theme, validate.MaxLength(100))
	v.String("difficulty", req.Difficulty, validate.InArray(model.Difficulties...))
	v.Int("timer_seconds", *req.TimerSeconds, validate.Min(10), validate.Max(300))
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	pack := &model.ChallengePack{
		Name:          req.Name,
		NameAr:        req.NameAr,
		Description:   req.Description,
		DescriptionAr: req.DescriptionAr,
		Theme:         req.Theme,
		Difficulty:    req.Difficulty,
		TimerSeconds:  *req.TimerSeconds,
	}
	if err := h.store.CreatePack(r.Context(), pack); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create challenge pack", "CREATION_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditCreate, "challenge_pack", pack.ID, nil, pack)
	writeSuccess(w, http.StatusCreated, "Challenge pack created successfully", map[string]int64{"id": pack.ID})
}

// Update applies a partial update.
// PUT /api/challenge-packs/{id}
func (h *PackHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Pack ID required", "ID_REQUIRED")
		return
	}

	old, err := h.store.GetPack(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Challenge pack not found", "PACK_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to retrieve challenge pack", "FETCH_FAILED")
		return
	}

	var patch model.PackPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}

	v := validate.New()
	if patch.Name != nil {
		v.String("name", *patch.Name, validate.Required(), validate.MinLength(2), validate.MaxLength(255))
	}
	if patch.NameAr != nil {
		v.String("name_ar", *patch.NameAr, validate.Required(), validate.MinLength(2), validate.MaxLength(255))
	}
	if patch.Theme != nil {
		v.String("theme", *patch.Theme, validate.MaxLength(100))
	}
	if patch.Difficulty != nil {
		v.String("difficulty", *patch.Difficulty, validate.InArray(model.Difficulties...))
	}
	if patch.TimerSeconds != nil {
		v.Int("timer_seconds", *patch.TimerSeconds, validate.Min(10), validate.Max(300))
	}
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	if err := h.store.UpdatePack(r.Context(), id, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Challenge pack not found", "PACK_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update challenge pack", "UPDATE_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditUpdate, "challenge_pack", id, old, patch)
	writeSuccess(w, http.StatusOK, "Challenge pack updated successfully", nil)
}

// Delete soft-deletes a pack.
// DELETE /api/challenge-packs/{id}
func (h *PackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Pack ID required", "ID_REQUIRED")
		return
	}
	if err := h.store.SoftDeletePack(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Challenge pack not found", "PACK_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete challenge pack", "DELETE_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditDelete, "challenge_pack", id, nil, nil)
	writeSuccess(w, http.StatusOK, "Challenge pack deleted successfully", nil)
}

