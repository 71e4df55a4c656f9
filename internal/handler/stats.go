package handler

import (
	"net/http"

	"github.com/quizdeck/quizdeck/internal/store"
)

// StatsHandler serves aggregate platform statistics. Dashboard and
// per-content breakdowns are admin-only; game and general stats are
// public for the client's end-of-game screens.
type StatsHandler struct {
	store *store.Store
}

func NewStatsHandler(st *store.Store) *StatsHandler {
	return &StatsHandler{store: st}
}

// Dashboard returns headline counts, recent activity, and top content.
// GET /api/statistics/dashboard
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.DashboardStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics", "STATS_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Dashboard statistics retrieved successfully", stats)
}

// Categories returns per-category question and difficulty breakdowns.
// GET /api/statistics/categories
func (h *StatsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.CategoryStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics", "STATS_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Category statistics retrieved successfully", stats)
}

// Packs returns per-pack question, difficulty, and download breakdowns.
// GET /api/statistics/packs
func (h *StatsHandler) Packs(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.PackStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics", "STATS_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Pack statistics retrieved successfully", stats)
}

// Questions returns question-bank composition over difficulty and source.
// GET /api/statistics/questions
func (h *StatsHandler) Questions(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.QuestionStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics", "STATS_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Question statistics retrieved successfully", stats)
}

// Games returns completed-game aggregates.
// GET /api/statistics/games
func (h *StatsHandler) Games(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GameStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics", "STATS_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Game statistics retrieved successfully", stats)
}

// General returns platform-wide totals.
// GET /api/statistics/general
func (h *StatsHandler) General(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GeneralStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics", "STATS_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "General statistics retrieved successfully", stats)
}
