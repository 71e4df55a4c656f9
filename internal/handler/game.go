package handler

import (
	"errors"
	"net/http"

	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/store"
	"github.com/quizdeck/quizdeck/internal/validate"
)

// GameHandler serves game sessions. These routes are called by the game
// client itself, not the admin panel, so none of them require a token.
type GameHandler struct {
	store *store.Store
}

func NewGameHandler(st *store.Store) *GameHandler {
	return &GameHandler{store: st}
}

type gameRequest struct {
	GameName          string `json:"game_name"`
	TotalTeams        int    `json:"total_teams"`
	TotalRounds       *int   `json:"total_rounds"`
	QuestionsPerRound *int   `json:"questions_per_round"`
	GameMode          string `json:"game_mode"`
	SourceID          int64  `json:"source_id"`
}

// Create starts a new game session against an active source.
// POST /api/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}
	if req.TotalRounds == nil {
		n := 1
		req.TotalRounds = &n
	}
	if req.QuestionsPerRound == nil {
		n := 10
		req.QuestionsPerRound = &n
	}

	v := validate.New()
	v.String("game_name", req.GameName, validate.Required(), validate.MaxLength(255))
	v.Int("total_teams", req.TotalTeams, validate.Min(1), validate.Max(10))
	v.Int("total_rounds", *req.TotalRounds, validate.Min(1), validate.Max(10))
	v.Int("questions_per_round", *req.QuestionsPerRound, validate.Min(1), validate.Max(50))
	v.String("game_mode", req.GameMode, validate.Required(), validate.InArray(model.GameModeCategory, model.GameModePack))
	if req.SourceID <= 0 {
		v.Fail("source_id", "source_id is required")
	}
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	var (
		exists bool
		err    error
	)
	if req.GameMode == model.GameModeCategory {
		exists, err = h.store.CategoryExists(r.Context(), req.SourceID)
	} else {
		exists, err = h.store.PackExists(r.Context(), req.SourceID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create game", "CREATION_FAILED")
		return
	}
	if !exists {
		writeError(w, http.StatusBadRequest, "Game source not found", "INVALID_SOURCE")
		return
	}

	game := &model.Game{
		GameName:          req.GameName,
		TotalTeams:        req.TotalTeams,
		TotalRounds:       *req.TotalRounds,
		QuestionsPerRound: *req.QuestionsPerRound,
		GameMode:          req.GameMode,
		SourceID:          req.SourceID,
	}
	if err := h.store.CreateGame(r.Context(), game); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create game", "CREATION_FAILED")
		return
	}

	writeSuccess(w, http.StatusCreated, "Game created successfully", map[string]int64{"game_id": game.ID})
}

// Save records a finished game: teams and scores, the questions asked,
// and per-answer results, all in one transaction.
// POST /api/games/save
func (h *GameHandler) Save(w http.ResponseWriter, r *http.Request) {
	var results model.GameResults
	if err := readJSON(r, &results); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}

	v := validate.New()
	if results.GameID <= 0 {
		v.Fail("game_id", "game_id is required")
	}
	if len(results.Teams) == 0 {
		v.Fail("teams", "At least one team result is required")
	}
	for _, team := range results.Teams {
		if team.Name == "" {
			v.Fail("teams", "Each team needs a name")
			break
		}
	}
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	if err := h.store.SaveGameResults(r.Context(), results); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Game not found or already completed", "GAME_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save game results", "UPDATE_FAILED")
		return
	}

	writeSuccess(w, http.StatusOK, "Game results saved successfully", nil)
}

// List returns completed games, newest first.
// GET /api/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	games, total, err := h.store.ListGames(r.Context(), page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve games", "FETCH_FAILED")
		return
	}
	writePaginated(w, "Games retrieved successfully", games, page, limit, total)
}

// Get returns one game with its final team standings.
// GET /api/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Game ID required", "ID_REQUIRED")
		return
	}
	detail, err := h.store.GetGame(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Game not found", "GAME_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to retrieve game", "FETCH_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Success", detail)
}
