package handler

import (
	"errors"
	"net/http"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/store"
	"github.com/quizdeck/quizdeck/internal/validate"
)

const (
	defaultRandomLimit = 10
	maxRandomLimit     = 50
)

// QuestionHandler serves the question bank: admin management plus the
// public random-draw endpoint the game client plays from.
type QuestionHandler struct {
	store *store.Store
	rec   *audit.Recorder
}

func NewQuestionHandler(st *store.Store, rec *audit.Recorder) *QuestionHandler {
	return &QuestionHandler{store: st, rec: rec}
}

// List returns active questions with joined source names, newest first.
// GET /api/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := model.QuestionFilter{
		CategoryID: queryInt64Ptr(r, "category_id"),
		PackID:     queryInt64Ptr(r, "pack_id"),
		Difficulty: queryString(r, "difficulty"),
	}
	questions, total, err := h.store.ListQuestions(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve questions", "FETCH_FAILED")
		return
	}
	writePaginated(w, "Questions retrieved successfully", questions, page, limit, total)
}

// Get returns one active question.
// GET /api/questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Question ID required", "ID_REQUIRED")
		return
	}
	question, err := h.store.GetQuestion(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to retrieve question", "FETCH_FAILED")
		return
	}
	writeSuccess(w, http.StatusOK, "Success", question)
}

// Random draws a random set of questions from a single source. The game
// client calls this at round start, so it is public but insists on a
// category or pack to draw from.
// GET /api/questions/random
func (h *QuestionHandler) Random(w http.ResponseWriter, r *http.Request) {
	filter := model.QuestionFilter{
		CategoryID: queryInt64Ptr(r, "category_id"),
		PackID:     queryInt64Ptr(r, "pack_id"),
		Difficulty: queryString(r, "difficulty"),
	}
	if filter.CategoryID == nil && filter.PackID == nil {
		writeError(w, http.StatusBadRequest, "Either category_id or pack_id is required", "SOURCE_REQUIRED")
		return
	}

	limit := queryInt(r, "limit", defaultRandomLimit)
	if limit < 1 {
		limit = defaultRandomLimit
	}
	if limit > maxRandomLimit {
		limit = maxRandomLimit
	}

	questions, err := h.store.RandomQuestions(r.Context(), filter, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve questions", "FETCH_FAILED")
		return
	}
	if len(questions) == 0 {
		writeError(w, http.StatusNotFound, "No questions found for the selected source", "NO_QUESTIONS_FOUND")
		return
	}

	writeSuccess(w, http.StatusOK, "Random questions retrieved successfully", map[string]interface{}{
		"questions":         questions,
		"total_returned":    len(questions),
		"difficulty_points": model.DifficultyPoints(),
	})
}

type questionRequest struct {
	CategoryID      *int64 `json:"category_id"`
	ChallengePackID *int64 `json:"challenge_pack_id"`
	QuestionText    string `json:"question_text"`
	QuestionTextAr  string `json:"question_text_ar"`
	OptionA         string `json:"option_a"`
	OptionAAr       string `json:"option_a_ar"`
	OptionB         string `json:"option_b"`
	OptionBAr       string `json:"option_b_ar"`
	OptionC         string `json:"option_c"`
	OptionCAr       string `json:"option_c_ar"`
	OptionD         string `json:"option_d"`
	OptionDAr       string `json:"option_d_ar"`
	CorrectAnswer   string `json:"correct_answer"`
	Explanation     string `json:"explanation"`
	ExplanationAr   string `json:"explanation_ar"`
	Difficulty      string `json:"difficulty"`
	TimerSeconds    *int   `json:"timer_seconds"`
}

// Create adds a question to exactly one source.
// POST /api/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = model.DifficultyMedium
	}

	v := validate.New()
	v.String("question_text", req.QuestionText, validate.Required(), validate.MinLength(10), validate.MaxLength(1000))
	v.String("question_text_ar", req.QuestionTextAr, validate.Required(), validate.MinLength(10), validate.MaxLength(1000))
	options := map[string]string{
		"option_a": req.OptionA, "option_a_ar": req.OptionAAr,
		"option_b": req.OptionB, "option_b_ar": req.OptionBAr,
		"option_c": req.OptionC, "option_c_ar": req.OptionCAr,
		"option_d": req.OptionD, "option_d_ar": req.OptionDAr,
	}
	for field, value := range options {
		v.String(field, value, validate.Required(), validate.MaxLength(500))
	}
	v.String("correct_answer", req.CorrectAnswer, validate.Required(), validate.InArray(model.AnswerOptions...))
	v.String("difficulty", req.Difficulty, validate.InArray(model.Difficulties...))
	if req.TimerSeconds != nil {
		v.Int("timer_seconds", *req.TimerSeconds, validate.Min(10), validate.Max(300))
	}
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	if req.CategoryID == nil && req.ChallengePackID == nil {
		writeError(w, http.StatusBadRequest, "Either category_id or challenge_pack_id is required", "SOURCE_REQUIRED")
		return
	}
	if req.CategoryID != nil && req.ChallengePackID != nil {
		writeError(w, http.StatusBadRequest, "A question belongs to a category or a challenge pack, not both", "INVALID_SOURCE")
		return
	}
	if req.CategoryID != nil {
		exists, err := h.store.CategoryExists(r.Context(), *req.CategoryID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create question", "CREATION_FAILED")
			return
		}
		if !exists {
			writeError(w, http.StatusBadRequest, "Category not found", "INVALID_SOURCE")
			return
		}
	} else {
		exists, err := h.store.PackExists(r.Context(), *req.ChallengePackID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create question", "CREATION_FAILED")
			return
		}
		if !exists {
			writeError(w, http.StatusBadRequest, "Challenge pack not found", "INVALID_SOURCE")
			return
		}
	}

	question := &model.Question{
		CategoryID:      req.CategoryID,
		ChallengePackID: req.ChallengePackID,
		QuestionText:    req.QuestionText,
		QuestionTextAr:  req.QuestionTextAr,
		OptionA:         req.OptionA,
		OptionAAr:       req.OptionAAr,
		OptionB:         req.OptionB,
		OptionBAr:       req.OptionBAr,
		OptionC:         req.OptionC,
		OptionCAr:       req.OptionCAr,
		OptionD:         req.OptionD,
		OptionDAr:       req.OptionDAr,
		CorrectAnswer:   req.CorrectAnswer,
		Explanation:     req.Explanation,
		ExplanationAr:   req.ExplanationAr,
		Difficulty:      req.Difficulty,
		TimerSeconds:    req.TimerSeconds,
	}
	if err := h.store.CreateQuestion(r.Context(), question); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create question", "CREATION_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditCreate, "question", question.ID, nil, question)
	writeSuccess(w, http.StatusCreated, "Question created successfully", map[string]int64{"id": question.ID})
}

type questionPatchRequest struct {
	model.QuestionPatch
}

// Update applies a partial update. Source membership is immutable.
// PUT /api/questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Question ID required", "ID_REQUIRED")
		return
	}

	old, err := h.store.GetQuestion(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to retrieve question", "FETCH_FAILED")
		return
	}

	var req questionPatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "INVALID_JSON")
		return
	}

	v := validate.New()
	if req.QuestionText != nil {
		v.String("question_text", *req.QuestionText, validate.Required(), validate.MinLength(10), validate.MaxLength(1000))
	}
	if req.QuestionTextAr != nil {
		v.String("question_text_ar", *req.QuestionTextAr, validate.Required(), validate.MinLength(10), validate.MaxLength(1000))
	}
	patchOptions := map[string]*string{
		"option_a": req.OptionA, "option_a_ar": req.OptionAAr,
		"option_b": req.OptionB, "option_b_ar": req.OptionBAr,
		"option_c": req.OptionC, "option_c_ar": req.OptionCAr,
		"option_d": req.OptionD, "option_d_ar": req.OptionDAr,
	}
	for field, value := range patchOptions {
		if value != nil {
			v.String(field, *value, validate.Required(), validate.MaxLength(500))
		}
	}
	if req.CorrectAnswer != nil {
		v.String("correct_answer", *req.CorrectAnswer, validate.InArray(model.AnswerOptions...))
	}
	if req.Difficulty != nil {
		v.String("difficulty", *req.Difficulty, validate.InArray(model.Difficulties...))
	}
	if req.TimerSeconds != nil {
		v.Int("timer_seconds", *req.TimerSeconds, validate.Min(10), validate.Max(300))
	}
	if v.Fails() {
		writeValidationError(w, v.Errors())
		return
	}

	if err := h.store.UpdateQuestion(r.Context(), id, req.QuestionPatch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update question", "UPDATE_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditUpdate, "question", id, old, req.QuestionPatch)
	writeSuccess(w, http.StatusOK, "Question updated successfully", nil)
}

// Delete soft-deletes a question.
// DELETE /api/questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Question ID required", "ID_REQUIRED")
		return
	}
	if err := h.store.SoftDeleteQuestion(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Question not found", "QUESTION_NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete question", "DELETE_FAILED")
		return
	}

	recordAudit(h.rec, r, model.AuditDelete, "question", id, nil, nil)
	writeSuccess(w, http.StatusOK, "Question deleted successfully", nil)
}
