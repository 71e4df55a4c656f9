package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quizdeck/quizdeck/internal/model"
)

const questionWithNames = `SELECT q.*,
	c.name AS category_name, c.name_ar AS category_name_ar,
	p.name AS pack_name, p.name_ar AS pack_name_ar
	FROM questions q
	LEFT JOIN categories c ON q.category_id = c.id
	LEFT JOIN challenge_packs p ON q.challenge_pack_id = p.id`

// CreateQuestion inserts a new question and populates its ID and
// timestamps. Exactly one of CategoryID and ChallengePackID must be set;
// the handler validates this before calling.
func (s *Store) CreateQuestion(ctx context.Context, q *model.Question) error {
	ts := now()
	q.CreatedAt = ts
	q.UpdatedAt = ts
	q.IsActive = true

	stmt := s.rebind(`INSERT INTO questions
		(category_id, challenge_pack_id, question_text, question_text_ar,
		 option_a, option_a_ar, option_b, option_b_ar,
		 option_c, option_c_ar, option_d, option_d_ar,
		 correct_answer, explanation, explanation_ar, difficulty, timer_seconds,
		 is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := s.db.GetContext(ctx, &q.ID, stmt,
		q.CategoryID, q.ChallengePackID, q.QuestionText, q.QuestionTextAr,
		q.OptionA, q.OptionAAr, q.OptionB, q.OptionBAr,
		q.OptionC, q.OptionCAr, q.OptionD, q.OptionDAr,
		q.CorrectAnswer, q.Explanation, q.ExplanationAr, q.Difficulty, q.TimerSeconds,
		q.IsActive, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// GetQuestion returns an active question by id with its source names
// joined in.
func (s *Store) GetQuestion(ctx context.Context, id int64) (*model.Question, error) {
	var q model.Question
	stmt := s.rebind(questionWithNames + " WHERE q.id = ? AND q.is_active = TRUE")
	if err := s.db.GetContext(ctx, &q, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return &q, nil
}

func questionWhere(f model.QuestionFilter) (string, []interface{}) {
	where := "q.is_active = TRUE"
	var args []interface{}
	if f.CategoryID != nil {
		where += " AND q.category_id = ?"
		args = append(args, *f.CategoryID)
	}
	if f.PackID != nil {
		where += " AND q.challenge_pack_id = ?"
		args = append(args, *f.PackID)
	}
	if f.Difficulty != "" {
		where += " AND q.difficulty = ?"
		args = append(args, f.Difficulty)
	}
	return where, args
}

// ListQuestions returns one page of active questions, newest first, with
// the total matching count. The filter narrows by source and difficulty.
func (s *Store) ListQuestions(ctx context.Context, f model.QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	where, args := questionWhere(f)

	var total int64
	countQ := s.rebind("SELECT COUNT(*) FROM questions q WHERE " + where)
	if err := s.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	var questions []model.Question
	stmt := s.rebind(questionWithNames + " WHERE " + where + " ORDER BY q.created_at DESC LIMIT ? OFFSET ?")
	args = append(args, limit, (page-1)*limit)
	if err := s.db.SelectContext(ctx, &questions, stmt, args...); err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	return questions, total, nil
}

// RandomQuestions draws up to limit active questions matching the filter
// in random order.
func (s *Store) RandomQuestions(ctx context.Context, f model.QuestionFilter, limit int) ([]model.Question, error) {
	where, args := questionWhere(f)

	var questions []model.Question
	stmt := s.rebind("SELECT q.* FROM questions q WHERE " + where + " ORDER BY RANDOM() LIMIT ?")
	args = append(args, limit)
	if err := s.db.SelectContext(ctx, &questions, stmt, args...); err != nil {
		return nil, fmt.Errorf("random questions: %w", err)
	}
	return questions, nil
}

// UpdateQuestion applies a partial update to an active question.
func (s *Store) UpdateQuestion(ctx context.Context, id int64, patch model.QuestionPatch) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{now()}

	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.QuestionText != nil {
		add("question_text", *patch.QuestionText)
	}
	if patch.QuestionTextAr != nil {
		add("question_text_ar", *patch.QuestionTextAr)
	}
	if patch.OptionA != nil {
		add("option_a", *patch.OptionA)
	}
	if patch.OptionAAr != nil {
		add("option_a_ar", *patch.OptionAAr)
	}
	if patch.OptionB != nil {
		add("option_b", *patch.OptionB)
	}
	if patch.OptionBAr != nil {
		add("option_b_ar", *patch.OptionBAr)
	}
	if patch.OptionC != nil {
		add("option_c", *patch.OptionC)
	}
	if patch.OptionCAr != nil {
		add("option_c_ar", *patch.OptionCAr)
	}
	if patch.OptionD != nil {
		add("option_d", *patch.OptionD)
	}
	if patch.OptionDAr != nil {
		add("option_d_ar", *patch.OptionDAr)
	}
	if patch.CorrectAnswer != nil {
		add("correct_answer", *patch.CorrectAnswer)
	}
	if patch.Explanation != nil {
		add("explanation", *patch.Explanation)
	}
	if patch.ExplanationAr != nil {
		add("explanation_ar", *patch.ExplanationAr)
	}
	if patch.Difficulty != nil {
		add("difficulty", *patch.Difficulty)
	}
	if patch.TimerSeconds != nil {
		add("timer_seconds", *patch.TimerSeconds)
	}
	args = append(args, id)

	stmt := s.rebind("UPDATE questions SET " + strings.Join(sets, ", ") + " WHERE id = ? AND is_active = TRUE")
	result, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return requireRow(result)
}

// SoftDeleteQuestion deactivates a question.
func (s *Store) SoftDeleteQuestion(ctx context.Context, id int64) error {
	stmt := s.rebind("UPDATE questions SET is_active = FALSE, updated_at = ? WHERE id = ? AND is_active = TRUE")
	result, err := s.db.ExecContext(ctx, stmt, now(), id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return requireRow(result)
}
