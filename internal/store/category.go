package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quizdeck/quizdeck/internal/model"
)

const categoryWithCount = `SELECT c.*,
	(SELECT COUNT(*) FROM questions q WHERE q.category_id = c.id AND q.is_active = TRUE) AS question_count
	FROM categories c`

// CreateCategory inserts a new category and populates its ID and
// timestamps.
func (s *Store) CreateCategory(ctx context.Context, c *model.Category) error {
	ts := now()
	c.CreatedAt = ts
	c.UpdatedAt = ts
	c.IsActive = true

	q := s.rebind(`INSERT INTO categories
		(name, name_ar, description, description_ar, difficulty, timer_seconds, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := s.db.GetContext(ctx, &c.ID, q,
		c.Name, c.NameAr, c.Description, c.DescriptionAr,
		c.Difficulty, c.TimerSeconds, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetCategory returns an active category by id, including its question
// count.
func (s *Store) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	q := s.rebind(categoryWithCount + " WHERE c.id = ? AND c.is_active = TRUE")
	if err := s.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListCategories returns one page of active categories ordered by name,
// along with the total active count.
func (s *Store) ListCategories(ctx context.Context, page, limit int) ([]model.Category, int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM categories WHERE is_active = TRUE"); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	var cats []model.Category
	q := s.rebind(categoryWithCount + " WHERE c.is_active = TRUE ORDER BY c.name LIMIT ? OFFSET ?")
	if err := s.db.SelectContext(ctx, &cats, q, limit, (page-1)*limit); err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return cats, total, nil
}

// UpdateCategory applies a partial update to an active category.
func (s *Store) UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{now()}

	add := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.NameAr != nil {
		add("name_ar", *patch.NameAr)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.DescriptionAr != nil {
		add("description_ar", *patch.DescriptionAr)
	}
	if patch.Difficulty != nil {
		add("difficulty", *patch.Difficulty)
	}
	if patch.TimerSeconds != nil {
		add("timer_seconds", *patch.TimerSeconds)
	}
	args = append(args, id)

	q := s.rebind("UPDATE categories SET " + strings.Join(sets, ", ") + " WHERE id = ? AND is_active = TRUE")
	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(result)
}

// SoftDeleteCategory deactivates a category. The row is kept for audit
// history and completed games that reference it.
func (s *Store) SoftDeleteCategory(ctx context.Context, id int64) error {
	q := s.rebind("UPDATE categories SET is_active = FALSE, updated_at = ? WHERE id = ? AND is_active = TRUE")
	result, err := s.db.ExecContext(ctx, q, now(), id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(result)
}

// CategoryExists reports whether an active category with the given id
// exists.
func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var count int
	q := s.rebind("SELECT COUNT(*) FROM categories WHERE id = ? AND is_active = TRUE")
	if err := s.db.GetContext(ctx, &count, q, id); err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return count > 0, nil
}
