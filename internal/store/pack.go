package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quizdeck/quizdeck/internal/model"
)

const packWithCount = `SELECT p.*,
	(SELECT COUNT(*) FROM questions q WHERE q.challenge_pack_id = p.id AND q.is_active = TRUE) AS question_count
	FROM challenge_packs p`

// CreatePack inserts a new challenge pack and populates its ID and
// timestamps.
func (s *Store) CreatePack(ctx context.Context, p *model.ChallengePack) error {
	ts := now()
	p.CreatedAt = ts
	p.UpdatedAt = ts
	p.IsActive = true

	q := s.rebind(`INSERT INTO challenge_packs
		(name, name_ar, description, description_ar, theme, difficulty, timer_seconds, download_count, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)
		RETURNING id`)

	err := s.db.GetContext(ctx, &p.ID, q,
		p.Name, p.NameAr, p.Description, p.DescriptionAr, p.Theme,
		p.Difficulty, p.TimerSeconds, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert pack: %w", err)
	}
	return nil
}

// GetPack returns an active challenge pack by id, including its question
// count.
func (s *Store) GetPack(ctx context.Context, id int64) (*model.ChallengePack, error) {
	var p model.ChallengePack
	q := s.rebind(packWithCount + " WHERE p.id = ? AND p.is_active = TRUE")
	if err := s.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pack: %w", err)
	}
	return &p, nil
}

// ListPacks returns one page of active packs ordered by name, optionally
// filtered by theme, along with the total matching count.
func (s *Store) ListPacks(ctx context.Context, page, limit int, theme string) ([]model.ChallengePack, int64, error) {
	where := " WHERE p.is_active = TRUE"
	countWhere := "WHERE is_active = TRUE"
	var args []interface{}
	if theme != "" {
		where += " AND p.theme = ?"
		countWhere += " AND theme = ?"
		args = append(args, theme)
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, s.rebind("SELECT COUNT(*) FROM challenge_packs "+countWhere), args...); err != nil {
		return nil, 0, fmt.Errorf("count packs: %w", err)
	}

	var packs []model.ChallengePack
	q := s.rebind(packWithCount + where + " ORDER BY p.name LIMIT ? OFFSET ?")
	args = append(args, limit, (page-1)*limit)
	if err := s.db.SelectContext(ctx, &packs, q, args...); err != nil {
		return nil, 0, fmt.Errorf("list packs: %w", err)
	}
	return packs, total, nil
}

// UpdatePack applies a partial update to an active challenge pack.
func (s *Store) UpdatePack(ctx context.Context, id int64, patch model.PackPatch) error {
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
	if patch.Theme != nil {
		add("theme", *patch.Theme)
	}
	if patch.Difficulty != nil {
		add("difficulty", *patch.Difficulty)
	}
	if patch.TimerSeconds != nil {
		add("timer_seconds", *patch.TimerSeconds)
	}
	args = append(args, id)

	q := s.rebind("UPDATE challenge_packs SET " + strings.Join(sets, ", ") + " WHERE id = ? AND is_active = TRUE")
	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update pack: %w", err)
	}
	return requireRow(result)
}

// SoftDeletePack deactivates a challenge pack.
func (s *Store) SoftDeletePack(ctx context.Context, id int64) error {
	q := s.rebind("UPDATE challenge_packs SET is_active = FALSE, updated_at = ? WHERE id = ? AND is_active = TRUE")
	result, err := s.db.ExecContext(ctx, q, now(), id)
	if err != nil {
		return fmt.Errorf("delete pack: %w", err)
	}
	return requireRow(result)
}

// PackExists reports whether an active pack with the given id exists.
func (s *Store) PackExists(ctx context.Context, id int64) (bool, error) {
	var count int
	q := s.rebind("SELECT COUNT(*) FROM challenge_packs WHERE id = ? AND is_active = TRUE")
	if err := s.db.GetContext(ctx, &count, q, id); err != nil {
		return false, fmt.Errorf("pack exists: %w", err)
	}
	return count > 0, nil
}

// DownloadPack atomically increments a pack's download counter and returns
// the pack bundled with all of its active questions in random order.
func (s *Store) DownloadPack(ctx context.Context, id int64) (*model.PackDownload, error) {
	q := s.rebind("UPDATE challenge_packs SET download_count = download_count + 1 WHERE id = ? AND is_active = TRUE")
	result, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("count download: %w", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}

	pack, err := s.GetPack(ctx, id)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	qq := s.rebind("SELECT * FROM questions WHERE challenge_pack_id = ? AND is_active = TRUE ORDER BY RANDOM()")
	if err := s.db.SelectContext(ctx, &questions, qq, id); err != nil {
		return nil, fmt.Errorf("pack questions: %w", err)
	}

	return &model.PackDownload{
		PackInfo:          *pack,
		Questions:         questions,
		DownloadTimestamp: now(),
		TotalQuestions:    len(questions),
	}, nil
}
