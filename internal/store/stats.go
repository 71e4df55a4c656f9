package store

import (
	"context"
	"fmt"
	"time"

	"github.com/quizdeck/quizdeck/internal/model"
)

// dateExpr renders a timestamp column as a YYYY-MM-DD string in the
// active dialect, so day-bucketed aggregates scan uniformly.
func (s *Store) dateExpr(col string) string {
	if s.driver == DriverPostgres {
		return "to_char(" + col + ", 'YYYY-MM-DD')"
	}
	return "date(" + col + ")"
}

const avgDifficultyExpr = `AVG(CASE q.difficulty
	WHEN 'easy' THEN 1
	WHEN 'medium' THEN 2
	WHEN 'hard' THEN 3
	END)`

// DashboardStats assembles the admin dashboard: headline counts, the
// last week of audit activity, and the top five categories and packs.
func (s *Store) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats

	countsQ := `SELECT
		(SELECT COUNT(*) FROM categories WHERE is_active = TRUE) AS total_categories,
		(SELECT COUNT(*) FROM challenge_packs WHERE is_active = TRUE) AS total_packs,
		(SELECT COUNT(*) FROM questions WHERE is_active = TRUE) AS total_questions,
		(SELECT COUNT(*) FROM games WHERE completed_at IS NOT NULL) AS total_games,
		(SELECT COUNT(*) FROM admins WHERE is_active = TRUE) AS total_admins,
		(SELECT SUM(download_count) FROM challenge_packs) AS total_downloads`
	if err := s.db.GetContext(ctx, &stats.Counts, countsQ); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	since := now().Add(-7 * 24 * time.Hour)
	activityQ := s.rebind(fmt.Sprintf(`SELECT %s AS date, action, target_type, COUNT(*) AS count
		FROM admin_logs
		WHERE created_at >= ?
		GROUP BY %s, action, target_type
		ORDER BY date DESC, count DESC
		LIMIT 20`, s.dateExpr("created_at"), s.dateExpr("created_at")))
	if err := s.db.SelectContext(ctx, &stats.RecentActivity, activityQ, since); err != nil {
		return nil, fmt.Errorf("dashboard activity: %w", err)
	}

	popularQ := `SELECT c.name, c.name_ar, COUNT(q.id) AS question_count,
		` + avgDifficultyExpr + ` AS avg_difficulty
		FROM categories c
		LEFT JOIN questions q ON c.id = q.category_id AND q.is_active = TRUE
		WHERE c.is_active = TRUE
		GROUP BY c.id, c.name, c.name_ar
		ORDER BY question_count DESC
		LIMIT 5`
	if err := s.db.SelectContext(ctx, &stats.PopularCategories, popularQ); err != nil {
		return nil, fmt.Errorf("dashboard categories: %w", err)
	}

	topPacksQ := `SELECT name, name_ar, download_count,
		(SELECT COUNT(*) FROM questions WHERE challenge_pack_id = cp.id AND is_active = TRUE) AS question_count
		FROM challenge_packs cp
		WHERE is_active = TRUE
		ORDER BY download_count DESC
		LIMIT 5`
	if err := s.db.SelectContext(ctx, &stats.TopDownloadedPacks, topPacksQ); err != nil {
		return nil, fmt.Errorf("dashboard packs: %w", err)
	}

	return &stats, nil
}

// CategoryStats returns every active category with its question count
// and difficulty breakdown, busiest first.
func (s *Store) CategoryStats(ctx context.Context) ([]model.CategoryStats, error) {
	q := `SELECT c.*, COUNT(q.id) AS question_count,
		` + avgDifficultyExpr + ` AS avg_difficulty_score,
		SUM(CASE WHEN q.difficulty = 'easy' THEN 1 ELSE 0 END) AS easy_questions,
		SUM(CASE WHEN q.difficulty = 'medium' THEN 1 ELSE 0 END) AS medium_questions,
		SUM(CASE WHEN q.difficulty = 'hard' THEN 1 ELSE 0 END) AS hard_questions
		FROM categories c
		LEFT JOIN questions q ON c.id = q.category_id AND q.is_active = TRUE
		WHERE c.is_active = TRUE
		GROUP BY c.id
		ORDER BY question_count DESC`

	var stats []model.CategoryStats
	if err := s.db.SelectContext(ctx, &stats, q); err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return stats, nil
}

// PackStats returns every active pack with its question count and
// difficulty breakdown, most downloaded first.
func (s *Store) PackStats(ctx context.Context) ([]model.PackStats, error) {
	q := `SELECT cp.*, COUNT(q.id) AS question_count,
		` + avgDifficultyExpr + ` AS avg_difficulty_score,
		SUM(CASE WHEN q.difficulty = 'easy' THEN 1 ELSE 0 END) AS easy_questions,
		SUM(CASE WHEN q.difficulty = 'medium' THEN 1 ELSE 0 END) AS medium_questions,
		SUM(CASE WHEN q.difficulty = 'hard' THEN 1 ELSE 0 END) AS hard_questions
		FROM challenge_packs cp
		LEFT JOIN questions q ON cp.id = q.challenge_pack_id AND q.is_active = TRUE
		WHERE cp.is_active = TRUE
		GROUP BY cp.id
		ORDER BY cp.download_count DESC`

	var stats []model.PackStats
	if err := s.db.SelectContext(ctx, &stats, q); err != nil {
		return nil, fmt.Errorf("pack stats: %w", err)
	}
	return stats, nil
}

// QuestionStats aggregates the question bank by difficulty, source, and
// the last 30 days of additions.
func (s *Store) QuestionStats(ctx context.Context) (*model.QuestionStats, error) {
	var stats model.QuestionStats

	difficultyQ := `SELECT difficulty, COUNT(*) AS count, AVG(timer_seconds) AS avg_timer
		FROM questions
		WHERE is_active = TRUE
		GROUP BY difficulty
		ORDER BY CASE difficulty WHEN 'easy' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END`
	if err := s.db.SelectContext(ctx, &stats.ByDifficulty, difficultyQ); err != nil {
		return nil, fmt.Errorf("question difficulty stats: %w", err)
	}

	sourceQ := `SELECT
		COUNT(CASE WHEN category_id IS NOT NULL THEN 1 END) AS category_questions,
		COUNT(CASE WHEN challenge_pack_id IS NOT NULL THEN 1 END) AS pack_questions,
		COUNT(*) AS total_questions
		FROM questions
		WHERE is_active = TRUE`
	if err := s.db.GetContext(ctx, &stats.BySource, sourceQ); err != nil {
		return nil, fmt.Errorf("question source stats: %w", err)
	}

	since := now().Add(-30 * 24 * time.Hour)
	recentQ := s.rebind(fmt.Sprintf(`SELECT %s AS date, COUNT(*) AS questions_added
		FROM questions
		WHERE created_at >= ? AND is_active = TRUE
		GROUP BY %s
		ORDER BY date DESC`, s.dateExpr("created_at"), s.dateExpr("created_at")))
	if err := s.db.SelectContext(ctx, &stats.RecentAdditions, recentQ, since); err != nil {
		return nil, fmt.Errorf("question recent stats: %w", err)
	}

	return &stats, nil
}

// GameStats aggregates completed games and their 30-day completion trend.
func (s *Store) GameStats(ctx context.Context) (*model.GameStats, error) {
	var stats model.GameStats

	overviewQ := `SELECT
		COUNT(*) AS total_games,
		AVG(total_teams) AS avg_teams,
		AVG(questions_per_round) AS avg_questions_per_round,
		AVG(total_rounds) AS avg_rounds,
		COUNT(CASE WHEN game_mode = 'category' THEN 1 END) AS category_games,
		COUNT(CASE WHEN game_mode = 'challenge_pack' THEN 1 END) AS pack_games
		FROM games
		WHERE completed_at IS NOT NULL`
	if err := s.db.GetContext(ctx, &stats.Overview, overviewQ); err != nil {
		return nil, fmt.Errorf("game overview stats: %w", err)
	}

	since := now().Add(-30 * 24 * time.Hour)
	timeQ := s.rebind(fmt.Sprintf(`SELECT %s AS date, COUNT(*) AS games_completed
		FROM games
		WHERE completed_at >= ?
		GROUP BY %s
		ORDER BY date DESC`, s.dateExpr("completed_at"), s.dateExpr("completed_at")))
	if err := s.db.SelectContext(ctx, &stats.GamesOverTime, timeQ, since); err != nil {
		return nil, fmt.Errorf("games over time: %w", err)
	}

	return &stats, nil
}

// GeneralStats returns the public platform overview.
func (s *Store) GeneralStats(ctx context.Context) (*model.GeneralStats, error) {
	since := now().Add(-24 * time.Hour)
	q := s.rebind(`SELECT
		(SELECT COUNT(*) FROM categories WHERE is_active = TRUE) AS categories,
		(SELECT COUNT(*) FROM challenge_packs WHERE is_active = TRUE) AS packs,
		(SELECT COUNT(*) FROM questions WHERE is_active = TRUE) AS questions,
		(SELECT COUNT(*) FROM games WHERE completed_at IS NOT NULL) AS completed_games,
		(SELECT COUNT(*) FROM admins WHERE is_active = TRUE) AS admins,
		(SELECT SUM(download_count) FROM challenge_packs) AS total_downloads,
		(SELECT COUNT(*) FROM admin_logs WHERE created_at >= ?) AS actions_last_24h`)

	var stats model.GeneralStats
	if err := s.db.GetContext(ctx, &stats, q, since); err != nil {
		return nil, fmt.Errorf("general stats: %w", err)
	}
	return &stats, nil
}
