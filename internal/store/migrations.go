package store

import (
	"fmt"
	"strings"
)

// Schema templates shared by both drivers. The {{pk}}, {{bool}} and {{ts}}
// tokens are substituted per dialect before execution.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id {{pk}},
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'admin',
		is_active {{bool}} NOT NULL DEFAULT TRUE,
		last_login_at {{ts}},
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id {{pk}},
		name TEXT NOT NULL,
		name_ar TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		description_ar TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT 'medium',
		timer_seconds INTEGER NOT NULL DEFAULT 30,
		is_active {{bool}} NOT NULL DEFAULT TRUE,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS challenge_packs (
		id {{pk}},
		name TEXT NOT NULL,
		name_ar TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		description_ar TEXT NOT NULL DEFAULT '',
		theme TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT 'medium',
		timer_seconds INTEGER NOT NULL DEFAULT 30,
		download_count BIGINT NOT NULL DEFAULT 0,
		is_active {{bool}} NOT NULL DEFAULT TRUE,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS questions (
		id {{pk}},
		category_id BIGINT REFERENCES categories(id),
		challenge_pack_id BIGINT REFERENCES challenge_packs(id),
		question_text TEXT NOT NULL,
		question_text_ar TEXT NOT NULL,
		option_a TEXT NOT NULL,
		option_a_ar TEXT NOT NULL,
		option_b TEXT NOT NULL,
		option_b_ar TEXT NOT NULL,
		option_c TEXT NOT NULL,
		option_c_ar TEXT NOT NULL,
		option_d TEXT NOT NULL,
		option_d_ar TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		explanation_ar TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT 'medium',
		timer_seconds INTEGER,
		is_active {{bool}} NOT NULL DEFAULT TRUE,
		created_at {{ts}} NOT NULL,
		updated_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS games (
		id {{pk}},
		game_name TEXT NOT NULL DEFAULT '',
		total_teams INTEGER NOT NULL,
		total_rounds INTEGER NOT NULL DEFAULT 1,
		questions_per_round INTEGER NOT NULL DEFAULT 10,
		game_mode TEXT NOT NULL,
		source_id BIGINT NOT NULL,
		completed_at {{ts}},
		created_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id {{pk}},
		game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		team_name TEXT NOT NULL,
		team_position INTEGER NOT NULL,
		total_score INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS game_questions (
		id {{pk}},
		game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		question_id BIGINT NOT NULL,
		round_number INTEGER NOT NULL,
		question_order INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS game_answers (
		id {{pk}},
		game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		team_id BIGINT REFERENCES teams(id),
		question_id BIGINT NOT NULL,
		round_number INTEGER NOT NULL,
		selected_answer TEXT,
		is_correct {{bool}} NOT NULL DEFAULT FALSE,
		points_earned INTEGER NOT NULL DEFAULT 0,
		time_taken INTEGER
	)`,

	`CREATE TABLE IF NOT EXISTS admin_logs (
		id {{pk}},
		admin_id BIGINT REFERENCES admins(id),
		action TEXT NOT NULL,
		target_type TEXT NOT NULL,
		target_id BIGINT,
		old_data TEXT,
		new_data TEXT,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ai_generated_content (
		id {{pk}},
		content_type TEXT NOT NULL,
		content_id BIGINT NOT NULL DEFAULT 0,
		ai_model TEXT NOT NULL DEFAULT '',
		prompt_used TEXT NOT NULL,
		generation_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		admin_id BIGINT REFERENCES admins(id),
		created_at {{ts}} NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_pack ON questions(challenge_pack_id)`,
	`CREATE INDEX IF NOT EXISTS idx_admin_logs_admin ON admin_logs(admin_id)`,
	`CREATE INDEX IF NOT EXISTS idx_admin_logs_created ON admin_logs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_game ON teams(game_id)`,
}

func (s *Store) migrate() error {
	var repl *strings.Replacer
	switch s.driver {
	case DriverPostgres:
		repl = strings.NewReplacer(
			"{{pk}}", "BIGSERIAL PRIMARY KEY",
			"{{bool}}", "BOOLEAN",
			"{{ts}}", "TIMESTAMPTZ",
		)
	default:
		repl = strings.NewReplacer(
			"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{bool}}", "INTEGER",
			"{{ts}}", "DATETIME",
		)
	}

	for _, m := range migrations {
		stmt := repl.Replace(m)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}
