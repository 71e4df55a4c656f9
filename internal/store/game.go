package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quizdeck/quizdeck/internal/model"
)

// gameWithSource joins the source name from whichever table the game mode
// points at and counts the game's teams.
const gameWithSource = `SELECT g.*,
	CASE g.game_mode WHEN 'category' THEN c.name ELSE p.name END AS source_name,
	CASE g.game_mode WHEN 'category' THEN c.name_ar ELSE p.name_ar END AS source_name_ar,
	(SELECT COUNT(*) FROM teams t WHERE t.game_id = g.id) AS teams_count
	FROM games g
	LEFT JOIN categories c ON g.game_mode = 'category' AND g.source_id = c.id
	LEFT JOIN challenge_packs p ON g.game_mode = 'challenge_pack' AND g.source_id = p.id`

// CreateGame inserts a new, not yet completed game session and populates
// its ID and creation timestamp.
func (s *Store) CreateGame(ctx context.Context, g *model.Game) error {
	g.CreatedAt = now()

	stmt := s.rebind(`INSERT INTO games
		(game_name, total_teams, total_rounds, questions_per_round, game_mode, source_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := s.db.GetContext(ctx, &g.ID, stmt,
		g.GameName, g.TotalTeams, g.TotalRounds, g.QuestionsPerRound,
		g.GameMode, g.SourceID, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// GetGame returns a game with its teams ordered by score, best first.
func (s *Store) GetGame(ctx context.Context, id int64) (*model.GameDetail, error) {
	var detail model.GameDetail
	stmt := s.rebind(gameWithSource + " WHERE g.id = ?")
	if err := s.db.GetContext(ctx, &detail.Game, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	teamsQ := s.rebind("SELECT * FROM teams WHERE game_id = ? ORDER BY total_score DESC, team_position ASC")
	if err := s.db.SelectContext(ctx, &detail.Teams, teamsQ, id); err != nil {
		return nil, fmt.Errorf("get game teams: %w", err)
	}
	return &detail, nil
}

// ListGames returns one page of completed games, newest first, with the
// total count of completed games.
func (s *Store) ListGames(ctx context.Context, page, limit int) ([]model.Game, int64, error) {
	var total int64
	countQ := "SELECT COUNT(*) FROM games WHERE completed_at IS NOT NULL"
	if err := s.db.GetContext(ctx, &total, countQ); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	var games []model.Game
	stmt := s.rebind(gameWithSource + " WHERE g.completed_at IS NOT NULL ORDER BY g.completed_at DESC LIMIT ? OFFSET ?")
	if err := s.db.SelectContext(ctx, &games, stmt, limit, (page-1)*limit); err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}
	return games, total, nil
}

// SaveGameResults persists a finished game in a single transaction: team
// standings, the questions asked per round, every recorded answer, and
// the completion stamp. Returns ErrNotFound when the game does not exist
// or was already completed.
func (s *Store) SaveGameResults(ctx context.Context, results model.GameResults) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save game: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var completed sql.NullTime
	checkQ := tx.Rebind("SELECT completed_at FROM games WHERE id = ?")
	if err = tx.GetContext(ctx, &completed, checkQ, results.GameID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup game: %w", err)
	}
	if completed.Valid {
		return ErrNotFound
	}

	// Teams are indexed by table position; answers reference them by the
	// same index, so keep the inserted ids in submission order.
	teamIDs := make([]int64, len(results.Teams))
	teamQ := tx.Rebind(`INSERT INTO teams (game_id, team_name, team_position, total_score)
		VALUES (?, ?, ?, ?) RETURNING id`)
	for i, team := range results.Teams {
		if err = tx.GetContext(ctx, &teamIDs[i], teamQ, results.GameID, team.Name, i+1, team.Score); err != nil {
			return fmt.Errorf("insert team: %w", err)
		}
	}

	questionQ := tx.Rebind(`INSERT INTO game_questions (game_id, question_id, round_number, question_order)
		VALUES (?, ?, ?, ?)`)
	for round, ids := range results.Questions {
		for order, qid := range ids {
			if _, err = tx.ExecContext(ctx, questionQ, results.GameID, qid, round+1, order+1); err != nil {
				return fmt.Errorf("insert game question: %w", err)
			}
		}
	}

	answerQ := tx.Rebind(`INSERT INTO game_answers
		(game_id, team_id, question_id, round_number, selected_answer, is_correct, points_earned, time_taken)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, r := range results.Results {
		var teamID *int64
		if r.TeamIndex >= 0 && r.TeamIndex < len(teamIDs) {
			teamID = &teamIDs[r.TeamIndex]
		}
		_, err = tx.ExecContext(ctx, answerQ,
			results.GameID, teamID, r.QuestionID, r.Round,
			r.SelectedAnswer, r.IsCorrect, r.PointsEarned, r.TimeTaken)
		if err != nil {
			return fmt.Errorf("insert game answer: %w", err)
		}
	}

	doneQ := tx.Rebind("UPDATE games SET completed_at = ? WHERE id = ?")
	if _, err = tx.ExecContext(ctx, doneQ, now(), results.GameID); err != nil {
		return fmt.Errorf("complete game: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save game: %w", err)
	}
	return nil
}
