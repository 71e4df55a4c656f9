package model

import "time"

// Game modes select where a session draws its questions from.
const (
	GameModeCategory = "category"
	GameModePack     = "challenge_pack"
)

// Game is a single play session. It is created when teams start playing
// and completed once results are saved; completed_at doubles as the
// completion flag.
type Game struct {
	ID                int64      `json:"id" db:"id"`
	GameName          string     `json:"game_name" db:"game_name"`
	TotalTeams        int        `json:"total_teams" db:"total_teams"`
	TotalRounds       int        `json:"total_rounds" db:"total_rounds"`
	QuestionsPerRound int        `json:"questions_per_round" db:"questions_per_round"`
	GameMode          string     `json:"game_mode" db:"game_mode"`
	SourceID          int64      `json:"source_id" db:"source_id"`
	CompletedAt       *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`

	// Joined fields, populated by list/show queries only.
	SourceName   *string `json:"source_name,omitempty" db:"source_name"`
	SourceNameAr *string `json:"source_name_ar,omitempty" db:"source_name_ar"`
	TeamsCount   int     `json:"teams_count" db:"teams_count"`
}

// Team is one competing team within a game.
type Team struct {
	ID           int64  `json:"id" db:"id"`
	GameID       int64  `json:"game_id" db:"game_id"`
	TeamName     string `json:"team_name" db:"team_name"`
	TeamPosition int    `json:"team_position" db:"team_position"`
	TotalScore   int    `json:"total_score" db:"total_score"`
}

// GameResults is the payload submitted when a finished game is saved.
// Teams are ordered by table position; Questions maps rounds to the
// question ids asked in order; Results holds per-answer outcomes.
type GameResults struct {
	GameID    int64          `json:"game_id"`
	Teams     []TeamResult   `json:"teams"`
	Questions [][]int64      `json:"questions,omitempty"`
	Results   []AnswerResult `json:"results"`
}

// TeamResult is one team's final standing within submitted game results.
type TeamResult struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// AnswerResult records a single question answered by a team during a game.
type AnswerResult struct {
	TeamIndex      int    `json:"team_index"`
	QuestionID     int64  `json:"question_id"`
	Round          int    `json:"round"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	TimeTaken      *int   `json:"time_taken"`
}

// GameDetail is a completed game together with its final team standings.
type GameDetail struct {
	Game  Game   `json:"game"`
	Teams []Team `json:"teams"`
}
