package model

// PlatformCounts is the headline totals block of the admin dashboard.
// TotalDownloads is nil until at least one pack exists.
type PlatformCounts struct {
	TotalCategories int64  `json:"total_categories" db:"total_categories"`
	TotalPacks      int64  `json:"total_packs" db:"total_packs"`
	TotalQuestions  int64  `json:"total_questions" db:"total_questions"`
	TotalGames      int64  `json:"total_games" db:"total_games"`
	TotalAdmins     int64  `json:"total_admins" db:"total_admins"`
	TotalDownloads  *int64 `json:"total_downloads" db:"total_downloads"`
}

// ActivityBucket is one day/action/target grouping of recent audit
// activity. Date is formatted YYYY-MM-DD.
type ActivityBucket struct {
	Date       string `json:"date" db:"date"`
	Action     string `json:"action" db:"action"`
	TargetType string `json:"target_type" db:"target_type"`
	Count      int64  `json:"count" db:"count"`
}

// CategoryUsage ranks a category by how many questions it holds.
type CategoryUsage struct {
	Name          string   `json:"name" db:"name"`
	NameAr        string   `json:"name_ar" db:"name_ar"`
	QuestionCount int64    `json:"question_count" db:"question_count"`
	AvgDifficulty *float64 `json:"avg_difficulty" db:"avg_difficulty"`
}

// PackUsage ranks a challenge pack by downloads.
type PackUsage struct {
	Name          string `json:"name" db:"name"`
	NameAr        string `json:"name_ar" db:"name_ar"`
	DownloadCount int64  `json:"download_count" db:"download_count"`
	QuestionCount int64  `json:"question_count" db:"question_count"`
}

// DashboardStats is the full admin dashboard payload.
type DashboardStats struct {
	Counts             PlatformCounts   `json:"counts"`
	RecentActivity     []ActivityBucket `json:"recent_activity"`
	PopularCategories  []CategoryUsage  `json:"popular_categories"`
	TopDownloadedPacks []PackUsage      `json:"top_downloaded_packs"`
}

// CategoryStats is a category with its question difficulty breakdown.
type CategoryStats struct {
	Category
	AvgDifficultyScore *float64 `json:"avg_difficulty_score" db:"avg_difficulty_score"`
	EasyQuestions      int64    `json:"easy_questions" db:"easy_questions"`
	MediumQuestions    int64    `json:"medium_questions" db:"medium_questions"`
	HardQuestions      int64    `json:"hard_questions" db:"hard_questions"`
}

// PackStats is a challenge pack with its question difficulty breakdown.
type PackStats struct {
	ChallengePack
	AvgDifficultyScore *float64 `json:"avg_difficulty_score" db:"avg_difficulty_score"`
	EasyQuestions      int64    `json:"easy_questions" db:"easy_questions"`
	MediumQuestions    int64    `json:"medium_questions" db:"medium_questions"`
	HardQuestions      int64    `json:"hard_questions" db:"hard_questions"`
}

// DifficultyBucket counts active questions at one difficulty level.
type DifficultyBucket struct {
	Difficulty string   `json:"difficulty" db:"difficulty"`
	Count      int64    `json:"count" db:"count"`
	AvgTimer   *float64 `json:"avg_timer" db:"avg_timer"`
}

// SourceBreakdown splits the question bank between categories and packs.
type SourceBreakdown struct {
	CategoryQuestions int64 `json:"category_questions" db:"category_questions"`
	PackQuestions     int64 `json:"pack_questions" db:"pack_questions"`
	TotalQuestions    int64 `json:"total_questions" db:"total_questions"`
}

// QuestionDayCount is one day of question additions.
type QuestionDayCount struct {
	Date           string `json:"date" db:"date"`
	QuestionsAdded int64  `json:"questions_added" db:"questions_added"`
}

// QuestionStats is the question bank statistics payload.
type QuestionStats struct {
	ByDifficulty    []DifficultyBucket `json:"by_difficulty"`
	BySource        SourceBreakdown    `json:"by_source"`
	RecentAdditions []QuestionDayCount `json:"recent_additions"`
}

// GameOverview aggregates completed game sessions.
type GameOverview struct {
	TotalGames           int64    `json:"total_games" db:"total_games"`
	AvgTeams             *float64 `json:"avg_teams" db:"avg_teams"`
	AvgQuestionsPerRound *float64 `json:"avg_questions_per_round" db:"avg_questions_per_round"`
	AvgRounds            *float64 `json:"avg_rounds" db:"avg_rounds"`
	CategoryGames        int64    `json:"category_games" db:"category_games"`
	PackGames            int64    `json:"pack_games" db:"pack_games"`
}

// GameDayCount is one day of completed games.
type GameDayCount struct {
	Date           string `json:"date" db:"date"`
	GamesCompleted int64  `json:"games_completed" db:"games_completed"`
}

// GameStats is the game statistics payload.
type GameStats struct {
	Overview      GameOverview   `json:"overview"`
	GamesOverTime []GameDayCount `json:"games_over_time"`
}

// GeneralStats is the public platform overview.
type GeneralStats struct {
	Categories     int64  `json:"categories" db:"categories"`
	Packs          int64  `json:"packs" db:"packs"`
	Questions      int64  `json:"questions" db:"questions"`
	CompletedGames int64  `json:"completed_games" db:"completed_games"`
	Admins         int64  `json:"admins" db:"admins"`
	TotalDownloads *int64 `json:"total_downloads" db:"total_downloads"`
	ActionsLast24h int64  `json:"actions_last_24h" db:"actions_last_24h"`
}
