package model

import "time"

// Question difficulty levels and the points awarded for a correct answer
// at each level.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	PointsEasy   = 10
	PointsMedium = 20
	PointsHard   = 30

	// DefaultTimerSeconds is applied when content is created without an
	// explicit per-question timer.
	DefaultTimerSeconds = 30
)

// Difficulties lists the allowed difficulty values in ascending order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Category is a themed group of standalone trivia questions. Names and
// descriptions are bilingual (English + Arabic).
type Category struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	NameAr        string    `json:"name_ar" db:"name_ar"`
	Description   string    `json:"description" db:"description"`
	DescriptionAr string    `json:"description_ar" db:"description_ar"`
	Difficulty    string    `json:"difficulty" db:"difficulty"`
	TimerSeconds  int       `json:"timer_seconds" db:"timer_seconds"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	QuestionCount int       `json:"question_count" db:"question_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryPatch carries a partial category update. Nil fields are left
// unchanged.
type CategoryPatch struct {
	Name          *string `json:"name"`
	NameAr        *string `json:"name_ar"`
	Description   *string `json:"description"`
	DescriptionAr *string `json:"description_ar"`
	Difficulty    *string `json:"difficulty"`
	TimerSeconds  *int    `json:"timer_seconds"`
}
