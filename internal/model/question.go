package model

import "time"

// AnswerOptions lists the allowed correct_answer values, one per
// multiple-choice option.
var AnswerOptions = []string{"a", "b", "c", "d"}

// Question is a single multiple-choice trivia question. Every question
// belongs to exactly one source: either a category or a challenge pack,
// never both. All player-visible text is bilingual.
type Question struct {
	ID              int64     `json:"id" db:"id"`
	CategoryID      *int64    `json:"category_id" db:"category_id"`
	ChallengePackID *int64    `json:"challenge_pack_id" db:"challenge_pack_id"`
	QuestionText    string    `json:"question_text" db:"question_text"`
	QuestionTextAr  string    `json:"question_text_ar" db:"question_text_ar"`
	OptionA         string    `json:"option_a" db:"option_a"`
	OptionAAr       string    `json:"option_a_ar" db:"option_a_ar"`
	OptionB         string    `json:"option_b" db:"option_b"`
	OptionBAr       string    `json:"option_b_ar" db:"option_b_ar"`
	OptionC         string    `json:"option_c" db:"option_c"`
	OptionCAr       string    `json:"option_c_ar" db:"option_c_ar"`
	OptionD         string    `json:"option_d" db:"option_d"`
	OptionDAr       string    `json:"option_d_ar" db:"option_d_ar"`
	CorrectAnswer   string    `json:"correct_answer" db:"correct_answer"`
	Explanation     string    `json:"explanation" db:"explanation"`
	ExplanationAr   string    `json:"explanation_ar" db:"explanation_ar"`
	Difficulty      string    `json:"difficulty" db:"difficulty"`
	TimerSeconds    *int      `json:"timer_seconds" db:"timer_seconds"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Joined source names, populated by list/show queries only.
	CategoryName   *string `json:"category_name,omitempty" db:"category_name"`
	CategoryNameAr *string `json:"category_name_ar,omitempty" db:"category_name_ar"`
	PackName       *string `json:"pack_name,omitempty" db:"pack_name"`
	PackNameAr     *string `json:"pack_name_ar,omitempty" db:"pack_name_ar"`
}

// QuestionPatch carries a partial question update. Nil fields are left
// unchanged. Source membership (category/pack) is immutable after create.
type QuestionPatch struct {
	QuestionText   *string `json:"question_text"`
	QuestionTextAr *string `json:"question_text_ar"`
	OptionA        *string `json:"option_a"`
	OptionAAr      *string `json:"option_a_ar"`
	OptionB        *string `json:"option_b"`
	OptionBAr      *string `json:"option_b_ar"`
	OptionC        *string `json:"option_c"`
	OptionCAr      *string `json:"option_c_ar"`
	OptionD        *string `json:"option_d"`
	OptionDAr      *string `json:"option_d_ar"`
	CorrectAnswer  *string `json:"correct_answer"`
	Explanation    *string `json:"explanation"`
	ExplanationAr  *string `json:"explanation_ar"`
	Difficulty     *string `json:"difficulty"`
	TimerSeconds   *int    `json:"timer_seconds"`
}

// QuestionFilter narrows question list queries.
type QuestionFilter struct {
	CategoryID *int64
	PackID     *int64
	Difficulty string
}

// DifficultyPoints maps each difficulty to the points a correct answer is
// worth. Returned alongside random question draws so clients score locally.
func DifficultyPoints() map[string]int {
	return map[string]int{
		DifficultyEasy:   PointsEasy,
		DifficultyMedium: PointsMedium,
		DifficultyHard:   PointsHard,
	}
}
