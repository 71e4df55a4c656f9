package model

import "time"

// ChallengePack is a curated, downloadable bundle of questions built around
// a theme. Download counts are tracked so the most popular packs can be
// surfaced in statistics.
type ChallengePack struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	NameAr        string    `json:"name_ar" db:"name_ar"`
	Description   string    `json:"description" db:"description"`
	DescriptionAr string    `json:"description_ar" db:"description_ar"`
	Theme         string    `json:"theme" db:"theme"`
	Difficulty    string    `json:"difficulty" db:"difficulty"`
	TimerSeconds  int       `json:"timer_seconds" db:"timer_seconds"`
	DownloadCount int64     `json:"download_count" db:"download_count"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	QuestionCount int       `json:"question_count" db:"question_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// PackPatch carries a partial challenge pack update. Nil fields are left
// unchanged.
type PackPatch struct {
	Name          *string `json:"name"`
	NameAr        *string `json:"name_ar"`
	Description   *string `json:"description"`
	DescriptionAr *string `json:"description_ar"`
	Theme         *string `json:"theme"`
	Difficulty    *string `json:"difficulty"`
	TimerSeconds  *int    `json:"timer_seconds"`
}

// PackDownload is the payload returned when a pack is downloaded for
// offline play: the pack itself plus every active question it contains.
type PackDownload struct {
	PackInfo          ChallengePack `json:"pack_info"`
	Questions         []Question    `json:"questions"`
	DownloadTimestamp time.Time     `json:"download_timestamp"`
	TotalQuestions    int           `json:"total_questions"`
}
