package model

import "time"

// AI generation content types.
const (
	AITypeQuestion = "question"
	AITypeCategory = "category"
)

// AIGeneration records one AI content-generation request. ContentID links
// to the created row once the generated draft is accepted; zero until then.
type AIGeneration struct {
	ID             int64     `json:"id" db:"id"`
	ContentType    string    `json:"content_type" db:"content_type"`
	ContentID      int64     `json:"content_id" db:"content_id"`
	AIModel        string    `json:"ai_model" db:"ai_model"`
	PromptUsed     string    `json:"prompt_used" db:"prompt_used"`
	GenerationCost float64   `json:"generation_cost" db:"generation_cost"`
	AdminID        *int64    `json:"admin_id" db:"admin_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
