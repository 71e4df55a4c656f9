package store

import (
	"context"
	"fmt"

	"github.com/quizdeck/quizdeck/internal/model"
)

// RecordAIGeneration logs one AI content-generation request.
func (s *Store) RecordAIGeneration(ctx context.Context, g *model.AIGeneration) error {
	g.CreatedAt = now()

	stmt := s.rebind(`INSERT INTO ai_generated_content
		(content_type, content_id, ai_model, prompt_used, generation_cost, admin_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := s.db.GetContext(ctx, &g.ID, stmt,
		g.ContentType, g.ContentID, g.AIModel, g.PromptUsed,
		g.GenerationCost, g.AdminID, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("record ai generation: %w", err)
	}
	return nil
}
