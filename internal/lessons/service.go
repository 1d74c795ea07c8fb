// Package lessons generates comic grammar lessons through an LLM provider.
package lessons

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/llm"
)

// Service generates lessons with an llm.Provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

var _ Generator = (*Service)(nil)

// NewService creates a lesson generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Generate requests one lesson. Responses that break the lesson shape
// come back as *llm.ErrInvalidResponse.
func (s *Service) Generate(ctx context.Context, title string, subject catalog.Subject) (*Lesson, error) {
	ctx = llm.WithPurpose(ctx, "lesson")

	req := llm.Request{
		System: lessonSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLessonUserMessage(title, subject)},
		},
		Schema:      LessonSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lesson generation: %w", err)
	}

	var lesson Lesson
	if err := json.Unmarshal(resp.Content, &lesson); err != nil {
		return nil, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("parse lesson response: %w", err),
		}
	}

	return &lesson, nil
}
