// Package spelling checks children's text for spelling and punctuation
// mistakes.
package spelling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/grammarstudio/internal/llm"
)

// ErrBlankText is returned when there is nothing to check.
var ErrBlankText = errors.New("spelling: blank text")

// Result is a corrected text with a short explanation.
type Result struct {
	CorrectedText string `json:"correctedText"`
	ErrorsFound   bool   `json:"errorsFound"`
	Explanation   string `json:"explanation"`
}

// Checker checks a text.
type Checker interface {
	Check(ctx context.Context, text string) (*Result, error)
}

// ResultSchema is the spell check response.
var ResultSchema = &llm.Schema{
	Name:        "spell-check",
	Description: "Corrected text, whether anything was wrong, and a one-sentence explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correctedText": map[string]any{
				"type":        "string",
				"description": "The full text with corrections",
			},
			"errorsFound": map[string]any{
				"type": "boolean",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "What was fixed, mentioning punctuation if relevant (max 1 sentence)",
			},
		},
		"required":             []any{"correctedText", "errorsFound", "explanation"},
		"additionalProperties": false,
	},
}

const systemPrompt = `Act as a master spelling bee champion and Professor Punctuation. You find spelling and punctuation errors in children's writing.`

// Config holds spell check generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the default spell check settings.
func DefaultConfig() Config {
	return Config{MaxTokens: 1024, Temperature: 0}
}

// LLMChecker checks spelling with an llm.Provider.
type LLMChecker struct {
	provider llm.Provider
	cfg      Config
}

var _ Checker = (*LLMChecker)(nil)

// NewLLMChecker creates a checker.
func NewLLMChecker(provider llm.Provider, cfg Config) *LLMChecker {
	return &LLMChecker{provider: provider, cfg: cfg}
}

// Check returns the corrected text. Blank text is rejected with
// ErrBlankText before any request.
func (c *LLMChecker) Check(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankText
	}
	ctx = llm.WithPurpose(ctx, "spelling")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(text)},
		},
		Schema:      ResultSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("spell check: %w", err)
	}

	var res Result
	if err := json.Unmarshal(resp.Content, &res); err != nil {
		return nil, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("parse spell check: %w", err),
		}
	}
	return &res, nil
}

func buildUserMessage(text string) string {
	return fmt.Sprintf(`Analyze the following text: %q

Identify any spelling or punctuation errors. Return the full corrected text, whether any errors were found, and a very brief explanation of what was fixed.`, text)
}
