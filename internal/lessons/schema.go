package lessons

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/grammarstudio/internal/llm"
)

// Lesson shape limits.
const (
	ExampleCount     = 3
	TipCount         = 2
	MinQuizQuestions = 3
	MaxQuizQuestions = 5
	OptionCount      = 4
)

// LessonSchema defines the JSON schema for comic lesson generation.
var LessonSchema = &llm.Schema{
	Name:        "comic-lesson",
	Description: "A comic-book grammar lesson with examples, tips, a dialogue and a quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "A fun, brief explanation (max 3 sentences)",
			},
			"examples": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    ExampleCount,
				"maxItems":    ExampleCount,
				"description": "Subject-specific examples showing correct usage",
			},
			"tips": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    TipCount,
				"maxItems":    TipCount,
				"description": "Helpful grammar or spelling tips",
			},
			"comicDialogue": map[string]any{
				"type":        "string",
				"description": "Short three-way dialogue between Captain Syntax, The Typo and Professor Punctuation",
			},
			"professorTip": map[string]any{
				"type":        "string",
				"description": "An extra punctuation tip from Professor Punctuation",
			},
			"quiz": map[string]any{
				"type":     "array",
				"minItems": MinQuizQuestions,
				"maxItems": MaxQuizQuestions,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": OptionCount,
							"maxItems": OptionCount,
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "Must equal one of the options exactly",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Short, encouraging explanation of the correct answer",
						},
					},
					"required":             []any{"question", "options", "correctAnswer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"explanation", "examples", "tips", "comicDialogue", "professorTip", "quiz"},
		"additionalProperties": false,
	},
	Check: checkLesson,
}

// checkLesson enforces the quiz rules JSON Schema cannot express.
func checkLesson(raw json.RawMessage) error {
	var l Lesson
	if err := json.Unmarshal(raw, &l); err != nil {
		return fmt.Errorf("decode lesson: %w", err)
	}
	return Validate(&l)
}

// Validate checks that every quiz question has distinct options and that
// its correct answer is one of them.
func Validate(l *Lesson) error {
	for i, q := range l.Quiz {
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if seen[opt] {
				return fmt.Errorf("quiz question %d: duplicate option %q", i+1, opt)
			}
			seen[opt] = true
		}
		if !seen[q.CorrectAnswer] {
			return fmt.Errorf("quiz question %d: correct answer %q is not an option", i+1, q.CorrectAnswer)
		}
	}
	return nil
}
