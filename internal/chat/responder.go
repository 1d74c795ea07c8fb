package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/grammarstudio/internal/llm"
)

var errNoResponder = errors.New("chat: no responder configured")

const systemPrompt = `You are Captain Syntax, a friendly grammar superhero. Occasionally, your partner Professor Punctuation (who is obsessed with marks like semicolons and dashes) chimes in with wise advice. You provide perfectly spelled, clear, and helpful grammar advice. Use comic book interjections but never sacrifice clarity or spelling accuracy.`

const structuredInstructions = `

Answer with one reply. Set "speaker" to "mentor" when Professor Punctuation is the one speaking, otherwise "hero".`

// ReplySchema is the structured chat reply.
var ReplySchema = &llm.Schema{
	Name:        "chat-reply",
	Description: "One chat reply with the persona speaking it",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"speaker": map[string]any{
				"type": "string",
				"enum": []any{string(SpeakerHero), string(SpeakerMentor)},
			},
			"text": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
		"required":             []any{"speaker", "text"},
		"additionalProperties": false,
	},
}

// Config holds chat generation settings.
type Config struct {
	// Structured asks the model for a speaker tag instead of classifying
	// replies by the mentor's name.
	Structured  bool
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the default chat settings.
func DefaultConfig() Config {
	return Config{
		Structured:  true,
		MaxTokens:   512,
		Temperature: 0.8,
	}
}

// LLMResponder answers chat turns with an llm.Provider.
type LLMResponder struct {
	provider llm.Provider
	cfg      Config
}

var _ TaggedResponder = (*LLMResponder)(nil)

// NewLLMResponder creates a responder.
func NewLLMResponder(provider llm.Provider, cfg Config) *LLMResponder {
	return &LLMResponder{provider: provider, cfg: cfg}
}

// Reply returns the reply text only.
func (r *LLMResponder) Reply(ctx context.Context, history []Turn) (string, error) {
	reply, err := r.ReplyTagged(ctx, history)
	return reply.Text, err
}

// ReplyTagged returns the reply with its speaker. In plain mode the
// speaker is left empty.
func (r *LLMResponder) ReplyTagged(ctx context.Context, history []Turn) (Reply, error) {
	ctx = llm.WithPurpose(ctx, "chat")

	msgs := toMessages(history)
	if len(msgs) == 0 {
		return Reply{}, errors.New("chat: no user message in history")
	}

	req := llm.Request{
		System:      systemPrompt,
		Messages:    msgs,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}
	if r.cfg.Structured {
		req.System += structuredInstructions
		req.Schema = ReplySchema
	}

	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return Reply{}, fmt.Errorf("chat reply: %w", err)
	}

	if !r.cfg.Structured {
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return Reply{}, &llm.ErrInvalidResponse{Content: resp.Content, Err: errors.New("empty reply")}
		}
		return Reply{Text: text}, nil
	}

	var reply Reply
	if err := json.Unmarshal(resp.Content, &reply); err != nil {
		return Reply{}, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("parse chat reply: %w", err),
		}
	}
	return reply, nil
}

// toMessages maps the conversation onto provider roles. Assistant turns
// before the first user turn, such as the greeting, are dropped since
// providers expect the conversation to open with the user.
func toMessages(history []Turn) []llm.Message {
	var msgs []llm.Message
	for _, t := range history {
		role := llm.RoleAssistant
		if t.Role == RoleUser {
			role = llm.RoleUser
		}
		if len(msgs) == 0 && role != llm.RoleUser {
			continue
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Text})
	}
	return msgs
}
