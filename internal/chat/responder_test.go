package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammarstudio/internal/llm"
)

func conversation() []Turn {
	return []Turn{
		{Role: RoleHero, Text: Greeting},
		{Role: RoleUser, Text: "What is a verb?"},
		{Role: RoleHero, Text: "An action word!"},
		{Role: RoleUser, Text: "Give me one."},
	}
}

func TestLLMResponder_Structured(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"speaker":"mentor","text":"Jump; then land."}`),
	})
	r := NewLLMResponder(mock, DefaultConfig())

	reply, err := r.ReplyTagged(context.Background(), conversation())
	require.NoError(t, err)
	assert.Equal(t, Reply{Speaker: SpeakerMentor, Text: "Jump; then land."}, reply)

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, ReplySchema, call.Schema)
	assert.Contains(t, call.System, "Captain Syntax")
	assert.Contains(t, call.System, `"mentor"`)
}

func TestLLMResponder_DropsLeadingAssistantTurns(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"speaker":"hero","text":"Run!"}`),
	})
	r := NewLLMResponder(mock, DefaultConfig())

	_, err := r.ReplyTagged(context.Background(), conversation())
	require.NoError(t, err)

	call, _ := mock.LastCall()
	require.Len(t, call.Messages, 3)
	assert.Equal(t, llm.RoleUser, call.Messages[0].Role)
	assert.Equal(t, "What is a verb?", call.Messages[0].Content)
	assert.Equal(t, llm.RoleAssistant, call.Messages[1].Role)
	assert.Equal(t, "Give me one.", call.Messages[2].Content)
}

func TestLLMResponder_Plain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("Professor Punctuation: commas breathe!\n"),
	})
	cfg := DefaultConfig()
	cfg.Structured = false
	r := NewLLMResponder(mock, cfg)

	reply, err := r.ReplyTagged(context.Background(), conversation())
	require.NoError(t, err)
	assert.Equal(t, Speaker(""), reply.Speaker)
	assert.Equal(t, "Professor Punctuation: commas breathe!", reply.Text)

	call, _ := mock.LastCall()
	assert.Nil(t, call.Schema)

	l := NewLog(NewLLMResponder(llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("Professor Punctuation: commas breathe!"),
	}), cfg), nil)
	turn, _ := l.PostUserMessage(context.Background(), "commas?")
	assert.Equal(t, RoleMentor, turn.Role)
}

func TestLLMResponder_InvalidSpeaker(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"speaker":"villain","text":"Mwahaha"}`),
	})
	r := NewLLMResponder(mock, DefaultConfig())

	_, err := r.ReplyTagged(context.Background(), conversation())
	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))
}

func TestLLMResponder_NoUserTurn(t *testing.T) {
	r := NewLLMResponder(llm.NewMockProvider(), DefaultConfig())
	_, err := r.Reply(context.Background(), []Turn{{Role: RoleHero, Text: Greeting}})
	assert.Error(t, err)
}

func TestLLMResponder_ProviderFailureBecomesFallback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	l := NewLog(NewLLMResponder(mock, DefaultConfig()), nil)

	turn, ok := l.PostUserMessage(context.Background(), "hi")
	require.True(t, ok)
	assert.Equal(t, Fallback, turn.Text)
}

func TestLLMResponder_PurposeLabel(t *testing.T) {
	var purpose string
	p := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		purpose = llm.PurposeFrom(ctx)
		return &llm.Response{Content: json.RawMessage(`{"speaker":"hero","text":"hi"}`)}, nil
	})
	_, err := NewLLMResponder(p, DefaultConfig()).Reply(context.Background(), conversation())
	require.NoError(t, err)
	assert.Equal(t, "chat", purpose)
}

type providerFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }
