package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/abhisek/grammarstudio/internal/logging"
)

// Responder produces the next assistant reply for a conversation.
type Responder interface {
	Reply(ctx context.Context, history []Turn) (string, error)
}

// TaggedResponder is a Responder that can say who is speaking.
type TaggedResponder interface {
	Responder
	ReplyTagged(ctx context.Context, history []Turn) (Reply, error)
}

// Log is the append-only conversation. It starts with the hero's
// greeting. Turns are never removed or reordered.
type Log struct {
	responder Responder
	log       *logging.Logger

	mu    sync.Mutex
	turns []Turn
}

// NewLog creates a conversation with the greeting turn. A nil responder
// makes every reply the fallback turn.
func NewLog(responder Responder, log *logging.Logger) *Log {
	if log == nil {
		log = logging.Nop()
	}
	return &Log{
		responder: responder,
		log:       log,
		turns:     []Turn{{Role: RoleHero, Text: Greeting}},
	}
}

// Turns returns a copy of the conversation.
func (l *Log) Turns() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// AppendHero appends an assistant-hero turn.
func (l *Log) AppendHero(text string) {
	l.append(Turn{Role: RoleHero, Text: text})
}

// AppendUser appends a user turn and returns the history to send to the
// responder. Blank text appends nothing and reports false.
func (l *Log) AppendUser(text string) ([]Turn, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, Turn{Role: RoleUser, Text: text})
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out, true
}

// Respond asks the responder about history and appends exactly one
// reply turn, the fallback turn when the responder fails.
func (l *Log) Respond(ctx context.Context, history []Turn) Turn {
	reply, err := l.reply(ctx, history)
	turn := Turn{Role: RoleHero, Text: Fallback}
	if err != nil {
		l.log.Warn("chat reply failed", "error", err)
	} else {
		turn = Turn{Role: roleFor(reply), Text: reply.Text}
	}
	l.append(turn)
	return turn
}

// PostUserMessage appends the user turn and then the reply. Blank text
// is ignored and reports false.
func (l *Log) PostUserMessage(ctx context.Context, text string) (Turn, bool) {
	history, ok := l.AppendUser(text)
	if !ok {
		return Turn{}, false
	}
	return l.Respond(ctx, history), true
}

func (l *Log) reply(ctx context.Context, history []Turn) (Reply, error) {
	switch r := l.responder.(type) {
	case nil:
		return Reply{}, errNoResponder
	case TaggedResponder:
		return r.ReplyTagged(ctx, history)
	default:
		text, err := r.Reply(ctx, history)
		return Reply{Text: text}, err
	}
}

func (l *Log) append(t Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, t)
}
