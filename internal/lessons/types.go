package lessons

import (
	"context"
	"slices"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/quiz"
)

// Lesson is an LLM-generated comic lesson for one topic and subject.
type Lesson struct {
	Explanation   string          `json:"explanation"`
	Examples      []string        `json:"examples"`
	Tips          []string        `json:"tips"`
	ComicDialogue string          `json:"comicDialogue"`
	ProfessorTip  string          `json:"professorTip"`
	Quiz          []quiz.Question `json:"quiz"`
}

// Clone returns a deep copy of l. A nil lesson clones to nil.
func (l *Lesson) Clone() *Lesson {
	if l == nil {
		return nil
	}
	out := *l
	out.Examples = slices.Clone(l.Examples)
	out.Tips = slices.Clone(l.Tips)
	if l.Quiz != nil {
		out.Quiz = make([]quiz.Question, len(l.Quiz))
		for i, q := range l.Quiz {
			q.Options = slices.Clone(q.Options)
			out.Quiz[i] = q
		}
	}
	return &out
}

// Generator produces a lesson for a topic title in the context of a
// subject.
type Generator interface {
	Generate(ctx context.Context, title string, subject catalog.Subject) (*Lesson, error)
}
