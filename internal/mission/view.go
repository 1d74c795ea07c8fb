package mission

import (
	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/lessons"
	"github.com/abhisek/grammarstudio/internal/quiz"
)

// View is a consistent copy of the controller state for rendering.
type View struct {
	Status     string          `json:"status"`
	Generation uint64          `json:"generation"`
	Topic      *catalog.Topic  `json:"topic,omitempty"`
	Lesson     *lessons.Lesson `json:"lesson,omitempty"`
	Quiz       *quiz.Snapshot  `json:"quiz,omitempty"`
	Failure    string          `json:"failure,omitempty"`
}

// View captures the controller state under one lock.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Status:     c.status.String(),
		Generation: c.generation,
		Lesson:     c.lesson.Clone(),
		Failure:    c.failure,
	}
	if c.topic != nil {
		t := *c.topic
		v.Topic = &t
	}
	if c.quiz != nil {
		s := c.quiz.Snapshot()
		v.Quiz = &s
	}
	return v
}
