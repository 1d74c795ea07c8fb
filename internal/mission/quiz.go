package mission

import "github.com/abhisek/grammarstudio/internal/quiz"

// The quiz operations below forward to the current quiz. Each reports
// false when there is no quiz or the engine rejected the operation.

func (c *Controller) SelectOption(option string) bool {
	return c.withQuiz(func(e *quiz.Engine) bool { return e.SelectOption(option) })
}

func (c *Controller) SubmitAnswer() bool {
	return c.withQuiz((*quiz.Engine).Submit)
}

func (c *Controller) NextQuestion() bool {
	return c.withQuiz((*quiz.Engine).Next)
}

func (c *Controller) RestartQuiz() bool {
	return c.withQuiz(func(e *quiz.Engine) bool {
		e.Restart()
		return true
	})
}

// QuizSnapshot returns the quiz progress, if a quiz exists.
func (c *Controller) QuizSnapshot() (quiz.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiz == nil {
		return quiz.Snapshot{}, false
	}
	return c.quiz.Snapshot(), true
}

func (c *Controller) withQuiz(fn func(*quiz.Engine) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiz == nil {
		return false
	}
	return fn(c.quiz)
}
