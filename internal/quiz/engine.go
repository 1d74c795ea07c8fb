// Package quiz implements the single-attempt, strictly sequential quiz
// that follows every lesson.
package quiz

// Question is one multiple-choice quiz item.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// State is the engine's position in the current question's lifecycle.
type State int

const (
	StateUnanswered State = iota // waiting for a submitted answer
	StateAnswered                // answer submitted, waiting for Next
	StateComplete                // last question answered and advanced past
)

func (s State) String() string {
	switch s {
	case StateUnanswered:
		return "unanswered"
	case StateAnswered:
		return "answered"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Feedback and verdict lines shown to the player.
const (
	FeedbackCorrect   = "BOOM! CORRECT!"
	FeedbackIncorrect = "OUCH! NOT QUITE!"
	VerdictPerfect    = "PERFECT PERFORMANCE, HERO!"
	VerdictKeepGoing  = "GREAT EFFORT! KEEP TRAINING TO BECOME A MASTER!"
)

// Engine walks a fixed sequence of questions. Each operation that is not
// valid in the current state is a no-op and reports false.
//
// Transitions:
//
//	unanswered --SelectOption--> unanswered (selection stored)
//	unanswered --Submit-------> answered   (requires a selection)
//	answered   --Next---------> unanswered (next index) | complete (last index)
//	any        --Restart------> unanswered (index 0, score 0)
type Engine struct {
	questions []Question
	index     int
	selected  string
	hasSel    bool
	state     State
	score     int
	correct   bool
}

// NewEngine creates an engine over a private copy of questions.
func NewEngine(questions []Question) *Engine {
	qs := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}
	e := &Engine{questions: qs}
	if len(qs) == 0 {
		e.state = StateComplete
	}
	return e
}

// SelectOption stores the player's pick for the current question.
func (e *Engine) SelectOption(option string) bool {
	if e.state != StateUnanswered {
		return false
	}
	e.selected = option
	e.hasSel = true
	return true
}

// Submit locks in the selection and scores it by exact string match.
func (e *Engine) Submit() bool {
	if e.state != StateUnanswered || !e.hasSel {
		return false
	}
	e.state = StateAnswered
	e.correct = e.selected == e.questions[e.index].CorrectAnswer
	if e.correct {
		e.score++
	}
	return true
}

// Next advances past an answered question. From the last question it
// completes the quiz and leaves the index where it is.
func (e *Engine) Next() bool {
	if e.state != StateAnswered {
		return false
	}
	if e.index == len(e.questions)-1 {
		e.state = StateComplete
		return true
	}
	e.index++
	e.selected = ""
	e.hasSel = false
	e.correct = false
	e.state = StateUnanswered
	return true
}

// Restart rewinds to the first question with a zero score. The questions
// themselves are reused as-is.
func (e *Engine) Restart() {
	e.index = 0
	e.score = 0
	e.selected = ""
	e.hasSel = false
	e.correct = false
	e.state = StateUnanswered
	if len(e.questions) == 0 {
		e.state = StateComplete
	}
}

// Current returns the question at the current index.
func (e *Engine) Current() (Question, bool) {
	if len(e.questions) == 0 {
		return Question{}, false
	}
	q := e.questions[e.index]
	q.Options = append([]string(nil), q.Options...)
	return q, true
}

// Questions returns a copy of the question sequence.
func (e *Engine) Questions() []Question {
	out := make([]Question, len(e.questions))
	for i, q := range e.questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

func (e *Engine) Index() int   { return e.index }
func (e *Engine) Total() int   { return len(e.questions) }
func (e *Engine) Score() int   { return e.score }
func (e *Engine) State() State { return e.state }

// Selected returns the stored selection, if any.
func (e *Engine) Selected() (string, bool) {
	return e.selected, e.hasSel
}

// Answered reports whether the current question has been submitted.
func (e *Engine) Answered() bool {
	return e.state == StateAnswered || (e.state == StateComplete && len(e.questions) > 0)
}

// Finished reports whether the quiz is complete.
func (e *Engine) Finished() bool {
	return e.state == StateComplete
}

// LastCorrect reports whether the submitted answer for the current
// question matched. It is false until Submit succeeds.
func (e *Engine) LastCorrect() bool {
	return e.correct
}

// Feedback returns the banner for the submitted answer, or "" before
// submission.
func (e *Engine) Feedback() string {
	if !e.Answered() {
		return ""
	}
	if e.correct {
		return FeedbackCorrect
	}
	return FeedbackIncorrect
}

// Verdict returns the closing line once the quiz is finished.
func (e *Engine) Verdict() string {
	if !e.Finished() {
		return ""
	}
	if e.score == len(e.questions) {
		return VerdictPerfect
	}
	return VerdictKeepGoing
}

// Snapshot is a serializable view of the engine's progress.
type Snapshot struct {
	CurrentIndex   int       `json:"currentIndex"`
	Total          int       `json:"total"`
	State          string    `json:"state"`
	SelectedOption *string   `json:"selectedOption"`
	Answered       bool      `json:"answered"`
	Correct        bool      `json:"correct"`
	Score          int       `json:"score"`
	Finished       bool      `json:"finished"`
	Question       *Question `json:"question,omitempty"`
	Feedback       string    `json:"feedback,omitempty"`
	Verdict        string    `json:"verdict,omitempty"`
}

// Snapshot captures the current progress.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		CurrentIndex: e.index,
		Total:        len(e.questions),
		State:        e.state.String(),
		Answered:     e.Answered(),
		Correct:      e.correct,
		Score:        e.score,
		Finished:     e.Finished(),
		Feedback:     e.Feedback(),
		Verdict:      e.Verdict(),
	}
	if e.hasSel {
		sel := e.selected
		s.SelectedOption = &sel
	}
	if q, ok := e.Current(); ok {
		s.Question = &q
	}
	return s
}
