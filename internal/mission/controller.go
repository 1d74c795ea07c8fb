// Package mission drives the lesson fetch for a selected topic and owns
// the resulting lesson and quiz.
package mission

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/lessons"
	"github.com/abhisek/grammarstudio/internal/llm"
	"github.com/abhisek/grammarstudio/internal/logging"
	"github.com/abhisek/grammarstudio/internal/quiz"
)

// ErrUnknownTopic is returned when a selected topic is not part of the
// catalog.
var ErrUnknownTopic = errors.New("mission: unknown topic")

// ErrNoGenerator is the fetch error when no lesson generator is
// configured.
var ErrNoGenerator = errors.New("mission: no lesson generator configured")

// Status is the lesson fetch status.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request is the ticket for one lesson fetch. Only the most recently
// issued ticket can commit.
type Request struct {
	Generation uint64
	Topic      catalog.Topic
}

// Result is the outcome of loading a Request.
type Result struct {
	Request
	Lesson *lessons.Lesson
	Err    error
}

// Controller tracks the selected topic and its lesson.
//
// Transitions:
//
//	any     --Start--> loading (new generation, lesson and quiz cleared)
//	loading --Commit(ok)--> ready  (fresh quiz)
//	loading --Commit(err)-> failed
//
// Commits carrying an older generation or another topic are dropped, as
// is a second commit for a ticket that already landed.
type Controller struct {
	catalog   *catalog.Catalog
	generator lessons.Generator
	log       *logging.Logger

	mu         sync.Mutex
	generation uint64
	status     Status
	topic      *catalog.Topic
	lesson     *lessons.Lesson
	quiz       *quiz.Engine
	failure    string
}

// NewController creates an idle controller. A nil log discards output.
func NewController(cat *catalog.Catalog, gen lessons.Generator, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{catalog: cat, generator: gen, log: log}
}

// Start selects a topic and issues the ticket for its lesson fetch.
func (c *Controller) Start(topic catalog.Topic) (Request, error) {
	if !c.catalog.Contains(topic) {
		return Request{}, ErrUnknownTopic
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.status = StatusLoading
	c.topic = &topic
	c.lesson = nil
	c.quiz = nil
	c.failure = ""

	c.log.Debug("mission started", "topic", topic.ID, "generation", c.generation)
	return Request{Generation: c.generation, Topic: topic}, nil
}

// Load performs the lesson fetch for req. It does not touch controller
// state and may run on any goroutine.
func (c *Controller) Load(ctx context.Context, req Request) Result {
	if c.generator == nil {
		return Result{Request: req, Err: ErrNoGenerator}
	}
	lesson, err := c.generator.Generate(ctx, req.Topic.Title, req.Topic.Subject)
	return Result{Request: req, Lesson: lesson, Err: err}
}

// Commit applies res if it answers the current ticket. It reports
// whether the result was applied.
func (c *Controller) Commit(res Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusLoading || res.Generation != c.generation ||
		c.topic == nil || c.topic.ID != res.Topic.ID {
		c.log.Debug("stale lesson discarded",
			"topic", res.Topic.ID,
			"generation", res.Generation,
			"current", c.generation,
		)
		return false
	}

	if res.Err != nil || res.Lesson == nil {
		c.status = StatusFailed
		c.failure = failureKind(res.Err)
		c.log.Warn("lesson fetch failed",
			"topic", res.Topic.ID,
			"kind", c.failure,
			"error", res.Err,
		)
		return true
	}

	c.status = StatusReady
	c.lesson = res.Lesson.Clone()
	c.quiz = quiz.NewEngine(c.lesson.Quiz)
	c.log.Info("lesson ready", "topic", res.Topic.ID, "questions", len(res.Lesson.Quiz))
	return true
}

// Run starts, loads and commits a topic in one call.
func (c *Controller) Run(ctx context.Context, topic catalog.Topic) (Result, error) {
	req, err := c.Start(topic)
	if err != nil {
		return Result{}, err
	}
	res := c.Load(ctx, req)
	c.Commit(res)
	return res, nil
}

func failureKind(err error) string {
	switch llm.Kind(err) {
	case "unavailable", "rate_limited":
		return "unavailable"
	case "invalid_response", "max_tokens":
		return "invalid_response"
	default:
		return "other"
	}
}

// Status returns the current fetch status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Topic returns the selected topic, if any.
func (c *Controller) Topic() (catalog.Topic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.topic == nil {
		return catalog.Topic{}, false
	}
	return *c.topic, true
}

// Lesson returns a copy of the loaded lesson, or nil when none is ready.
func (c *Controller) Lesson() *lessons.Lesson {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lesson.Clone()
}

// FailureKind returns the kind of the last failed fetch, or "".
func (c *Controller) FailureKind() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Generation returns the generation of the latest ticket.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}
