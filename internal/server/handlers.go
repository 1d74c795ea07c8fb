package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/chat"
	"github.com/abhisek/grammarstudio/internal/logging"
	"github.com/abhisek/grammarstudio/internal/mission"
	"github.com/abhisek/grammarstudio/internal/photolab"
	"github.com/abhisek/grammarstudio/internal/quiz"
	"github.com/abhisek/grammarstudio/internal/studio"
)

// maxUploadBytes bounds photo lab uploads.
const maxUploadBytes = 10 << 20

// Handler serves the studio API.
type Handler struct {
	catalog  *catalog.Catalog
	sessions *Sessions
	timeout  time.Duration
	log      *logging.Logger

	// background runs detached lesson fetches. Tests replace it to wait
	// for completion.
	background func(func())
}

// NewHandler creates the API handlers.
func NewHandler(cat *catalog.Catalog, sessions *Sessions, timeout time.Duration, log *logging.Logger) *Handler {
	return &Handler{
		catalog:    cat,
		sessions:   sessions,
		timeout:    timeout,
		log:        log,
		background: func(fn func()) { go fn() },
	}
}

// SessionView is the summary returned for a session.
// Mission is only present while the mission view is showing.
type SessionView struct {
	ID      uuid.UUID     `json:"id"`
	Mode    string        `json:"mode"`
	FX      string        `json:"fx,omitempty"`
	Mission *mission.View `json:"mission,omitempty"`
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) ListTopics(c *gin.Context) {
	type topicView struct {
		catalog.Topic
		Color string `json:"color"`
	}
	topics := h.catalog.All()
	out := make([]topicView, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicView{Topic: t, Color: t.Subject.Color()})
	}
	RespondOK(c, gin.H{"topics": out})
}

func (h *Handler) CreateSession(c *gin.Context) {
	sess := h.sessions.Create()
	c.JSON(http.StatusCreated, viewOf(sess, ""))
}

func (h *Handler) GetSession(c *gin.Context) {
	RespondOK(c, viewOf(sessionFrom(c), ""))
}

func (h *Handler) Unlock(c *gin.Context) {
	sess := sessionFrom(c)
	fx, err := sess.Studio.Unlock()
	if err != nil {
		RespondError(c, http.StatusConflict, "invalid_transition", err)
		return
	}
	RespondOK(c, viewOf(sess, fx))
}

func (h *Handler) Lock(c *gin.Context) {
	sess := sessionFrom(c)
	if err := sess.Studio.Lock(); err != nil {
		RespondError(c, http.StatusConflict, "invalid_transition", err)
		return
	}
	RespondOK(c, viewOf(sess, ""))
}

func (h *Handler) GoHome(c *gin.Context) {
	sess := sessionFrom(c)
	if err := sess.Studio.GoHome(); err != nil {
		RespondError(c, http.StatusConflict, "invalid_transition", err)
		return
	}
	RespondOK(c, viewOf(sess, studio.FXHome))
}

type selectMissionRequest struct {
	TopicID string `json:"topic_id" binding:"required"`
}

// SelectMission opens a mission and fetches its lesson in the
// background. Poll GetMission for the outcome.
func (h *Handler) SelectMission(c *gin.Context) {
	var req selectMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	topic, ok := h.catalog.Lookup(req.TopicID)
	if !ok {
		RespondError(c, http.StatusNotFound, "unknown_topic", mission.ErrUnknownTopic)
		return
	}

	sess := sessionFrom(c)
	ticket, err := sess.Studio.SelectMission(topic)
	switch {
	case errors.Is(err, studio.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, "invalid_transition", err)
		return
	case err != nil:
		RespondError(c, http.StatusBadRequest, "unknown_topic", err)
		return
	}

	h.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		sess.Studio.Complete(sess.Studio.Load(ctx, ticket))
	})

	c.JSON(http.StatusAccepted, viewOf(sess, studio.FXZap))
}

func (h *Handler) GetMission(c *gin.Context) {
	var view mission.View
	if !h.inMission(c, func(m *mission.Controller) { view = m.View() }) {
		return
	}
	RespondOK(c, view)
}

// inMission runs fn against the session's mission while the mission view
// is showing and writes a conflict otherwise.
func (h *Handler) inMission(c *gin.Context, fn func(*mission.Controller)) bool {
	if err := sessionFrom(c).Studio.InMission(fn); err != nil {
		RespondError(c, http.StatusConflict, "inactive_view", err)
		return false
	}
	return true
}

type selectOptionRequest struct {
	Option string `json:"option" binding:"required"`
}

func (h *Handler) QuizSelect(c *gin.Context) {
	var req selectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	h.quizOp(c, func(m *mission.Controller) bool { return m.SelectOption(req.Option) })
}

func (h *Handler) QuizSubmit(c *gin.Context) {
	h.quizOp(c, (*mission.Controller).SubmitAnswer)
}

func (h *Handler) QuizNext(c *gin.Context) {
	h.quizOp(c, (*mission.Controller).NextQuestion)
}

func (h *Handler) QuizRestart(c *gin.Context) {
	h.quizOp(c, (*mission.Controller).RestartQuiz)
}

func (h *Handler) quizOp(c *gin.Context, op func(*mission.Controller) bool) {
	var (
		applied bool
		snap    quiz.Snapshot
		ok      bool
	)
	if !h.inMission(c, func(m *mission.Controller) {
		if _, ok = m.QuizSnapshot(); !ok {
			return
		}
		applied = op(m)
		snap, _ = m.QuizSnapshot()
	}) {
		return
	}
	if !ok {
		RespondError(c, http.StatusConflict, "no_quiz", errors.New("no quiz loaded"))
		return
	}
	RespondOK(c, gin.H{"applied": applied, "quiz": snap})
}

func (h *Handler) GetChat(c *gin.Context) {
	RespondOK(c, gin.H{"turns": sessionFrom(c).Studio.Chat.Turns()})
}

type chatRequest struct {
	Text string `json:"text"`
}

func (h *Handler) PostChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	log := sessionFrom(c).Studio.Chat

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var reply *chat.Turn
	if turn, ok := log.PostUserMessage(ctx, req.Text); ok {
		reply = &turn
	}
	RespondOK(c, gin.H{"reply": reply, "turns": log.Turns()})
}

type spellingRequest struct {
	Text string `json:"text"`
}

func (h *Handler) CheckSpelling(c *gin.Context) {
	var req spellingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	desk := sessionFrom(c).Studio.Spelling

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	updated := desk.Scan(ctx, req.Text)
	res, text, _ := desk.Result()
	RespondOK(c, gin.H{"updated": updated, "text": text, "result": res})
}

// EditPhoto takes a multipart form with an "image" file and an
// "instruction" field.
func (h *Handler) EditPhoto(c *gin.Context) {
	data, err := readUpload(c, "image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	instruction := c.PostForm("instruction")
	if len(data) > 0 && !photolab.IsImage(data) {
		RespondError(c, http.StatusUnsupportedMediaType, "not_an_image",
			fmt.Errorf("upload is %s, not an image", photolab.DetectMIME(data)))
		return
	}

	lab := sessionFrom(c).Studio.Photo
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if !lab.Process(ctx, data, photolab.DetectMIME(data), instruction) {
		RespondOK(c, gin.H{"edited": false})
		return
	}

	res, alert, _ := lab.State()
	if alert != "" {
		RespondError(c, http.StatusBadGateway, "photolab_failed", errors.New(alert))
		return
	}
	RespondOK(c, gin.H{
		"edited":   true,
		"mimeType": res.MIMEType,
		"dataURI":  res.DataURI(),
	})
}

func readUpload(c *gin.Context, field string) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func viewOf(sess *Session, fx string) SessionView {
	v := SessionView{
		ID:   sess.ID,
		Mode: sess.Studio.Mode().String(),
		FX:   fx,
	}
	_ = sess.Studio.InMission(func(m *mission.Controller) {
		mv := m.View()
		v.Mission = &mv
	})
	return v
}
