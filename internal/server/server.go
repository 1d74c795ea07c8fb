// Package server exposes studio sessions over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/logging"
	"github.com/abhisek/grammarstudio/internal/studio"
)

// Config holds the HTTP settings.
type Config struct {
	AllowedOrigins []string

	// RateLimit is AI requests per minute per session; 0 disables it.
	RateLimit int
	Burst     int

	// Timeout bounds each AI call.
	Timeout time.Duration

	// SessionTTL drops sessions idle for longer. 0 keeps them forever.
	SessionTTL time.Duration
}

// Server is the API server.
type Server struct {
	Engine   *gin.Engine
	Sessions *Sessions
	handler  *Handler
	log      *logging.Logger
}

// New builds the router. newStudio creates the studio for each session.
func New(cfg Config, cat *catalog.Catalog, newStudio func() *studio.Studio, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}

	sessions := NewSessions(newStudio, cfg.RateLimit, cfg.Burst, cfg.SessionTTL)
	h := NewHandler(cat, sessions, cfg.Timeout, log)

	r := gin.New()
	r.Use(Recovery(log))
	r.Use(RequestLogger(log))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}
	r.NoRoute(func(c *gin.Context) {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("no such route"))
	})

	r.GET("/healthcheck", h.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/topics", h.ListTopics)
		api.POST("/sessions", h.CreateSession)
	}

	sess := api.Group("/sessions/:id", sessions.Resolve())
	{
		sess.GET("", h.GetSession)
		sess.POST("/unlock", h.Unlock)
		sess.POST("/lock", h.Lock)
		sess.POST("/home", h.GoHome)

		sess.GET("/mission", h.GetMission)
		sess.POST("/quiz/select", h.QuizSelect)
		sess.POST("/quiz/submit", h.QuizSubmit)
		sess.POST("/quiz/next", h.QuizNext)
		sess.POST("/quiz/restart", h.QuizRestart)

	}

	tools := sess.Group("", RequireUnlocked())
	{
		tools.GET("/chat", h.GetChat)
	}

	ai := sess.Group("", RateLimit())
	{
		ai.POST("/missions", h.SelectMission)
	}

	aiTools := tools.Group("", RateLimit())
	{
		aiTools.POST("/chat", h.PostChat)
		aiTools.POST("/spelling", h.CheckSpelling)
		aiTools.POST("/photolab", h.EditPhoto)
	}

	return &Server{Engine: r, Sessions: sessions, handler: h, log: log}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
