package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/grammarstudio/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve studio sessions over a JSON HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:8080)")
	serveCmd.Flags().Duration("session-ttl", 2*time.Hour, "Drop sessions idle for longer than this (0 keeps them)")
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	if !e.cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	ttl, _ := cmd.Flags().GetDuration("session-ttl")

	fmt.Fprintln(os.Stderr, figure.NewFigure("GRAMMAR STUDIO", "", true).String())
	e.warnNoProvider()

	srv := server.New(server.Config{
		AllowedOrigins: e.cfg.Server.AllowedOrigins,
		RateLimit:      e.cfg.Server.RateLimit,
		Burst:          e.cfg.Server.Burst,
		Timeout:        e.cfg.LLM.Timeout,
		SessionTTL:     ttl,
	}, nil, e.newStudio, e.log.With("component", "server"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, e.cfg.Server.Addr)
}
