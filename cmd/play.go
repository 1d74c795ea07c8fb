package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/grammarstudio/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the studio in the terminal (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay builds the studio and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("play needs an interactive terminal; try `grammarstudio serve` instead")
	}

	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()
	e.warnNoProvider()

	return app.Run(app.Options{
		Studio:    e.newStudio(),
		Dictation: e.dictation(),
		Timeout:   e.cfg.LLM.Timeout,
		Log:       e.log.With("component", "tui"),
	})
}
