package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "grammarstudio",
	Short: "Comic-book grammar tutor",
	Long: `Grammar Studio, a comic-book grammar tutor in your terminal.

Captain Syntax teaches one grammar topic per mission, quizzes you on it,
chats about grammar, checks your spelling and edits photos in the lab.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GRAMMARSTUDIO_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file (default $XDG_CONFIG_HOME/grammarstudio/config.toml)")
	rootCmd.PersistentFlags().String("env-file", "", "Path to .env file (default ./.env)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(spellCmd)
	rootCmd.AddCommand(photoCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
