package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarstudio/internal/catalog"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the grammar missions",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		topics := catalog.Default().All()

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(topics)
		}

		fmt.Printf("%-4s  %-14s  %-26s  %-12s  %s\n", "Step", "ID", "Title", "Subject", "Description")
		fmt.Println(strings.Repeat("─", 100))
		for _, t := range topics {
			fmt.Printf("%-4d  %-14s  %-26s  %-12s  %s\n",
				t.Step, t.ID, t.Icon+" "+t.Title, t.Subject, t.Description)
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().Bool("json", false, "Print topics as JSON")
}
