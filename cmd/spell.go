package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarstudio/internal/spelling"
)

var spellCmd = &cobra.Command{
	Use:   "spell [text...]",
	Short: "Check spelling (reads stdin when no text is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return spelling.ErrBlankText
		}

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()
		if err := e.requireProvider(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.LLM.Timeout)
		defer cancel()

		checker := spelling.NewLLMChecker(e.provider, spelling.DefaultConfig())
		res, err := checker.Check(ctx, text)
		if err != nil {
			return fmt.Errorf("spell check: %w", err)
		}

		fmt.Println("SCAN RESULT:")
		fmt.Println(res.CorrectedText)
		if res.ErrorsFound {
			fmt.Println("\nErrors found and fixed!")
		} else {
			fmt.Println("\nPerfect spelling, hero!")
		}
		if res.Explanation != "" {
			fmt.Println(res.Explanation)
		}
		return nil
	},
}
