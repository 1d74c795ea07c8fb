package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarstudio/internal/capture"
	"github.com/abhisek/grammarstudio/internal/photolab"
)

var photoCmd = &cobra.Command{
	Use:   "photo <image>",
	Short: "Edit an image in the photo lab",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instruction, _ := cmd.Flags().GetString("instruction")
		out, _ := cmd.Flags().GetString("out")

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

		picked := make(chan capture.Result, 1)
		sel := &capture.FileSelector{Path: args[0]}
		if err := sel.Start(ctx, func(r capture.Result) { picked <- r }); err != nil {
			return err
		}
		src := <-picked
		if src.Err != nil {
			return src.Err
		}

		lab := photolab.NewLab(e.provider, e.log.With("component", "photolab"))
		img, err := lab.Edit(ctx, src.Data, src.MIMEType, instruction)
		if err != nil {
			fmt.Fprintln(os.Stderr, photolab.Alert)
			return err
		}

		if out == "" {
			out = photolab.OutputPath(args[0], img.MIMEType)
		}
		if err := os.WriteFile(out, img.Data, 0o644); err != nil {
			return fmt.Errorf("save edited image: %w", err)
		}
		fmt.Printf("Saved %s (%s, %d bytes)\n", out, img.MIMEType, len(img.Data))
		return nil
	},
}

func init() {
	photoCmd.Flags().StringP("instruction", "i", "", "What to change in the image (required)")
	photoCmd.Flags().StringP("out", "o", "", "Output file (default <image>-comic.<ext> next to the source)")
	_ = photoCmd.MarkFlagRequired("instruction")
}
