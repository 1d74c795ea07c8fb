package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/export"
	"github.com/abhisek/grammarstudio/internal/lessons"
	"github.com/abhisek/grammarstudio/internal/mission"
	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson <topic-id>",
	Short: "Generate a lesson and take its quiz on the command line",
	Long: `Generate the comic lesson for one topic, print it, and run the quiz
interactively on stdin. Use --pdf to also save the lesson as a printable
comic page.`,
	Args: cobra.ExactArgs(1),
	RunE: runLesson,
}

func init() {
	lessonCmd.Flags().String("pdf", "", "Write the lesson to this PDF file")
	lessonCmd.Flags().Bool("no-quiz", false, "Print the lesson without running the quiz")
}

func runLesson(cmd *cobra.Command, args []string) error {
	topic, ok := catalog.Default().Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown topic %q (see `grammarstudio topics`)", args[0])
	}
	pdfPath, _ := cmd.Flags().GetString("pdf")
	noQuiz, _ := cmd.Flags().GetBool("no-quiz")

	e, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()
	if err := e.requireProvider(); err != nil {
		return err
	}

	st := e.newStudio()
	if _, err := st.Unlock(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.LLM.Timeout)
	defer cancel()

	fmt.Printf("ZAP! Inking %s for %s missions...\n\n", topic.Title, topic.Subject)
	res, err := st.Launch(ctx, topic)
	if err != nil {
		return err
	}
	if res.Err != nil {
		return fmt.Errorf("lesson failed (%s): %w", st.Mission.FailureKind(), res.Err)
	}

	printLesson(os.Stdout, topic, res.Lesson)

	if pdfPath != "" {
		if err := export.WriteLessonPDF(pdfPath, topic, res.Lesson); err != nil {
			return err
		}
		fmt.Printf("Saved comic page to %s\n\n", pdfPath)
	}

	if noQuiz {
		return nil
	}
	return runQuiz(os.Stdin, os.Stdout, st.Mission)
}

func printLesson(w io.Writer, topic catalog.Topic, l *lessons.Lesson) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintf(w, "%s %s\n%s\n", topic.Icon, strings.ToUpper(topic.Title), sep)
	fmt.Fprintln(w, l.Explanation)

	fmt.Fprintln(w, "\nCLEAR EXAMPLES")
	for _, ex := range l.Examples {
		fmt.Fprintf(w, "  • %s\n", ex)
	}

	fmt.Fprintln(w, "\nMASTER TIPS")
	for _, tip := range l.Tips {
		fmt.Fprintf(w, "  ⚡ %s\n", tip)
	}

	fmt.Fprintf(w, "\nTHE SHOWDOWN\n  %q\n", l.ComicDialogue)
	fmt.Fprintf(w, "\nPROFESSOR'S CORNER\n  %q\n%s\n\n", l.ProfessorTip, sep)
}

// runQuiz drives the mission's quiz from line input: the player types the
// option number, or q to stop.
func runQuiz(in io.Reader, out io.Writer, ctl *mission.Controller) error {
	scanner := bufio.NewScanner(in)

	for {
		snap, ok := ctl.QuizSnapshot()
		if !ok {
			return fmt.Errorf("no quiz loaded")
		}
		if snap.Finished {
			lipgloss.Fprintf(out, "%s\n%s\n",
				theme.Title.Render(fmt.Sprintf("SCORE: %d / %d", snap.Score, snap.Total)),
				theme.FX.Render(snap.Verdict))
			return nil
		}

		q := snap.Question
		fmt.Fprintf(out, "── Question %d/%d ──\n%s\n", snap.CurrentIndex+1, snap.Total, q.Question)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		var choice string
		for choice == "" {
			fmt.Fprint(out, "\nYour answer: ")
			if !scanner.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				return scanner.Err()
			}
			text := strings.TrimSpace(scanner.Text())
			if text == "q" {
				return nil
			}
			n, err := strconv.Atoi(text)
			if err != nil || n < 1 || n > len(q.Options) {
				fmt.Fprintf(out, "Pick a number from 1 to %d.\n", len(q.Options))
				continue
			}
			choice = q.Options[n-1]
		}

		ctl.SelectOption(choice)
		ctl.SubmitAnswer()

		snap, _ = ctl.QuizSnapshot()
		if snap.Correct {
			lipgloss.Fprintln(out, theme.Correct.Render(snap.Feedback))
		} else {
			lipgloss.Fprintf(out, "%s Answer: %s\n", theme.Incorrect.Render(snap.Feedback), q.CorrectAnswer)
		}
		if q.Explanation != "" {
			fmt.Fprintf(out, "Explanation: %s\n", q.Explanation)
		}
		fmt.Fprintln(out)

		ctl.NextQuestion()
	}
}
