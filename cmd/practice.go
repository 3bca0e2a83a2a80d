package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarai/scholar/internal/exam"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/ui/components"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <assessment-id>",
	Short: "Answer an assessment in the terminal without the full-screen UI",
	Long: `Walk through an assessment question by question on stdin and print the
graded result. Nothing is recorded; use the full-screen app to keep scores.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		if _, err := svc.requireSession(ctx); err != nil {
			return err
		}
		a, err := svc.api.GetAssessment(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get assessment: %w", err)
		}
		res, err := practice(cmd.InOrStdin(), cmd.OutOrStdout(), a)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "── Score: %d%% (%d/%d correct) ──\n", res.Score, res.Correct, res.Total)
		return nil
	},
}

// practice asks every question of a on in, writing prompts and feedback to
// out, and grades the answers.
func practice(in io.Reader, out io.Writer, a model.Assessment) (exam.Result, error) {
	att, err := exam.NewAttempt(a.Questions)
	if err != nil {
		return exam.Result{}, err
	}
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "%s: %d questions\n\n", a.Title, att.Len())

	for {
		q := att.Current()
		fmt.Fprintf(out, "── Question %d/%d ──\n", att.Index()+1, att.Len())
		fmt.Fprintln(out, q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %s) %s\n", components.OptionLabel(i), opt)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		answer := resolveAnswer(q, strings.TrimSpace(scanner.Text()))
		if answer == "" {
			fmt.Fprint(out, "(skipped)\n\n")
		} else {
			att.AnswerCurrent(answer)
			q.UserAnswer = answer
			if exam.IsCorrect(q) {
				fmt.Fprintln(out, "✓ Correct!")
			} else {
				fmt.Fprintf(out, "✗ Wrong. Answer: %s\n", q.CorrectAnswerText())
			}
			if q.Source != nil && q.Source.Text != "" {
				fmt.Fprintf(out, "Source: %s\n", q.Source.Text)
			}
			fmt.Fprintln(out)
		}
		if !att.Next() {
			break
		}
	}
	return exam.Grade(a.Questions, att.Answers()), scanner.Err()
}

// resolveAnswer maps an option letter or number to the option text of a
// choice question. Other input is taken as typed.
func resolveAnswer(q model.Question, input string) string {
	if !q.Type.IsChoice() || input == "" {
		return input
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	if len(input) == 1 {
		i := int(strings.ToUpper(input)[0]) - 'A'
		if i >= 0 && i < len(q.Options) {
			return q.Options[i]
		}
	}
	return input
}
