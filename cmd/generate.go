package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/generation"
	"github.com/scholarai/scholar/internal/model"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an assessment from a document",
	Long: `Ask the server to generate an assessment from a document in your library.

Only the first --document is sent to the server; the others are recorded as
source files of the new assessment.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringSlice("document", nil, "Document id (repeatable, required)")
	f.String("query", "", "What the assessment should cover (required)")
	f.Int("count", generation.DefaultQuestions, fmt.Sprintf("Number of questions (%d-%d)", generation.MinQuestions, generation.MaxQuestions))
	f.String("difficulty", string(model.DifficultyMedium), "easy, medium or hard")
	f.StringSlice("type", []string{model.QuestionMultipleChoice.WireName()}, "Question types: multiple-choice, true-false, short-answer")
	f.Bool("wait", false, "Wait until the assessment is ready and print it")
	_ = generateCmd.MarkFlagRequired("document")
	_ = generateCmd.MarkFlagRequired("query")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ids, _ := cmd.Flags().GetStringSlice("document")
	query, _ := cmd.Flags().GetString("query")
	count, _ := cmd.Flags().GetInt("count")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	typeNames, _ := cmd.Flags().GetStringSlice("type")
	wait, _ := cmd.Flags().GetBool("wait")

	types := make([]model.QuestionType, 0, len(typeNames))
	for _, name := range typeNames {
		t, ok := model.ParseQuestionType(name)
		if !ok {
			return fmt.Errorf("unknown question type %q", name)
		}
		types = append(types, t)
	}

	return withContainer(cmd, func(ctx context.Context, svc *services, c *appstate.Container) error {
		files, err := svc.api.ListDocuments(ctx)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		byID := make(map[string]model.LibraryFile, len(files))
		for _, f := range files {
			byID[f.ID] = f
		}
		sel := generation.Selection{
			Query:      query,
			Count:      count,
			Difficulty: model.ParseDifficulty(difficulty),
			Types:      types,
		}
		for _, id := range ids {
			f, ok := byID[id]
			if !ok {
				return fmt.Errorf("no document with id %q in your library", id)
			}
			if !f.IsReady() {
				return fmt.Errorf("document %s is still %s", f.Name, f.Status)
			}
			sel.Files = append(sel.Files, f)
		}

		a, err := generation.Submit(ctx, svc.api, c, sel)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(sel.Files) > 1 {
			fmt.Fprintf(out, "Only %s is used for generation.\n", sel.Files[0].Name)
		}
		fmt.Fprintf(out, "Generating %q (id %s)\n", a.Title, a.ID)
		if !wait {
			return nil
		}

		ready, err := generation.Resolve(ctx, svc.poller(), c, a.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Ready: %s, %d questions\n", ready.Title, len(ready.Questions))
		for i, q := range ready.Questions {
			fmt.Fprintf(out, "%3d. [%s] %s\n", i+1, q.Type.Label(), strings.TrimSpace(q.Text))
		}
		return nil
	})
}
