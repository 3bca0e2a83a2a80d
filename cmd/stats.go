package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/scholarai/scholar/internal/exam"
	"github.com/scholarai/scholar/internal/library"
	"github.com/scholarai/scholar/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library and assessment statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		sess, err := svc.requireSession(ctx)
		if err != nil {
			return err
		}

		var (
			files       []model.LibraryFile
			assessments []model.Assessment
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			files, err = svc.api.ListDocuments(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			assessments, err = svc.api.ListAssessments(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return fmt.Errorf("load statistics: %w", err)
		}

		st := exam.Summarize(files, assessments)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Signed in as %s\n\n", sess.User.Email)
		fmt.Fprintf(out, "%-18s %d (%d ready)\n", "Documents", st.Files, st.ReadyFiles)
		fmt.Fprintf(out, "%-18s %.1f / %d MB\n", "Storage", library.StorageUsedMB(files), library.QuotaMB)
		fmt.Fprintf(out, "%-18s %d (%d completed)\n", "Assessments", st.Assessments, st.Completed)
		fmt.Fprintf(out, "%-18s %d\n", "Questions", st.TotalQuestions)
		fmt.Fprintf(out, "%-18s %d%%\n", "Average score", st.AverageScore)
		return nil
	},
}
