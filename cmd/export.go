package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarai/scholar/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <assessment-id>",
	Short: "Export a question paper or answer key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, _ := cmd.Flags().GetBool("answers")
		formatName, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

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
		if len(a.Questions) == 0 {
			return fmt.Errorf("assessment %s has no questions yet (status %s)", a.ID, a.Status)
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			if output == "." {
				output = export.FileName(a, format, answers)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := export.Write(w, a, format, answers); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		if output != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().Bool("answers", false, "Include correct answers and sources")
	exportCmd.Flags().String("format", string(export.FormatYAML), "Output format: yaml or json")
	exportCmd.Flags().StringP("output", "o", "", `Write to this file instead of stdout ("." picks a name)`)
}
