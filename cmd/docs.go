package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/library"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/store"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the documents in your library",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
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
		files, err := svc.api.ListDocuments(ctx)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		printFiles(cmd, files)
		return nil
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>...",
	Short: "Upload PDF documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, svc *services, c *appstate.Container) error {
			var failed int
			for _, path := range args {
				f, err := library.UploadFile(ctx, svc.api, c, path)
				if err != nil {
					failed++
					cmd.PrintErrf("%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s, id %s)\n", f.Name, f.Size, f.ID)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(args))
			}
			return nil
		})
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete documents by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, svc *services, c *appstate.Container) error {
			for _, id := range args {
				if err := library.Delete(ctx, svc.api, c, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		})
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsDeleteCmd)
}

// withContainer opens the services, checks for a session and runs fn with a
// container that neither fetches on login nor touches the saved page.
func withContainer(cmd *cobra.Command, fn func(context.Context, *services, *appstate.Container) error) error {
	svc, err := openServices(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	if _, err := svc.requireSession(ctx); err != nil {
		return err
	}
	c, err := svc.container(&store.MemoryPages{}, func(context.Context, *appstate.Container) {})
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, svc, c)
}

func printFiles(cmd *cobra.Command, files []model.LibraryFile) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-32s  %9s  %5s  %-10s  %s\n", "ID", "Name", "Size", "Pages", "Status", "Uploaded")
	fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("─", 112))
	for _, f := range files {
		name := f.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		uploaded := ""
		if !f.UploadedAt.IsZero() {
			uploaded = humanize.Time(f.UploadedAt)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-32s  %9s  %5d  %-10s  %s\n", f.ID, name, f.Size, f.PageCount, f.Status, uploaded)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d documents, %.1f of %d MB used\n", len(files), library.StorageUsedMB(files), library.QuotaMB)
}
