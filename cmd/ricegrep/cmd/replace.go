package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ricegrep/ricegrep/internal/dispatch"
)

func newReplaceCmd() *cobra.Command {
	var (
		force   bool
		dryRun  bool
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "replace <old> <new> <file>",
		Short: "Replace a literal substring in a file",
		Long: `Replace every occurrence of <old> with <new> in <file>.

Without --force, nothing is written: the command only reports what would
change. --dry-run and --preview behave the same way as omitting --force.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dispatch.New(nil, nil, nil, resolveRoot("."))
			resp, err := d.Replace(cmd.Context(), dispatch.ReplaceRequest{
				Old:      args[0],
				New:      args[1],
				FilePath: args[2],
				Force:    force,
				DryRun:   dryRun,
				Preview:  preview,
			})
			if err != nil {
				return fmt.Errorf("replace failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if resp.Applied {
				fmt.Fprintf(out, "replaced %d occurrence(s) in %s\n", resp.Occurrences, args[2])
				return nil
			}

			fmt.Fprintf(out, "%d occurrence(s) would be replaced in %s (use --force to write):\n\n", resp.Occurrences, args[2])
			fmt.Fprintln(out, resp.Preview)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Write the replacement to disk")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show what would change without writing")

	return cmd
}
