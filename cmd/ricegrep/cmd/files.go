package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ricegrep/ricegrep/internal/dispatch"
)

func newFilesCmd() *cobra.Command {
	var (
		includeDirs bool
		fullPath    bool
		ignoreCase  bool
	)

	cmd := &cobra.Command{
		Use:   "files <pattern> [paths...]",
		Short: "Glob-match file paths under the project root",
		Long: `List file paths under the project root matching a glob pattern.

Results are newest-first by modification time and capped at 100 matches.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolveRoot(".")
			if len(args) > 1 {
				root = args[1]
			}
			d := dispatch.New(nil, nil, nil, root)
			resp, err := d.Files(cmd.Context(), dispatch.FilesRequest{
				Root:        root,
				Pattern:     args[0],
				IncludeDirs: includeDirs,
				FullPath:    fullPath,
				IgnoreCase:  ignoreCase,
			})
			if err != nil {
				return fmt.Errorf("files failed: %w", err)
			}

			for _, p := range resp.Paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if resp.Truncated {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: result truncated to 100 matches")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeDirs, "include-dirs", false, "Include directories in the results")
	cmd.Flags().BoolVar(&fullPath, "full-path", false, "Match the glob against the absolute path instead of the relative one")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Case-insensitive glob matching")

	return cmd
}
