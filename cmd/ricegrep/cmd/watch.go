package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ricegrep/ricegrep/internal/dispatch"
)

func newWatchCmd() *cobra.Command {
	var (
		timeout      time.Duration
		debounceSecs float64
		clearScreen  bool
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Watch the project and keep the index up to date",
		Long: `Watch the project directory for changes and incrementally update
the index as files are added, modified, or removed.

Runs until interrupted, or until --timeout elapses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolveRoot(".")
			handle, err := openDispatcher(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer handle.Close()

			events, err := handle.Dispatcher.Watch(cmd.Context(), dispatch.WatchRequest{
				Root:         root,
				Paths:        args,
				Timeout:      timeout,
				DebounceSecs: debounceSecs,
				ClearScreen:  clearScreen,
			})
			if err != nil {
				return fmt.Errorf("watch failed: %w", err)
			}

			out := cmd.OutOrStdout()
			batches := 0
			for event := range events {
				batches++
				if clearScreen {
					fmt.Fprint(out, "\033[H\033[2J")
				}
				if event.Err != nil {
					fmt.Fprintf(out, "batch %d: update failed: %v\n", batches, event.Err)
					continue
				}
				fmt.Fprintf(out, "batch %d: %d file(s) changed, index updated\n", batches, len(event.ChangedPaths))
				for _, p := range event.ChangedPaths {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}
			fmt.Fprintf(out, "watch stopped after %d batch(es)\n", batches)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop watching after this duration (0 means run until interrupted)")
	cmd.Flags().Float64Var(&debounceSecs, "debounce-secs", 0, "Debounce window in seconds before an update runs")
	cmd.Flags().BoolVar(&clearScreen, "clear-screen", false, "Clear the terminal before each batch summary")

	return cmd
}
