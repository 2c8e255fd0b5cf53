package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report whether the index is ready to serve search",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolveRoot(".")
			handle, err := openDispatcher(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer handle.Close()

			resp, err := handle.Dispatcher.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			status := "unhealthy"
			if resp.Healthy {
				status = "healthy"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status, resp.Detail)
			if !resp.Healthy {
				return fmt.Errorf("index is not healthy: %s", resp.Detail)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
