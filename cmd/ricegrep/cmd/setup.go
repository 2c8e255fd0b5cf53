package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ricegrep/ricegrep/internal/embed"
	"github.com/ricegrep/ricegrep/internal/output"
)

func newSetupCmd() *cobra.Command {
	var (
		check   bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Verify the embedding backend",
		Long: `Verify that ricegrep's embedding backend is ready to use.

ricegrep ships with a built-in static embedder, so there is nothing to
install or download: this command simply confirms the embedder
initializes correctly in the current environment.`,
		Example: `  # Verify the embedder
  ricegrep setup

  # Check status only, same as running setup
  ricegrep setup --check`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSetup(ctx, cmd, check, verbose)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Only check status")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	return cmd
}

func runSetup(ctx context.Context, cmd *cobra.Command, _, verbose bool) error {
	out := output.New(cmd.OutOrStdout())

	out.Status("🔧", "Ricegrep Setup")
	out.Newline()

	out.Status("🔍", "Verifying embedder...")

	embedder, err := embed.NewEmbedder(ctx, embed.ProviderStatic, "")
	if err != nil {
		out.Warningf("Embedder verification failed: %v", err)
		return err
	}
	defer func() { _ = embedder.Close() }()

	if !embedder.Available(ctx) {
		out.Warning("Embedder reports unavailable")
		return fmt.Errorf("embedder unavailable")
	}

	info := embed.GetInfo(ctx, embedder)
	out.Newline()
	out.Success("Embedder ready!")
	out.Newline()
	out.Status("📊", "Configuration:")
	out.Status("", fmt.Sprintf("  Provider:   %s", info.Provider))
	out.Status("", fmt.Sprintf("  Model:      %s", info.Model))
	out.Status("", fmt.Sprintf("  Dimensions: %d", info.Dimensions))

	if verbose {
		out.Newline()
		out.Status("ℹ️ ", "No network access or model download is required.")
	}

	out.Newline()
	out.Status("🚀", "Ready! Run 'ricegrep init' to index your project.")

	return nil
}
