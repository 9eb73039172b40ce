package cmd

import (
	"io"

	"github.com/msto63/schedclients/internal/tui/dashboard"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show a live dashboard of the fleet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log lines would tear the alternate screen
		if err := logging.Configure(logging.LoggerConfig{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: io.Discard,
		}); err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		f, err := openStreams(ctx)
		if err != nil {
			return err
		}
		defer f.Close()

		return dashboard.Run(ctx, f)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
