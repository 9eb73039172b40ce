package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/msto63/schedclients/pkg/clients"
	"github.com/msto63/schedclients/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionRemote bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version, and with --remote the scheduler's",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Info("schedctl")
		fmt.Printf("schedctl v%s\n", info.Version)
		fmt.Printf("  Library:    %s\n", info.Library)
		fmt.Printf("  Git Commit: %s\n", info.Commit)
		fmt.Printf("  Build Date: %s\n", info.BuildDate)
		fmt.Printf("  Go Version: %s\n", info.GoVersion)
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)

		if !versionRemote {
			return nil
		}
		return oneShot(func(ctx context.Context, f *clients.Fleet) error {
			v, err := f.Version.GetSchedulerVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("\nScheduler %s at %s\n", v, cfg.SchedulerAddress())

			plugins, err := f.Version.GetPluginVersions(ctx)
			if err != nil {
				return err
			}
			for _, p := range plugins {
				fmt.Printf("  %-14s %s\n", p.Name, p.Version)
			}
			return nil
		})(cmd, args)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionRemote, "remote", false, "also query the scheduler")
	rootCmd.AddCommand(versionCmd)
}
