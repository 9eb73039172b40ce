package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/msto63/schedclients/pkg/core/health"
	"github.com/spf13/cobra"
)

var (
	healthWait time.Duration
	healthJSON bool
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Subscribe to every stream and report their health",
	Long: `Subscribe to every stream, wait for them to settle and print the
health report. The exit code is non-zero when the report is unhealthy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		f, err := openStreams(ctx)
		if err != nil {
			return err
		}
		defer f.Close()

		select {
		case <-time.After(healthWait):
		case <-ctx.Done():
		}

		checkCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		report := f.Health().Check(checkCtx)

		if healthJSON {
			if err := printJSON(report); err != nil {
				return err
			}
		} else {
			printReport(report)
		}

		if report.Status == health.StatusUnhealthy {
			f.Close()
			os.Exit(2)
		}
		return nil
	},
}

func printReport(r *health.Report) {
	fmt.Printf("%s %s: %s\n", r.Service, r.Version, r.Status)

	checks := append([]health.CheckResult(nil), r.Checks...)
	sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })

	w := newTable()
	fmt.Fprintln(w, "CHECK\tSTATUS\tMESSAGE")
	for _, c := range checks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Status, c.Message)
	}
	w.Flush()
}

func init() {
	healthCmd.Flags().DurationVar(&healthWait, "wait", 2*time.Second, "time given to the streams to connect")
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(healthCmd)
}
