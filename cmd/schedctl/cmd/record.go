package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/msto63/schedclients/internal/recorder"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/spf13/cobra"
)

var (
	recordPath  string
	recordPrune time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record [kind...]",
	Short: "Store scheduler updates in a SQLite database",
	Long: `Store scheduler updates in a SQLite database until interrupted.

Every update is written as CBOR and as JSON together with the time it was
received. Without arguments every kind is recorded.`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordPath, "path", "", "database file, overrides the config")
	recordCmd.Flags().DurationVar(&recordPrune, "prune", 0, "delete updates older than this before recording")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	path := cfg.Recorder.Path
	if recordPath != "" {
		path = recordPath
	}

	rec, err := recorder.New(recorder.Config{Path: path})
	if err != nil {
		return err
	}
	defer rec.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if recordPrune > 0 {
		n, err := rec.Prune(ctx, recordPrune)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d old updates\n", n)
	}

	f, err := openStreams(ctx, args...)
	if err != nil {
		return err
	}
	defer f.Close()

	detach := rec.Attach(f, args...)
	fmt.Printf("Recording to %s (session %s), press Ctrl+C to stop\n", path, rec.Session())

	<-ctx.Done()
	detach()

	return printCounts(rec)
}

func printCounts(rec *recorder.Recorder) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w := newTable()
	fmt.Fprintln(w, "KIND\tSTORED")
	for _, k := range clients.Kinds() {
		n, err := rec.Count(ctx, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\n", k, n)
	}
	return w.Flush()
}
