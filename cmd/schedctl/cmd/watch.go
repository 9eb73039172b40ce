package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/msto63/schedclients/internal/relay"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/spf13/cobra"
)

var watchFormat string

// streamOf names the fleet stream that delivers each update kind
var streamOf = map[string]string{
	clients.KindAgent:          "agents",
	clients.KindJobsState:      "jobs-state",
	clients.KindJobProgress:    "job-state",
	clients.KindTaskProgress:   "task-state",
	clients.KindMandate:        "map",
	clients.KindSchedulerState: "scheduling",
	clients.KindServiceRequest: "servicing",
}

var watchCmd = &cobra.Command{
	Use:   "watch [kind...]",
	Short: "Print scheduler updates as they arrive",
	Long: `Print scheduler updates as they arrive, one per line.

Without arguments every kind is printed. Kinds: ` + strings.Join(clients.Kinds(), ", ") + `.
With --no-subscribe only the streams of the requested kinds are opened.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFormat, "format", "json", "output format (json, text)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	for _, k := range args {
		if !slices.Contains(clients.Kinds(), k) {
			return fmt.Errorf("unknown update kind %q", k)
		}
	}
	if watchFormat != "json" && watchFormat != "text" {
		return fmt.Errorf("unknown format %q", watchFormat)
	}

	ctx, cancel := signalContext()
	defer cancel()

	f, err := openStreams(ctx, args...)
	if err != nil {
		return err
	}
	defer f.Close()

	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)
	remove := f.Observe(func(u clients.Update) {
		mu.Lock()
		defer mu.Unlock()
		if watchFormat == "text" {
			fmt.Println(u.String())
			return
		}
		enc.Encode(relay.Message{Type: u.Kind, Timestamp: u.Received, Payload: u.Payload})
	}, args...)
	defer remove()

	<-ctx.Done()
	return nil
}

// openStreams creates a fleet for a streaming command. When auto-subscribe is
// off, only the streams carrying kinds are started, or all of them when no
// kind is given.
func openStreams(ctx context.Context, kinds ...string) (*clients.Fleet, error) {
	f, err := follow(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Scheduler.AutoSubscribe() {
		return f, nil
	}
	if len(kinds) == 0 {
		f.Subscribe()
		return f, nil
	}

	streamers := f.Streamers()
	for _, k := range kinds {
		streamers[streamOf[k]].Subscribe()
	}
	return f, nil
}
