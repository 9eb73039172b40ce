package cmd

import (
	"github.com/msto63/schedclients/internal/relay"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/spf13/cobra"
)

var relayListen string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Serve scheduler updates to websocket clients",
	Long: `Serve scheduler updates to websocket clients.

Clients connect to /ws and receive every update as a JSON message
{"type", "timestamp", "payload"}. GET /healthz returns the health report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Relay.Listen
		if relayListen != "" {
			addr = relayListen
		}

		ctx, cancel := signalContext()
		defer cancel()

		f, err := openStreams(ctx)
		if err != nil {
			return err
		}
		defer f.Close()

		r := relay.New(f, logging.New("relay"))
		return r.ListenAndServe(ctx, addr)
	},
}

func init() {
	relayCmd.Flags().StringVar(&relayListen, "listen", "", "listen address, overrides the config")
	rootCmd.AddCommand(relayCmd)
}
