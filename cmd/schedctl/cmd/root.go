package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/msto63/schedclients/pkg/clients"
	"github.com/msto63/schedclients/pkg/core/config"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	host        string
	port        int
	logLevel    string
	logFormat   string
	noSubscribe bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "schedctl",
	Short: "Fleet scheduler command line client",
	Long: `schedctl talks to a fleet scheduler over gRPC.

One-shot commands query or change the scheduler and exit. Streaming
commands (watch, record, relay, dashboard) follow the scheduler's update
streams and reconnect on their own until interrupted.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $SCHEDCLIENTS_CONFIG or ./configs/schedclients.toml)")
	flags.StringVar(&host, "host", "", "scheduler host, overrides the config")
	flags.IntVar(&port, "port", 0, "scheduler port, overrides the config")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "log format (json, text)")
	flags.BoolVar(&noSubscribe, "no-subscribe", false, "do not start update streams automatically")
}

// setup loads the configuration and applies flag overrides
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if host != "" {
		cfg.Scheduler.Host = host
	}
	if port != 0 {
		cfg.Scheduler.Port = port
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if noSubscribe {
		off := false
		cfg.Scheduler.Subscribe = &off
	}

	if err := logging.Configure(logging.LoggerConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}); err != nil {
		return fmt.Errorf("invalid logging flags: %w", err)
	}
	return cfg.Validate()
}

// connect creates a fleet for a one-shot command. Update streams stay off.
func connect(ctx context.Context) (*clients.Fleet, error) {
	c := *cfg
	off := false
	c.Scheduler.Subscribe = &off
	return clients.NewFleet(ctx, &c)
}

// follow creates a fleet whose streams follow the configured auto-subscribe setting
func follow(ctx context.Context) (*clients.Fleet, error) {
	return clients.NewFleet(ctx, cfg)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// oneShot runs fn with a connected fleet and closes it afterwards
func oneShot(fn func(ctx context.Context, f *clients.Fleet) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		f, err := connect(ctx)
		if err != nil {
			return err
		}
		defer f.Close()

		return fn(ctx, f)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func parseID(name, s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return int32(v), nil
}

func parseIDs(name string, args []string) ([]int32, error) {
	ids := make([]int32, 0, len(args))
	for _, a := range args {
		id, err := parseID(name, a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
