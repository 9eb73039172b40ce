// Command schedsim serves an in-memory fleet scheduler for trying out the
// clients without real hardware.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msto63/schedclients/internal/simulator"
	"github.com/msto63/schedclients/pkg/core/config"
	coregrpc "github.com/msto63/schedclients/pkg/core/grpc"
	"github.com/msto63/schedclients/pkg/core/logging"
	"github.com/msto63/schedclients/pkg/core/version"
)

func main() {
	configPath := flag.String("config", "", "config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logging.New("schedsim").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := logging.Configure(logging.LoggerConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}); err != nil {
		logging.New("schedsim").Error("Invalid logging configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New("schedsim")
	logger.Info("Starting fleet scheduler simulator", "version", version.Schedsim)

	simCfg := simulator.DefaultConfig()
	simCfg.Agents = cfg.Simulator.Agents
	simCfg.Logger = logger
	sim := simulator.New(simCfg)

	srvCfg := coregrpc.DefaultServerConfig()
	srvCfg.Host = cfg.Simulator.Host
	srvCfg.Port = cfg.Simulator.Port
	if cfg.GRPC.MaxRecvMsgSize > 0 {
		srvCfg.MaxRecvMsgSize = cfg.GRPC.MaxRecvMsgSize
	}
	if cfg.GRPC.MaxSendMsgSize > 0 {
		srvCfg.MaxSendMsgSize = cfg.GRPC.MaxSendMsgSize
	}

	srv := simulator.NewServer(sim, srvCfg, cfg.Simulator.Interval.Duration)
	if err := srv.StartAsync(); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}

	logger.Info("Simulator started",
		"address", srv.Address(),
		"agents", cfg.Simulator.Agents,
		"interval", cfg.Simulator.Interval.Duration.String(),
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	srv.Stop(ctx)

	logger.Info("Simulator stopped", "cycle", sim.Cycle())
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
