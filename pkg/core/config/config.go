package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultSchedulerPort is the port the fleet scheduler listens on
const DefaultSchedulerPort = 41916

// Config holds the complete application configuration
type Config struct {
	Scheduler SchedulerConfig `toml:"scheduler" yaml:"scheduler"`
	GRPC      GRPCConfig      `toml:"grpc" yaml:"grpc"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	Relay     RelayConfig     `toml:"relay" yaml:"relay"`
	Recorder  RecorderConfig  `toml:"recorder" yaml:"recorder"`
	Simulator SimulatorConfig `toml:"simulator" yaml:"simulator"`
}

// SchedulerConfig describes how to reach the scheduler and how clients behave
type SchedulerConfig struct {
	Host       string   `toml:"host" yaml:"host"`
	Port       int      `toml:"port" yaml:"port"`
	Subscribe  *bool    `toml:"subscribe" yaml:"subscribe"`
	RetryDelay Duration `toml:"retry_delay" yaml:"retry_delay"`
	Timeout    Duration `toml:"timeout" yaml:"timeout"`
}

// AutoSubscribe reports whether clients start their subscriptions on construction
func (s SchedulerConfig) AutoSubscribe() bool {
	return s.Subscribe == nil || *s.Subscribe
}

// GRPCConfig holds transport tuning
type GRPCConfig struct {
	MaxRecvMsgSize    int      `toml:"max_recv_msg_size" yaml:"max_recv_msg_size"`
	MaxSendMsgSize    int      `toml:"max_send_msg_size" yaml:"max_send_msg_size"`
	KeepaliveInterval Duration `toml:"keepalive_interval" yaml:"keepalive_interval"`
	KeepaliveTimeout  Duration `toml:"keepalive_timeout" yaml:"keepalive_timeout"`
}

// LoggingConfig holds the process log settings
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// RelayConfig holds websocket relay settings
type RelayConfig struct {
	Listen string `toml:"listen" yaml:"listen"`
}

// RecorderConfig holds update recorder settings
type RecorderConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// SimulatorConfig holds settings of the in-memory scheduler
type SimulatorConfig struct {
	Host     string   `toml:"host" yaml:"host"`
	Port     int      `toml:"port" yaml:"port"`
	Interval Duration `toml:"interval" yaml:"interval"`
	Agents   int      `toml:"agents" yaml:"agents"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	data := os.ExpandEnv(string(raw))

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".toml", "":
		if _, err := toml.Decode(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	cfg.applyDefaults()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from the SCHEDCLIENTS_CONFIG environment
// variable or a default location. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("SCHEDCLIENTS_CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./configs/schedclients.toml",
			"./configs/schedclients.yaml",
			"./schedclients.toml",
			filepath.Join(os.Getenv("HOME"), ".config/schedclients/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		cfg := Default()
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Scheduler
	if c.Scheduler.Host == "" {
		c.Scheduler.Host = "127.0.0.1"
	}
	if c.Scheduler.Port == 0 {
		c.Scheduler.Port = DefaultSchedulerPort
	}
	if c.Scheduler.RetryDelay.Duration == 0 {
		c.Scheduler.RetryDelay.Duration = time.Second
	}
	if c.Scheduler.Timeout.Duration == 0 {
		c.Scheduler.Timeout.Duration = 10 * time.Second
	}

	// gRPC
	if c.GRPC.MaxRecvMsgSize == 0 {
		c.GRPC.MaxRecvMsgSize = 16 * 1024 * 1024
	}
	if c.GRPC.MaxSendMsgSize == 0 {
		c.GRPC.MaxSendMsgSize = 16 * 1024 * 1024
	}
	if c.GRPC.KeepaliveInterval.Duration == 0 {
		c.GRPC.KeepaliveInterval.Duration = 30 * time.Second
	}
	if c.GRPC.KeepaliveTimeout.Duration == 0 {
		c.GRPC.KeepaliveTimeout.Duration = 10 * time.Second
	}

	// Logging
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	// Relay
	if c.Relay.Listen == "" {
		c.Relay.Listen = ":8088"
	}

	// Recorder
	if c.Recorder.Path == "" {
		c.Recorder.Path = "schedclients.db"
	}

	// Simulator
	if c.Simulator.Host == "" {
		c.Simulator.Host = "0.0.0.0"
	}
	if c.Simulator.Port == 0 {
		c.Simulator.Port = DefaultSchedulerPort
	}
	if c.Simulator.Interval.Duration == 0 {
		c.Simulator.Interval.Duration = time.Second
	}
	if c.Simulator.Agents == 0 {
		c.Simulator.Agents = 4
	}
}

// applyEnv applies SCHEDULER_HOST and SCHEDULER_PORT overrides
func (c *Config) applyEnv() error {
	if host := os.Getenv("SCHEDULER_HOST"); host != "" {
		c.Scheduler.Host = host
	}
	if port := os.Getenv("SCHEDULER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_PORT %q: %w", port, err)
		}
		c.Scheduler.Port = p
	}
	return nil
}

// Validate checks the values a client needs
func (c *Config) Validate() error {
	if c.Scheduler.Host == "" {
		return fmt.Errorf("scheduler.host must not be empty")
	}
	if err := checkPort("scheduler.port", c.Scheduler.Port); err != nil {
		return err
	}
	if err := checkPort("simulator.port", c.Simulator.Port); err != nil {
		return err
	}
	if c.Scheduler.RetryDelay.Duration < 0 {
		return fmt.Errorf("scheduler.retry_delay must not be negative")
	}
	if c.Simulator.Agents < 0 {
		return fmt.Errorf("simulator.agents must not be negative")
	}
	return nil
}

func checkPort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s %d out of range", name, port)
	}
	return nil
}

// SchedulerAddress returns host:port of the scheduler
func (c *Config) SchedulerAddress() string {
	return fmt.Sprintf("%s:%d", c.Scheduler.Host, c.Scheduler.Port)
}

// SimulatorAddress returns host:port the simulator listens on
func (c *Config) SimulatorAddress() string {
	return fmt.Sprintf("%s:%d", c.Simulator.Host, c.Simulator.Port)
}
