package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Scheduler.Host != "127.0.0.1" {
		t.Errorf("Scheduler.Host = %v, want 127.0.0.1", cfg.Scheduler.Host)
	}
	if cfg.Scheduler.Port != DefaultSchedulerPort {
		t.Errorf("Scheduler.Port = %v, want %d", cfg.Scheduler.Port, DefaultSchedulerPort)
	}
	if !cfg.Scheduler.AutoSubscribe() {
		t.Error("Scheduler.AutoSubscribe() = false, want true")
	}
	if cfg.Scheduler.RetryDelay.Duration != time.Second {
		t.Errorf("Scheduler.RetryDelay = %v, want 1s", cfg.Scheduler.RetryDelay.Duration)
	}
	if cfg.Scheduler.Timeout.Duration != 10*time.Second {
		t.Errorf("Scheduler.Timeout = %v, want 10s", cfg.Scheduler.Timeout.Duration)
	}
	if cfg.GRPC.MaxRecvMsgSize != 16*1024*1024 {
		t.Errorf("GRPC.MaxRecvMsgSize = %v, want 16MB", cfg.GRPC.MaxRecvMsgSize)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
	if cfg.Relay.Listen != ":8088" {
		t.Errorf("Relay.Listen = %v, want :8088", cfg.Relay.Listen)
	}
	if cfg.Recorder.Path != "schedclients.db" {
		t.Errorf("Recorder.Path = %v, want schedclients.db", cfg.Recorder.Path)
	}
	if cfg.Simulator.Agents != 4 {
		t.Errorf("Simulator.Agents = %v, want 4", cfg.Simulator.Agents)
	}
}

func TestConfig_Addresses(t *testing.T) {
	cfg := Default()

	if got := cfg.SchedulerAddress(); got != "127.0.0.1:41916" {
		t.Errorf("SchedulerAddress() = %v, want 127.0.0.1:41916", got)
	}
	if got := cfg.SimulatorAddress(); got != "0.0.0.0:41916" {
		t.Errorf("SimulatorAddress() = %v, want 0.0.0.0:41916", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty host", func(c *Config) { c.Scheduler.Host = "" }, true},
		{"port zero", func(c *Config) { c.Scheduler.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Scheduler.Port = 70000 }, true},
		{"simulator port", func(c *Config) { c.Simulator.Port = -1 }, true},
		{"negative retry", func(c *Config) { c.Scheduler.RetryDelay.Duration = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("Load() expected error for non-existent file")
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[scheduler]
host = "10.0.0.5"
port = 5000
subscribe = false
retry_delay = "250ms"

[logging]
level = "debug"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scheduler.Host != "10.0.0.5" {
		t.Errorf("Scheduler.Host = %v, want 10.0.0.5", cfg.Scheduler.Host)
	}
	if cfg.Scheduler.Port != 5000 {
		t.Errorf("Scheduler.Port = %v, want 5000", cfg.Scheduler.Port)
	}
	if cfg.Scheduler.AutoSubscribe() {
		t.Error("Scheduler.AutoSubscribe() = true, want false")
	}
	if cfg.Scheduler.RetryDelay.Duration != 250*time.Millisecond {
		t.Errorf("Scheduler.RetryDelay = %v, want 250ms", cfg.Scheduler.RetryDelay.Duration)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}

	// Defaults still apply to missing values
	if cfg.Scheduler.Timeout.Duration != 10*time.Second {
		t.Errorf("Scheduler.Timeout = %v, want 10s (default)", cfg.Scheduler.Timeout.Duration)
	}
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("TEST_SCHED_HOST", "fleet.local")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
scheduler:
  host: ${TEST_SCHED_HOST}
  timeout: 3s
simulator:
  agents: 9
  interval: 200ms
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scheduler.Host != "fleet.local" {
		t.Errorf("Scheduler.Host = %v, want fleet.local", cfg.Scheduler.Host)
	}
	if cfg.Scheduler.Timeout.Duration != 3*time.Second {
		t.Errorf("Scheduler.Timeout = %v, want 3s", cfg.Scheduler.Timeout.Duration)
	}
	if cfg.Simulator.Agents != 9 {
		t.Errorf("Simulator.Agents = %v, want 9", cfg.Simulator.Agents)
	}
	if cfg.Simulator.Interval.Duration != 200*time.Millisecond {
		t.Errorf("Simulator.Interval = %v, want 200ms", cfg.Simulator.Interval.Duration)
	}
	if cfg.Scheduler.Port != DefaultSchedulerPort {
		t.Errorf("Scheduler.Port = %v, want default", cfg.Scheduler.Port)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(configPath, []byte("x=1"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for .ini file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCHEDULER_HOST", "override.local")
	t.Setenv("SCHEDULER_PORT", "6000")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[scheduler]\nhost = \"file.local\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scheduler.Host != "override.local" {
		t.Errorf("Scheduler.Host = %v, want override.local", cfg.Scheduler.Host)
	}
	if cfg.Scheduler.Port != 6000 {
		t.Errorf("Scheduler.Port = %v, want 6000", cfg.Scheduler.Port)
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	t.Setenv("SCHEDULER_PORT", "not-a-port")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for invalid SCHEDULER_PORT")
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv("SCHEDCLIENTS_CONFIG", "")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCHEDULER_HOST", "")
	t.Setenv("SCHEDULER_PORT", "")

	// Change to a temp directory without config files
	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Scheduler.Port != DefaultSchedulerPort {
		t.Errorf("Scheduler.Port = %v, want default", cfg.Scheduler.Port)
	}
}

func TestLoadFromEnv_ExplicitPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "explicit.toml")
	if err := os.WriteFile(configPath, []byte("[relay]\nlisten = \":9999\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv("SCHEDCLIENTS_CONFIG", configPath)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Relay.Listen != ":9999" {
		t.Errorf("Relay.Listen = %v, want :9999", cfg.Relay.Listen)
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "configs", "schedclients.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if !cfg.Scheduler.AutoSubscribe() {
		t.Error("AutoSubscribe() = false, want true")
	}
	if cfg.Recorder.Path != "./data/schedclients.db" {
		t.Errorf("Recorder.Path = %v, want ./data/schedclients.db", cfg.Recorder.Path)
	}
	if cfg.Simulator.Interval.Duration != time.Second {
		t.Errorf("Simulator.Interval = %v, want 1s", cfg.Simulator.Interval.Duration)
	}
}
