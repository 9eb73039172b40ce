package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"trace", LevelTrace, false},
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"invalid", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestNew(t *testing.T) {
	logger := New("test-service")

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.Name() != "test-service" {
		t.Errorf("Name() = %v, want test-service", logger.Name())
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New("clients").WithOutput(&buf).WithLevel(LevelDebug)

	logger.Info("GetAllNodes succeeded", "count", 3, "error", errors.New("boom"))

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if got["message"] != "GetAllNodes succeeded" {
		t.Errorf("message = %v", got["message"])
	}
	if got["logger"] != "clients" {
		t.Errorf("logger = %v, want clients", got["logger"])
	}
	if got["level"] != "info" {
		t.Errorf("level = %v, want info", got["level"])
	}
	if got["count"] != float64(3) {
		t.Errorf("count = %v, want 3", got["count"])
	}
	if got["error"] != "boom" {
		t.Errorf("error = %v, want boom", got["error"])
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New("test").WithOutput(&buf).WithLevel(LevelWarn)

	logger.Trace("trace")
	logger.Debug("debug")
	logger.Info("info")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}

	logger.Warn("warn")
	if !strings.Contains(buf.String(), "warn") {
		t.Errorf("expected warn entry, got %q", buf.String())
	}
}

func TestLogger_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New("sub").WithOutput(&buf).WithFormat(FormatText).WithLevel(LevelTrace)

	logger.With("subscription", "jobs").Trace("Received message", "seq", 7)

	line := buf.String()
	for _, want := range []string{"[TRC]", "{sub}", "Received message", "seq=7", "subscription=jobs"} {
		if !strings.Contains(line, want) {
			t.Errorf("text output %q missing %q", line, want)
		}
	}
}

func TestLogger_WithDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := New("test").WithOutput(&buf)
	_ = base.With("a", 1)

	base.Info("plain")
	if strings.Contains(buf.String(), `"a"`) {
		t.Errorf("With() modified the parent logger: %q", buf.String())
	}
}

func TestLogger_OddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := New("test").WithOutput(&buf)

	logger.Info("message", "key1", "value1", "orphan")
	if !strings.Contains(buf.String(), "!BADKEY") {
		t.Errorf("orphan key not reported: %q", buf.String())
	}
}

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	logger := New("late")

	if err := Configure(LoggerConfig{Level: "debug", Format: "text", Output: &buf}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	defer Configure(DefaultLoggerConfig())

	logger.Debug("after configure")
	if !strings.Contains(buf.String(), "after configure") {
		t.Errorf("logger did not follow process defaults: %q", buf.String())
	}

	if err := Configure(LoggerConfig{Level: "loud"}); err == nil {
		t.Error("Configure() with invalid level should fail")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.IsLevelEnabled(LevelError) {
		t.Error("Discard() logger should not enable error level")
	}
	logger.Error("dropped")
}

func TestToFields(t *testing.T) {
	if fields := toFields(); fields != nil {
		t.Error("toFields() with no args should return nil")
	}

	fields := toFields("key1", "value1", "key2", 42)
	if fields["key1"] != "value1" {
		t.Errorf("fields[key1] = %v, want value1", fields["key1"])
	}
	if fields["key2"] != 42 {
		t.Errorf("fields[key2] = %v, want 42", fields["key2"])
	}

	fields = toFields(123, "value")
	if len(fields) != 0 {
		t.Errorf("Non-string key should be skipped, got %v fields", len(fields))
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := Discard().WithLevel(LevelInfo)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", "iteration", i)
	}
}
