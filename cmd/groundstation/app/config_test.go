package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "settings:\n  logLevel: info\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Source.Type != SourceSimulator {
		t.Errorf("expected simulator source, got %s", config.Source.Type)
	}
	if got := time.Duration(config.Mission.TickInterval); got != defaultTickInterval {
		t.Errorf("expected tick interval %s, got %s", defaultTickInterval, got)
	}
}

func TestLoadConfig_Full(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, `
settings:
  logLevel: debug
source:
  type: serial
  serial:
    port: /dev/ttyUSB0
    baudRate: 115200
    readTimeout: 250ms
mission:
  tickInterval: 200ms
  duration: 2m
storage:
  dataDirectory: missions
  maxBatchSize: 50
`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Settings.Level() != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", config.Settings.Level())
	}
	if config.Source.Type != SourceSerial {
		t.Errorf("expected serial source, got %s", config.Source.Type)
	}

	pc := config.Source.Serial.PortConfig()
	if pc.Port != "/dev/ttyUSB0" || pc.BaudRate != 115200 || pc.ReadTimeout != 250*time.Millisecond {
		t.Errorf("unexpected serial config: %+v", pc)
	}

	if got := time.Duration(config.Mission.TickInterval); got != 200*time.Millisecond {
		t.Errorf("expected 200ms tick, got %s", got)
	}
	if got := time.Duration(config.Mission.Duration); got != 2*time.Minute {
		t.Errorf("expected 2m duration, got %s", got)
	}
	if config.Storage.DataDirectory != "missions" || config.Storage.MaxBatchSize != 50 {
		t.Errorf("unexpected storage config: %+v", config.Storage)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown source type",
			content: "source:\n  type: carrier-pigeon\n",
		},
		{
			name:    "serial without port",
			content: "source:\n  type: serial\n",
		},
		{
			name:    "bad duration",
			content: "mission:\n  tickInterval: soon\n",
		},
		{
			name:    "negative tick",
			content: "mission:\n  tickInterval: -1s\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSettings_Level(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := (Settings{LogLevel: tt.in}).Level(); got != tt.want {
			t.Errorf("Level(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}
