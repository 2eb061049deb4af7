package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/parikshit-sat/cansat-ground/internal/source/serialport"
)

const (
	SourceSimulator SourceType = "simulator"
	SourceSerial    SourceType = "serial"

	defaultTickInterval = 500 * time.Millisecond
)

type SourceType string

// Config represents the main application configuration.
type Config struct {
	Settings Settings      `yaml:"settings"`
	Source   SourceConfig  `yaml:"source"`
	Mission  MissionConfig `yaml:"mission"`
	Storage  StorageConfig `yaml:"storage"`
}

// Settings represents global application settings.
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level maps the configured log level onto slog levels; unknown values
// fall back to info.
func (s Settings) Level() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SourceConfig selects and configures the telemetry source.
type SourceConfig struct {
	Type      SourceType      `yaml:"type"`
	Serial    SerialConfig    `yaml:"serial"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// SerialConfig represents the serial link settings.
type SerialConfig struct {
	Port        string   `yaml:"port"`
	BaudRate    int      `yaml:"baudRate"`
	ReadTimeout Duration `yaml:"readTimeout"`
}

// PortConfig converts to the serial source configuration.
func (c SerialConfig) PortConfig() serialport.Config {
	return serialport.Config{
		Port:        c.Port,
		BaudRate:    c.BaudRate,
		ReadTimeout: time.Duration(c.ReadTimeout),
	}
}

// SimulatorConfig represents the flight simulator settings. NoiseLevel
// is a pointer so an explicit zero can disable noise.
type SimulatorConfig struct {
	Speedup    float64  `yaml:"speedup"`
	NoiseLevel *float64 `yaml:"noiseLevel"`
	Seed       int64    `yaml:"seed"`
}

// MissionConfig represents mission recording settings.
type MissionConfig struct {
	TickInterval Duration `yaml:"tickInterval"`

	// Duration stops the mission after this much wall time; zero means
	// record until interrupted.
	Duration Duration `yaml:"duration"`
}

// StorageConfig represents storage settings.
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	MaxBatchSize  int    `yaml:"maxBatchSize"`
}

// Duration is a time.Duration that unmarshals from YAML strings such as
// "500ms" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}

	*d = Duration(v)
	return nil
}

// LoadConfig reads and validates the YAML configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	config := Config{
		Source: SourceConfig{Type: SourceSimulator},
		Mission: MissionConfig{
			TickInterval: Duration(defaultTickInterval),
		},
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	switch config.Source.Type {
	case SourceSimulator:

	case SourceSerial:
		if config.Source.Serial.Port == "" {
			return nil, fmt.Errorf("serial source requires a port")
		}

	default:
		return nil, fmt.Errorf("unknown source type '%s'", config.Source.Type)
	}

	if config.Mission.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive")
	}

	return &config, nil
}
