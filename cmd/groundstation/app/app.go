package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/parikshit-sat/cansat-ground/internal/source"
	"github.com/parikshit-sat/cansat-ground/internal/source/flightsim"
	"github.com/parikshit-sat/cansat-ground/internal/source/serialport"
	"github.com/parikshit-sat/cansat-ground/internal/storage"
)

const storageDir = "data"

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	dataDir, err := resolveDataDir(&config.Storage)
	if err != nil {
		return fmt.Errorf("resolving storage directory: %w", err)
	}

	store := createStorage(dataDir)
	defer store.Close()

	src, err := createSource(&config.Source)
	if err != nil {
		return fmt.Errorf("creating telemetry source: %w", err)
	}
	defer src.Close()

	options := []func(*Recorder){
		WithExportDir(dataDir),
	}
	if config.Mission.TickInterval > 0 {
		options = append(options, WithTickInterval(time.Duration(config.Mission.TickInterval)))
	}
	if config.Mission.Duration > 0 {
		options = append(options, WithMissionDuration(time.Duration(config.Mission.Duration)))
	}
	if config.Storage.MaxBatchSize > 0 {
		options = append(options, WithMaxBatchSize(config.Storage.MaxBatchSize))
	}

	return NewRecorder(store, src, &config.Source, logger, options...).Run(ctx)
}

func createSource(config *SourceConfig) (source.Source, error) {
	switch config.Type {
	case SourceSimulator:
		var options []func(*flightsim.Simulator)
		if config.Simulator.Speedup > 0 {
			options = append(options, flightsim.WithSpeedup(config.Simulator.Speedup))
		}
		if config.Simulator.NoiseLevel != nil {
			options = append(options, flightsim.WithNoiseLevel(*config.Simulator.NoiseLevel))
		}
		if config.Simulator.Seed != 0 {
			options = append(options, flightsim.WithSeed(config.Simulator.Seed))
		}
		return flightsim.New(options...), nil

	case SourceSerial:
		return serialport.Open(config.Serial.PortConfig())

	default:
		return nil, fmt.Errorf("unknown source type '%s'", config.Type)
	}
}

func resolveDataDir(config *StorageConfig) (string, error) {
	dir := config.DataDirectory
	if dir == "" {
		dir = storageDir
	}
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current working directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	stat, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("storage directory '%s': %w", dir, err)
	}
	if !stat.IsDir() {
		return "", fmt.Errorf("storage path '%s' is not a directory", dir)
	}

	return dir, nil
}

func createStorage(dataDir string) *storage.SqliteStore {
	dbPath := filepath.Join(dataDir, fmt.Sprintf("cansat_mission_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return storage.NewSqliteStore(dbPath)
}
