package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/parikshit-sat/cansat-ground/cmd/groundstation/app"
	"github.com/parikshit-sat/cansat-ground/internal/source/serialport"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &logLevel}))

	var configPath string
	var listPorts bool
	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.BoolVar(&listPorts, "list-ports", false, "List available serial ports and exit")
	flag.Parse()

	if listPorts {
		ports, err := serialport.ListPorts()
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		if len(ports) == 0 {
			fmt.Println("no serial ports found")
			return
		}
		for _, port := range ports {
			fmt.Println(port)
		}
		return
	}

	if configPath == "" {
		logger.Error("no configuration file provided")
		os.Exit(1)
	}

	config, err := app.LoadConfig(configPath)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load configuration file: %s", err.Error()), slog.String("path", configPath))
		os.Exit(1)
	}

	logLevel.Set(config.Settings.Level())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err = app.Run(ctx, config, logger); err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}
