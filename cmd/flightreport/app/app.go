package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/parikshit-sat/cansat-ground/internal/report"
	"github.com/parikshit-sat/cansat-ground/internal/storage"
	"github.com/parikshit-sat/cansat-ground/internal/telemetry"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	rep, err := loadReport(ctx, config, logger)
	if err != nil {
		return err
	}

	if err = report.WriteText(os.Stdout, rep.Report); err != nil {
		return fmt.Errorf("writing text report: %w", err)
	}

	var chartPath string
	if config.Chart || config.PDF {
		// The PDF embeds the chart; render it even when only -pdf was
		// asked for, but keep the file only with -chart.
		chartPath = config.OutputFile + ".png"

		renderer, err := report.NewChartRenderer(report.ChartConfig{FontPath: config.FontPath})
		if err != nil {
			return fmt.Errorf("creating chart renderer: %w", err)
		}
		defer renderer.Close()

		samples := rep.Samples
		if err = renderer.RenderToFile(chartPath, samples); err != nil {
			return fmt.Errorf("rendering chart: %w", err)
		}
		if config.Chart {
			logger.Info("chart written", slog.String("path", chartPath))
		}
	}

	if config.PDF {
		pdfPath := config.OutputFile + ".pdf"
		if err = report.WritePDF(pdfPath, rep.Report, chartPath); err != nil {
			return fmt.Errorf("writing PDF report: %w", err)
		}
		logger.Info("PDF written", slog.String("path", pdfPath))
	}

	if !config.Chart && config.PDF && chartPath != "" {
		if err = os.Remove(chartPath); err != nil {
			logger.Warn("removing temporary chart", slog.String("error", err.Error()))
		}
	}

	return nil
}

// loadedReport is a report plus the samples it was computed from; the
// chart needs the raw series.
type loadedReport struct {
	report.Report
	Samples []telemetry.Sample
}

func loadReport(ctx context.Context, config *Config, logger *slog.Logger) (loadedReport, error) {
	if config.CSVPath != "" {
		samples, err := storage.ReadCSVFile(config.CSVPath)
		if err != nil {
			return loadedReport{}, fmt.Errorf("loading CSV export: %w", err)
		}

		logger.Info("loaded mission export",
			slog.String("path", config.CSVPath),
			slog.Int("samples", len(samples)))

		return loadedReport{
			Report:  report.Report{Summary: report.Summarize(samples)},
			Samples: samples,
		}, nil
	}

	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return loadedReport{}, fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	reader, err := store.ReadSamples(ctx, config.MissionID)
	if err != nil {
		return loadedReport{}, fmt.Errorf("reading mission %d: %w", config.MissionID, err)
	}
	defer reader.Close()

	var samples []telemetry.Sample
	for reader.Next(ctx) {
		samples = append(samples, reader.Current())
	}
	if err = reader.Error(); err != nil {
		return loadedReport{}, fmt.Errorf("iterating samples: %w", err)
	}

	alerts, err := store.Alerts(ctx, config.MissionID)
	if err != nil {
		return loadedReport{}, fmt.Errorf("loading alerts: %w", err)
	}

	logger.Info("loaded mission",
		slog.String("run", reader.Mission().RunID),
		slog.Int("samples", len(samples)),
		slog.Int("alerts", len(alerts)))

	return loadedReport{
		Report: report.Report{
			Mission: reader.Mission(),
			Summary: report.Summarize(samples),
			Alerts:  alerts,
		},
		Samples: samples,
	}, nil
}
