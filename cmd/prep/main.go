// Command prep loads a shelter-outcome export, derives the outcome features
// and writes the augmented table back out as CSV.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shelterprep/internal/config"
	"shelterprep/internal/dataprocessing"
	"shelterprep/internal/exporter"
	"shelterprep/internal/infrastructure"
	"shelterprep/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "source file (.csv or .xlsx)")
	out := flag.String("out", "", "output csv path (defaults to <data dir>/augmented.csv)")
	sheet := flag.String("sheet", "", "workbook sheet for xlsx sources (defaults to the first sheet)")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{Level: "info", Output: "console"},
			Paths:   config.PathsConfig{DataDir: "data", LogsDir: "logs"},
			Dataset: config.DatasetConfig{DateColumn: "DateTime"},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *out == "" {
		*out = filepath.Join(cfg.Paths.DataDir, "augmented.csv")
	}
	if *sheet == "" {
		*sheet = cfg.Dataset.Sheet
	}

	loader := dataprocessing.NewLoader(logger, dataprocessing.LoadOptions{
		DateColumn: cfg.Dataset.DateColumn,
		Sheet:      *sheet,
	})

	var table *domain.Table
	switch strings.ToLower(filepath.Ext(*in)) {
	case ".xlsx":
		table, err = loader.LoadWorkbook(*in)
	default:
		table, err = loader.LoadCSV(*in)
	}
	if err != nil {
		logger.Error("load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	augmented, err := dataprocessing.NewDeriver(logger).AddFeatures(table)
	if err != nil {
		logger.Error("feature derivation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(logger)
	if err := writer.WriteTable(*out, augmented, exporter.WriteOptions{}); err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("done",
		slog.String("output", *out),
		slog.Int("rows", augmented.Len()),
		slog.Int("columns", augmented.NumColumns()))
}
