package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/grupo7/adhtc/config"
	"github.com/grupo7/adhtc/internal/adapters/report"
	"github.com/grupo7/adhtc/internal/adapters/storage"
	"github.com/grupo7/adhtc/internal/domain"
	"github.com/grupo7/adhtc/internal/optimizer"
	"github.com/grupo7/adhtc/internal/scenario"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	mode := flag.String("mode", "evaluate", "mode: evaluate|compare|optimize|serve|scenarios")
	scenarioID := flag.String("scenario", "base_case", "scenario to evaluate")
	scenarioIDs := flag.String("scenarios", "base_case,optimized,full_cogas", "comma-separated scenarios to compare")
	method := flag.String("method", "genetic", "optimization method: genetic|gradient|pareto")
	objectives := flag.String("objectives", "efficiency", "comma-separated objective metrics")
	seed := flag.Int64("seed", 0, "optimizer seed (0 = time-based)")
	validate := flag.Bool("validate", false, "print step-by-step calculation breakdown")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("adhtc starting",
		"config", *configPath,
		"mode", *mode,
		"scenario", *scenarioID,
		"method", *method,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN, cfg.Retention())
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	reporter := report.NewConsole(*validate)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "evaluate":
		err = runEvaluate(ctx, cfg, store, reporter, *scenarioID)
	case "compare":
		err = runCompare(cfg, reporter, splitList(*scenarioIDs))
	case "optimize":
		err = runOptimize(ctx, cfg, store, reporter, *method, splitList(*objectives), *seed)
	case "serve":
		err = runServe(ctx, cfg, store)
	case "scenarios":
		reporter.PrintScenarios(scenario.List())
	default:
		slog.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}

	if err != nil {
		slog.Error("run failed", "mode", *mode, "err", err)
		os.Exit(1)
	}

	slog.Info("adhtc stopped cleanly")
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func economicParams(cfg *config.Config) domain.EconomicParams {
	return domain.EconomicParams{
		CapexPerKW:    cfg.Economics.CapexPerKW,
		Tariff:        cfg.Economics.Tariff,
		OpexRate:      cfg.Economics.OpexRate,
		FixedOpexFrac: cfg.Economics.FixedOpexFrac,
		TaxRate:       cfg.Economics.TaxRate,
		OperatingHrs:  cfg.Economics.OperatingHrs,
		HorizonYears:  cfg.Economics.HorizonYears,
		DiscountRate:  cfg.Economics.DiscountRate,
	}
}

func environmentalParams(cfg *config.Config) domain.EnvironmentalParams {
	return domain.EnvironmentalParams{
		FugitiveFrac: cfg.Environment.FugitiveFrac,
		CH4Density:   cfg.Environment.CH4Density,
		GWPMethane:   cfg.Environment.GWPMethane,
		GridFactor:   cfg.Environment.GridFactor,
	}
}

func optimizerScales(cfg *config.Config) optimizer.Scales {
	return optimizer.Scales{
		NetPowerKW: cfg.Optimizer.ReferenceKW,
		LCOE:       cfg.Optimizer.ReferenceLCOE,
		Capex:      cfg.Optimizer.ReferenceCapex,
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
