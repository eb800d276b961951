package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grupo7/adhtc/config"
	"github.com/grupo7/adhtc/internal/optimizer"
	"github.com/grupo7/adhtc/internal/ports"
)

// minimizedByDefault marca las métricas donde menos es mejor.
var minimizedByDefault = map[optimizer.Metric]bool{
	optimizer.MetricLCOE:            true,
	optimizer.MetricCarbonIntensity: true,
}

// runOptimize lanza una corrida de optimización con los defaults de la
// configuración, imprime el resultado y guarda el resumen en el histórico.
func runOptimize(ctx context.Context, cfg *config.Config, store ports.Storage, reporter ports.Reporter, method string, metrics []string, seed int64) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	objectives := make([]optimizer.Objective, 0, len(metrics))
	for _, m := range metrics {
		metric := optimizer.Metric(m)
		objectives = append(objectives, optimizer.Objective{
			Metric:   metric,
			Weight:   1,
			Maximize: !minimizedByDefault[metric],
		})
	}

	req := optimizer.Request{
		Method:     method,
		Objectives: objectives,
		Seed:       seed,
		Genetic: optimizer.GeneticConfig{
			Population:    cfg.Optimizer.Population,
			Generations:   cfg.Optimizer.Generations,
			Patience:      cfg.Optimizer.Patience,
			CrossoverRate: cfg.Optimizer.CrossoverRate,
			MutationSigma: cfg.Optimizer.MutationSigma,
		},
		Gradient: optimizer.GradientConfig{
			Step:          cfg.Optimizer.GradientStep,
			Tolerance:     cfg.Optimizer.GradientTol,
			MaxIterations: cfg.Optimizer.GradientIters,
		},
		Pareto: optimizer.ParetoConfig{
			Samples: cfg.Optimizer.ParetoSamples,
		},
	}

	opt := optimizer.New(economicParams(cfg), environmentalParams(cfg), optimizerScales(cfg), cfg.Optimizer.Workers)

	slog.Info("optimization starting", "method", method, "seed", seed, "objectives", metrics)

	res, err := opt.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("main.runOptimize: %w", err)
	}

	reporter.PrintOptimization(res)

	rec := ports.RunRecord{
		ID:          res.RunID,
		CreatedAt:   time.Now().UTC(),
		Method:      res.Method,
		Seed:        res.Seed,
		Evaluations: res.Evaluations,
		Fitness:     res.Fitness,
		NetPower:    res.Performance.NetPower,
		Efficiency:  res.Performance.Efficiency,
		Elapsed:     res.Elapsed,
	}
	if err := store.SaveRun(ctx, rec); err != nil {
		slog.Warn("failed to persist run", "err", err, "run_id", res.RunID)
	}

	slog.Info("optimization finished",
		"run_id", res.RunID,
		"evaluations", res.Evaluations,
		"fitness", res.Fitness,
		"elapsed", res.Elapsed,
	)

	return nil
}
