package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/grupo7/adhtc/config"
	"github.com/grupo7/adhtc/internal/adapters/storage"
	"github.com/grupo7/adhtc/internal/domain"
	"github.com/grupo7/adhtc/internal/ports"
	"github.com/grupo7/adhtc/internal/scenario"
)

// runEvaluate calcula un escenario del catálogo, imprime el reporte completo
// y persiste la evaluación en el histórico.
func runEvaluate(ctx context.Context, cfg *config.Config, store ports.Storage, reporter ports.Reporter, scenarioID string) error {
	sc, err := scenario.Get(scenarioID)
	if err != nil {
		return fmt.Errorf("main.runEvaluate: %w", err)
	}

	perf, err := domain.Evaluate(sc.Params)
	if err != nil {
		return fmt.Errorf("main.runEvaluate: evaluate %q: %w", scenarioID, err)
	}

	eco, err := domain.Analyze(perf.NetPower, economicParams(cfg))
	if err != nil {
		if eco == nil {
			return fmt.Errorf("main.runEvaluate: economics: %w", err)
		}
		slog.Warn("IRR did not converge", "scenario", scenarioID, "err", err)
	}

	env := domain.Assess(perf, eco.AnnualGeneration, environmentalParams(cfg))

	reporter.PrintEvaluation(perf, eco, env)

	rec := storage.RecordEvaluation(uuid.NewString(), scenarioID, perf, eco, env)
	if err := store.SaveEvaluation(ctx, rec); err != nil {
		slog.Warn("failed to persist evaluation", "err", err, "scenario", scenarioID)
	}

	return nil
}

// runCompare evalúa varios escenarios y los imprime lado a lado.
func runCompare(cfg *config.Config, reporter ports.Reporter, ids []string) error {
	rows, err := scenario.Compare(ids, economicParams(cfg), environmentalParams(cfg))
	if err != nil {
		return fmt.Errorf("main.runCompare: %w", err)
	}
	reporter.PrintComparison(rows)
	return nil
}
