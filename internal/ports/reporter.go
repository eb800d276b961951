package ports

import (
	"github.com/grupo7/adhtc/internal/domain"
	"github.com/grupo7/adhtc/internal/optimizer"
	"github.com/grupo7/adhtc/internal/scenario"
)

// Reporter presenta los resultados de cálculo al usuario.
type Reporter interface {
	// PrintScenarios muestra el catálogo de escenarios disponibles.
	PrintScenarios(scenarios []scenario.Scenario)

	// PrintEvaluation muestra el balance completo de un punto de operación.
	PrintEvaluation(perf *domain.PerformanceResult, eco *domain.EconomicResult, env domain.EnvironmentalResult)

	// PrintComparison muestra escenarios lado a lado.
	PrintComparison(rows []scenario.ComparisonRow)

	// PrintOptimization muestra el resumen de una corrida de optimización.
	PrintOptimization(res *optimizer.Result)
}
