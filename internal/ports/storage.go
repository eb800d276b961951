package ports

import (
	"context"
	"time"

	"github.com/grupo7/adhtc/internal/domain"
)

// EvaluationRecord es la fila persistida de una evaluación puntual.
type EvaluationRecord struct {
	ID              string
	CreatedAt       time.Time
	Scenario        string // vacío si los parámetros fueron ad hoc
	Params          domain.ParameterVector
	NetPower        float64
	Efficiency      float64
	SelfSufficiency float64
	NPV             float64
	LCOE            float64
	CarbonIntensity float64
}

// RunRecord es la fila persistida de una corrida de optimización.
type RunRecord struct {
	ID          string
	CreatedAt   time.Time
	Method      string
	Seed        int64
	Evaluations int
	Fitness     float64
	NetPower    float64
	Efficiency  float64
	Elapsed     time.Duration
}

// Storage persiste el histórico de evaluaciones y corridas.
type Storage interface {
	// SaveEvaluation persiste una evaluación puntual.
	SaveEvaluation(ctx context.Context, rec EvaluationRecord) error

	// SaveRun persiste el resumen de una corrida de optimización.
	SaveRun(ctx context.Context, rec RunRecord) error

	// RecentRuns devuelve las últimas corridas, la más reciente primero.
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
