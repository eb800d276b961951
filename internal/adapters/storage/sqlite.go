package storage

// sqlite.go — histórico de cálculos en SQLite puro Go (sin CGo).
//
// Dos tablas:
//   - `evaluations`: una fila por evaluación puntual, con el vector de
//     parámetros desplegado en columnas para poder consultarlo con SQL.
//   - `optimization_runs`: resumen por corrida (método, semilla, fitness).
// Prune automático al arrancar según la retención configurada.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/grupo7/adhtc/internal/domain"
	"github.com/grupo7/adhtc/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por evaluación puntual
CREATE TABLE IF NOT EXISTS evaluations (
    id               TEXT PRIMARY KEY,
    created_at       DATETIME NOT NULL,
    scenario         TEXT     NOT NULL DEFAULT '',
    ambient_temp     REAL     NOT NULL,
    pressure_ratio   REAL     NOT NULL,
    max_turbine_temp REAL     NOT NULL,
    compressor_eff   REAL     NOT NULL,
    turbine_eff      REAL     NOT NULL,
    ad_feedstock     REAL     NOT NULL,
    ad_retention     REAL     NOT NULL,
    htc_biomass      REAL     NOT NULL,
    htc_temperature  REAL     NOT NULL,
    net_power        REAL     NOT NULL,
    efficiency       REAL     NOT NULL,
    self_sufficiency REAL     NOT NULL,
    npv              REAL     NOT NULL,
    lcoe             REAL     NOT NULL,
    carbon_intensity REAL     NOT NULL
);

-- Resumen por corrida de optimización
CREATE TABLE IF NOT EXISTS optimization_runs (
    id          TEXT PRIMARY KEY,
    created_at  DATETIME NOT NULL,
    method      TEXT     NOT NULL,
    seed        INTEGER  NOT NULL,
    evaluations INTEGER  NOT NULL,
    fitness     REAL     NOT NULL,
    net_power   REAL     NOT NULL,
    efficiency  REAL     NOT NULL,
    elapsed_ms  INTEGER  NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_eval_at ON evaluations(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_at ON optimization_runs(created_at DESC);
`

// SQLiteStorage implementa ports.Storage usando SQLite.
type SQLiteStorage struct {
	db        *sql.DB
	retention time.Duration
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y elimina el histórico más antiguo que la retención.
func NewSQLiteStorage(path string, retention time.Duration) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db, retention: retention}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveEvaluation persiste una evaluación puntual.
func (s *SQLiteStorage) SaveEvaluation(ctx context.Context, rec ports.EvaluationRecord) error {
	p := rec.Params
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations
			(id, created_at, scenario,
			 ambient_temp, pressure_ratio, max_turbine_temp,
			 compressor_eff, turbine_eff,
			 ad_feedstock, ad_retention, htc_biomass, htc_temperature,
			 net_power, efficiency, self_sufficiency, npv, lcoe, carbon_intensity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UTC(), rec.Scenario,
		p.AmbientTemp, p.PressureRatio, p.MaxTurbineTemp,
		p.CompressorEff, p.TurbineEff,
		p.ADFeedstockRate, p.ADRetentionTime, p.HTCBiomassRate, p.HTCTemperature,
		rec.NetPower, rec.Efficiency, rec.SelfSufficiency,
		rec.NPV, rec.LCOE, rec.CarbonIntensity,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveEvaluation: insert %s: %w", rec.ID, err)
	}
	return nil
}

// SaveRun persiste el resumen de una corrida de optimización.
func (s *SQLiteStorage) SaveRun(ctx context.Context, rec ports.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO optimization_runs
			(id, created_at, method, seed, evaluations, fitness, net_power, efficiency, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UTC(), rec.Method, rec.Seed,
		rec.Evaluations, rec.Fitness, rec.NetPower, rec.Efficiency,
		rec.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: insert %s: %w", rec.ID, err)
	}
	return nil
}

// RecentRuns devuelve las últimas corridas, la más reciente primero.
func (s *SQLiteStorage) RecentRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, method, seed, evaluations, fitness, net_power, efficiency, elapsed_ms
		FROM optimization_runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRuns: query: %w", err)
	}
	defer rows.Close()

	var out []ports.RunRecord
	for rows.Next() {
		var rec ports.RunRecord
		var created string
		var elapsedMs int64
		if err := rows.Scan(
			&rec.ID, &created, &rec.Method, &rec.Seed,
			&rec.Evaluations, &rec.Fitness, &rec.NetPower, &rec.Efficiency,
			&elapsedMs,
		); err != nil {
			return nil, fmt.Errorf("storage.RecentRuns: scan row: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
		rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina el histórico más antiguo que la retención configurada.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	if s.retention <= 0 {
		return
	}
	cutoff := time.Now().UTC().Add(-s.retention)
	s.db.ExecContext(ctx, `DELETE FROM evaluations WHERE created_at < ?`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM optimization_runs WHERE created_at < ?`, cutoff)
}

// RecordEvaluation arma un EvaluationRecord desde los resultados del modelo.
func RecordEvaluation(id, scenarioID string, perf *domain.PerformanceResult, eco *domain.EconomicResult, env domain.EnvironmentalResult) ports.EvaluationRecord {
	return ports.EvaluationRecord{
		ID:              id,
		CreatedAt:       time.Now().UTC(),
		Scenario:        scenarioID,
		Params:          perf.Params,
		NetPower:        perf.NetPower,
		Efficiency:      perf.Efficiency,
		SelfSufficiency: perf.SelfSufficiency,
		NPV:             eco.NPV,
		LCOE:            eco.LCOE,
		CarbonIntensity: env.CarbonIntensity,
	}
}
