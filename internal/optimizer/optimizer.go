// Package optimizer busca puntos de operación del sistema AD-HTC que
// maximicen una combinación ponderada de métricas, con tres estrategias:
// algoritmo genético, ascenso por gradiente numérico y frontera de Pareto.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/grupo7/adhtc/internal/domain"
)

// ErrNoFeasibleSolution se devuelve cuando ningún candidato evaluado
// satisface las restricciones y el dominio físico.
var ErrNoFeasibleSolution = errors.New("optimizer: no feasible solution found")

// Metric identifica una métrica optimizable del sistema.
type Metric string

const (
	MetricEfficiency      Metric = "efficiency"
	MetricNetPower        Metric = "net_power"
	MetricSelfSufficiency Metric = "self_sufficiency"
	MetricLCOE            Metric = "lcoe"
	MetricNPV             Metric = "npv"
	MetricCarbonIntensity Metric = "carbon_intensity"
)

var knownMetrics = map[Metric]bool{
	MetricEfficiency:      true,
	MetricNetPower:        true,
	MetricSelfSufficiency: true,
	MetricLCOE:            true,
	MetricNPV:             true,
	MetricCarbonIntensity: true,
}

// Objective es una métrica a optimizar con su peso y dirección.
type Objective struct {
	Metric   Metric  `json:"metric"`
	Weight   float64 `json:"weight"`
	Maximize bool    `json:"maximize"`
}

// Constraint acota una métrica del resultado. Min o Max en nil = sin límite
// por ese lado. Un candidato que viola una restricción es infactible; nunca
// se recorta su métrica para forzarlo dentro.
type Constraint struct {
	Metric Metric   `json:"metric"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// GeneticConfig son los hiperparámetros del algoritmo genético.
type GeneticConfig struct {
	Population    int     `json:"population"`
	Generations   int     `json:"generations"`
	Patience      int     `json:"patience"`
	CrossoverRate float64 `json:"crossover_rate"`
	MutationSigma float64 `json:"mutation_sigma"` // fracción del rango por variable
}

// GradientConfig son los hiperparámetros del ascenso por gradiente.
type GradientConfig struct {
	Step          float64 `json:"step"` // fracción del rango por variable
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
}

// ParetoConfig son los hiperparámetros del muestreo de Pareto.
type ParetoConfig struct {
	Samples int `json:"samples"`
}

// Request describe una corrida de optimización completa.
type Request struct {
	Method      string                  `json:"method"` // genetic | gradient | pareto
	Objectives  []Objective             `json:"objectives"`
	Constraints []Constraint            `json:"constraints,omitempty"`
	Bounds      *domain.Bounds          `json:"bounds,omitempty"` // nil = límites físicos por defecto
	Start       *domain.ParameterVector `json:"start,omitempty"`  // solo gradiente; nil = centro del rango
	Seed        int64                   `json:"seed"`

	Genetic  GeneticConfig  `json:"genetic,omitempty"`
	Gradient GradientConfig `json:"gradient,omitempty"`
	Pareto   ParetoConfig   `json:"pareto,omitempty"`
}

// FrontierPoint es un punto no dominado de la frontera de Pareto.
type FrontierPoint struct {
	Params  domain.ParameterVector `json:"params"`
	Metrics map[Metric]float64     `json:"metrics"`
}

// Result es el resultado completo de una corrida.
type Result struct {
	RunID       string                       `json:"run_id"`
	Method      string                       `json:"method"`
	Seed        int64                        `json:"seed"`
	Best        domain.ParameterVector       `json:"best"`
	Performance *domain.PerformanceResult    `json:"performance"`
	Economics   *domain.EconomicResult       `json:"economics"`
	Environment domain.EnvironmentalResult   `json:"environment"`
	Fitness     float64                      `json:"fitness"`
	History     []float64                    `json:"history"` // mejor fitness por generación/iteración
	Evaluations int                          `json:"evaluations"`
	Elapsed     time.Duration                `json:"elapsed"`
	Frontier    []FrontierPoint              `json:"frontier,omitempty"` // solo pareto
}

// Scales son las escalas de referencia que hacen comparables métricas de
// órdenes de magnitud distintos dentro del fitness agregado.
type Scales struct {
	NetPowerKW float64 // kW típicos de la planta
	LCOE       float64 // $/kWh típico
	Capex      float64 // $ típicos, normaliza el VAN
}

// DefaultScales devuelve las escalas de normalización por defecto.
func DefaultScales() Scales {
	return Scales{NetPowerKW: 100, LCOE: 0.05, Capex: 100000}
}

// Optimizer ejecuta corridas de optimización sobre el modelo del sistema.
type Optimizer struct {
	econ    domain.EconomicParams
	env     domain.EnvironmentalParams
	scales  Scales
	workers int
}

// New crea un Optimizer. workers <= 0 usa un worker por CPU.
func New(econ domain.EconomicParams, env domain.EnvironmentalParams, scales Scales, workers int) *Optimizer {
	if scales.NetPowerKW <= 0 {
		scales.NetPowerKW = DefaultScales().NetPowerKW
	}
	if scales.LCOE <= 0 {
		scales.LCOE = DefaultScales().LCOE
	}
	if scales.Capex <= 0 {
		scales.Capex = DefaultScales().Capex
	}
	return &Optimizer{econ: econ, env: env, scales: scales, workers: workers}
}

// Validate comprueba la coherencia del request antes de correr nada.
func (r *Request) Validate() error {
	switch r.Method {
	case "genetic", "gradient", "pareto":
	default:
		return &domain.ValidationError{Field: "method", Reason: fmt.Sprintf("unknown method %q", r.Method)}
	}

	if len(r.Objectives) == 0 {
		return &domain.ValidationError{Field: "objectives", Reason: "at least one objective required"}
	}
	if r.Method == "pareto" && len(r.Objectives) < 2 {
		return &domain.ValidationError{Field: "objectives", Reason: "pareto needs at least two objectives"}
	}
	for _, obj := range r.Objectives {
		if !knownMetrics[obj.Metric] {
			return &domain.ValidationError{Field: "objectives", Reason: fmt.Sprintf("unknown metric %q", obj.Metric)}
		}
		if obj.Weight <= 0 {
			return &domain.ValidationError{Field: "objectives", Reason: fmt.Sprintf("weight of %q must be positive", obj.Metric)}
		}
	}
	for _, c := range r.Constraints {
		if !knownMetrics[c.Metric] {
			return &domain.ValidationError{Field: "constraints", Reason: fmt.Sprintf("unknown metric %q", c.Metric)}
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			return &domain.ValidationError{Field: "constraints", Reason: fmt.Sprintf("%q: min above max", c.Metric)}
		}
	}
	if r.Bounds != nil {
		if err := r.Bounds.Validate(); err != nil {
			return err
		}
	}
	if r.Start != nil {
		if err := r.Start.Validate(r.bounds()); err != nil {
			return err
		}
	}
	return nil
}

// bounds devuelve los límites efectivos del request.
func (r *Request) bounds() domain.Bounds {
	if r.Bounds != nil {
		return *r.Bounds
	}
	return domain.DefaultBounds()
}

// Run ejecuta la corrida y devuelve el mejor punto encontrado.
func (o *Optimizer) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:  uuid.NewString(),
		Method: req.Method,
		Seed:   req.Seed,
	}

	start := time.Now()
	var err error
	switch req.Method {
	case "genetic":
		err = o.runGenetic(ctx, req, res)
	case "gradient":
		err = o.runGradient(ctx, req, res)
	case "pareto":
		err = o.runPareto(ctx, req, res)
	}
	res.Elapsed = time.Since(start)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// evaluation es un candidato evaluado con sus métricas y fitness.
type evaluation struct {
	params   domain.ParameterVector
	perf     *domain.PerformanceResult
	eco      *domain.EconomicResult
	envr     domain.EnvironmentalResult
	metrics  map[Metric]float64
	feasible bool
	fitness  float64
}

// evaluate resuelve el modelo completo para un candidato y calcula su
// fitness. Un DomainError marca el candidato infactible sin abortar la
// corrida; la no convergencia de la TIR no invalida las demás métricas.
func (o *Optimizer) evaluate(p domain.ParameterVector, req *Request) *evaluation {
	ev := &evaluation{params: p, fitness: math.Inf(-1)}

	perf, err := domain.Evaluate(p)
	if err != nil {
		return ev
	}

	eco, err := domain.Analyze(perf.NetPower, o.econ)
	if err != nil && eco == nil {
		return ev
	}

	envr := domain.Assess(perf, eco.AnnualGeneration, o.env)

	ev.perf = perf
	ev.eco = eco
	ev.envr = envr
	ev.metrics = map[Metric]float64{
		MetricEfficiency:      perf.Efficiency,
		MetricNetPower:        perf.NetPower,
		MetricSelfSufficiency: perf.SelfSufficiency,
		MetricLCOE:            eco.LCOE,
		MetricNPV:             eco.NPV,
		MetricCarbonIntensity: envr.CarbonIntensity,
	}

	for _, c := range req.Constraints {
		v := ev.metrics[c.Metric]
		if c.Min != nil && v < *c.Min {
			return ev
		}
		if c.Max != nil && v > *c.Max {
			return ev
		}
	}

	ev.feasible = true
	ev.fitness = o.score(ev.metrics, req.Objectives)
	return ev
}

// score agrega las métricas normalizadas por sus escalas de referencia.
func (o *Optimizer) score(metrics map[Metric]float64, objectives []Objective) float64 {
	total := 0.0
	for _, obj := range objectives {
		norm := metrics[obj.Metric] / o.scale(obj.Metric)
		if obj.Maximize {
			total += obj.Weight * norm
		} else {
			total -= obj.Weight * norm
		}
	}
	return total
}

// scale devuelve la escala de referencia de una métrica.
func (o *Optimizer) scale(m Metric) float64 {
	switch m {
	case MetricNetPower:
		return o.scales.NetPowerKW
	case MetricLCOE:
		return o.scales.LCOE
	case MetricNPV:
		return o.scales.Capex
	case MetricCarbonIntensity:
		// Intensidad de la red desplazada, en g/kWh.
		return o.env.GridFactor * 1000
	default:
		// efficiency y self_sufficiency ya son ratios de orden 1.
		return 1.0
	}
}

// finish rellena los campos del resultado con la mejor evaluación.
func (res *Result) finish(best *evaluation, evaluations int, history []float64) {
	res.Best = best.params
	res.Performance = best.perf
	res.Economics = best.eco
	res.Environment = best.envr
	res.Fitness = best.fitness
	res.Evaluations = evaluations
	res.History = history
}
