package optimizer

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/grupo7/adhtc/internal/domain"
)

// runPareto muestrea el espacio de decisión y devuelve el conjunto no
// dominado respecto a los objetivos del request. El punto preferido (Best)
// es el mejor del frente en el primer objetivo.
func (o *Optimizer) runPareto(ctx context.Context, req Request, res *Result) error {
	cfg := req.Pareto
	if cfg.Samples <= 0 {
		cfg.Samples = 500
	}

	rng := rand.New(rand.NewSource(req.Seed))
	b := req.bounds()
	span := b.Span()
	lo := b.Min.Array()

	samples := make([]domain.ParameterVector, cfg.Samples)
	for i := range samples {
		samples[i] = randomVector(rng, lo, span)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("optimizer.runPareto: %w", ctx.Err())
	default:
	}

	evals := o.evaluateBatch(ctx, samples, &req)

	feasible := evals[:0]
	for _, ev := range evals {
		if ev.feasible {
			feasible = append(feasible, ev)
		}
	}
	if len(feasible) == 0 {
		return ErrNoFeasibleSolution
	}

	frontier := nonDominated(feasible, req.Objectives)

	// Punto preferido: el mejor del frente en el primer objetivo.
	first := req.Objectives[0]
	best := frontier[0]
	for _, ev := range frontier[1:] {
		if betterOn(ev, best, first) {
			best = ev
		}
	}

	res.Frontier = make([]FrontierPoint, len(frontier))
	for i, ev := range frontier {
		m := make(map[Metric]float64, len(req.Objectives))
		for _, obj := range req.Objectives {
			m[obj.Metric] = ev.metrics[obj.Metric]
		}
		res.Frontier[i] = FrontierPoint{Params: ev.params, Metrics: m}
	}

	res.finish(best, len(evals), []float64{best.fitness})
	return nil
}

// nonDominated filtra el conjunto no dominado con la comparación directa
// O(n²) de todos los pares.
func nonDominated(evals []*evaluation, objectives []Objective) []*evaluation {
	var out []*evaluation
	for i, a := range evals {
		dominated := false
		for j, b := range evals {
			if i == j {
				continue
			}
			if dominates(b, a, objectives) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, a)
		}
	}
	return out
}

// dominates reporta si a es al menos tan bueno como b en todos los objetivos
// y estrictamente mejor en alguno.
func dominates(a, b *evaluation, objectives []Objective) bool {
	strictly := false
	for _, obj := range objectives {
		av, bv := oriented(a, obj), oriented(b, obj)
		if av < bv {
			return false
		}
		if av > bv {
			strictly = true
		}
	}
	return strictly
}

// oriented devuelve la métrica con signo tal que mayor siempre es mejor.
func oriented(ev *evaluation, obj Objective) float64 {
	v := ev.metrics[obj.Metric]
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	if !obj.Maximize {
		return -v
	}
	return v
}

// betterOn reporta si a supera a b en el objetivo dado.
func betterOn(a, b *evaluation, obj Objective) bool {
	return oriented(a, obj) > oriented(b, obj)
}
