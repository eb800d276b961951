package optimizer

import (
	"context"
	"fmt"
	"math"

	"github.com/grupo7/adhtc/internal/domain"
)

// runGradient asciende por el gradiente numérico del fitness. El gradiente
// se estima con diferencias centrales y el paso se reduce a la mitad hasta
// encontrar mejora (backtracking). Termina por tolerancia, por agotamiento
// del paso o por tope de iteraciones.
func (o *Optimizer) runGradient(ctx context.Context, req Request, res *Result) error {
	cfg := req.Gradient
	if cfg.Step <= 0 {
		cfg.Step = 0.05
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-6
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 200
	}

	b := req.bounds()
	span := b.Span()

	start := b.Midpoint()
	if req.Start != nil {
		start = *req.Start
	}

	evaluations := 0
	current := o.evaluate(start, &req)
	evaluations++
	if math.IsInf(current.fitness, -1) {
		return ErrNoFeasibleSolution
	}

	history := make([]float64, 0, cfg.MaxIterations)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("optimizer.runGradient: iteration %d: %w", iter, ctx.Err())
		default:
		}

		grad, n := o.numericalGradient(ctx, current, span, &req)
		evaluations += n

		norm := 0.0
		for i := 0; i < domain.NumParams; i++ {
			norm += grad[i] * grad[i]
		}
		norm = math.Sqrt(norm)
		if norm < cfg.Tolerance {
			break
		}

		// Backtracking: paso inicial proporcional al rango, hacia el
		// gradiente normalizado; se reduce a la mitad hasta mejorar.
		step := cfg.Step
		var next *evaluation
		for step > 1e-7 {
			cand := current.params.Array()
			for i := 0; i < domain.NumParams; i++ {
				cand[i] += step * span[i] * grad[i] / norm
			}
			trial := o.evaluate(domain.FromArray(cand).Clamp(b), &req)
			evaluations++
			if trial.fitness > current.fitness {
				next = trial
				break
			}
			step /= 2
		}

		if next == nil {
			break // el paso colapsó sin mejora: óptimo local
		}

		gain := next.fitness - current.fitness
		current = next
		history = append(history, current.fitness)
		if gain < cfg.Tolerance {
			break
		}
	}

	res.finish(current, evaluations, history)
	return nil
}

// numericalGradient estima ∂fitness/∂x por diferencias centrales, con el
// paso de cada variable escalado a su rango. Los 2N puntos se evalúan en
// paralelo en un solo batch.
func (o *Optimizer) numericalGradient(ctx context.Context, at *evaluation, span [domain.NumParams]float64, req *Request) ([domain.NumParams]float64, int) {
	const h = 1e-4

	base := at.params.Array()
	probes := make([]domain.ParameterVector, 0, 2*domain.NumParams)
	for i := 0; i < domain.NumParams; i++ {
		up, down := base, base
		up[i] += h * span[i]
		down[i] -= h * span[i]
		probes = append(probes, domain.FromArray(up), domain.FromArray(down))
	}

	evals := o.evaluateBatch(ctx, probes, req)

	var grad [domain.NumParams]float64
	for i := 0; i < domain.NumParams; i++ {
		fUp := evals[2*i].fitness
		fDown := evals[2*i+1].fitness

		// Un lado infactible: usar diferencia unilateral hacia el lado válido.
		switch {
		case math.IsInf(fUp, -1) && math.IsInf(fDown, -1):
			grad[i] = 0
		case math.IsInf(fUp, -1):
			grad[i] = (at.fitness - fDown) / (h * span[i])
		case math.IsInf(fDown, -1):
			grad[i] = (fUp - at.fitness) / (h * span[i])
		default:
			grad[i] = (fUp - fDown) / (2 * h * span[i])
		}
	}
	return grad, len(probes)
}
