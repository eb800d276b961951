package optimizer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/grupo7/adhtc/internal/domain"
)

// Probabilidad de mutar cada gen de un hijo.
const mutationProb = 0.15

// runGenetic ejecuta el algoritmo genético: elitismo, selección por torneo
// de 3, cruce por variable y mutación gaussiana recortada a los límites.
func (o *Optimizer) runGenetic(ctx context.Context, req Request, res *Result) error {
	cfg := req.Genetic
	if cfg.Population <= 0 {
		cfg.Population = 40
	}
	if cfg.Generations <= 0 {
		cfg.Generations = 60
	}
	if cfg.Patience <= 0 {
		cfg.Patience = 15
	}
	if cfg.CrossoverRate <= 0 {
		cfg.CrossoverRate = 0.8
	}
	if cfg.MutationSigma <= 0 {
		cfg.MutationSigma = 0.1
	}

	rng := rand.New(rand.NewSource(req.Seed))
	b := req.bounds()
	span := b.Span()
	lo := b.Min.Array()

	pop := make([]domain.ParameterVector, cfg.Population)
	for i := range pop {
		pop[i] = randomVector(rng, lo, span)
	}

	var (
		best        *evaluation
		history     = make([]float64, 0, cfg.Generations)
		evaluations int
		stall       int
	)

	for gen := 0; gen < cfg.Generations; gen++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("optimizer.runGenetic: generation %d: %w", gen, ctx.Err())
		default:
		}

		evals := o.evaluateBatch(ctx, pop, &req)
		evaluations += len(evals)

		// Orden estable por fitness: los empates conservan el orden de la
		// población, así la corrida es reproducible.
		sort.SliceStable(evals, func(i, j int) bool { return evals[i].fitness > evals[j].fitness })

		improved := best == nil || evals[0].fitness > best.fitness
		if improved && !math.IsInf(evals[0].fitness, -1) {
			best = evals[0]
			stall = 0
		} else {
			stall++
		}

		top := math.Inf(-1)
		if best != nil {
			top = best.fitness
		}
		history = append(history, top)

		if stall >= cfg.Patience {
			break
		}
		if gen == cfg.Generations-1 {
			break
		}

		pop = nextGeneration(rng, evals, b, span, cfg)
	}

	if best == nil || math.IsInf(best.fitness, -1) {
		return ErrNoFeasibleSolution
	}

	res.finish(best, evaluations, history)
	return nil
}

// nextGeneration construye la población siguiente: los dos mejores pasan
// intactos, el resto nace de torneo + cruce + mutación.
func nextGeneration(rng *rand.Rand, evals []*evaluation, b domain.Bounds, span [domain.NumParams]float64, cfg GeneticConfig) []domain.ParameterVector {
	next := make([]domain.ParameterVector, 0, cfg.Population)

	elite := 2
	if elite > len(evals) {
		elite = len(evals)
	}
	for i := 0; i < elite; i++ {
		next = append(next, evals[i].params)
	}

	for len(next) < cfg.Population {
		a := tournament(rng, evals)
		c := tournament(rng, evals)
		child := crossover(rng, a.params, c.params, cfg.CrossoverRate)
		child = mutate(rng, child, span, cfg.MutationSigma)
		next = append(next, child.Clamp(b))
	}
	return next
}

// tournament elige al mejor de tres candidatos al azar.
func tournament(rng *rand.Rand, evals []*evaluation) *evaluation {
	best := evals[rng.Intn(len(evals))]
	for i := 0; i < 2; i++ {
		c := evals[rng.Intn(len(evals))]
		if c.fitness > best.fitness {
			best = c
		}
	}
	return best
}

// crossover mezcla dos padres variable a variable.
func crossover(rng *rand.Rand, a, b domain.ParameterVector, rate float64) domain.ParameterVector {
	av, bv := a.Array(), b.Array()
	var child [domain.NumParams]float64
	for i := 0; i < domain.NumParams; i++ {
		if rng.Float64() < rate {
			child[i] = bv[i]
		} else {
			child[i] = av[i]
		}
	}
	return domain.FromArray(child)
}

// mutate aplica ruido gaussiano proporcional al rango de cada variable.
func mutate(rng *rand.Rand, p domain.ParameterVector, span [domain.NumParams]float64, sigma float64) domain.ParameterVector {
	v := p.Array()
	for i := 0; i < domain.NumParams; i++ {
		if rng.Float64() < mutationProb {
			v[i] += rng.NormFloat64() * sigma * span[i]
		}
	}
	return domain.FromArray(v)
}

// randomVector muestrea un punto uniforme dentro de los límites.
func randomVector(rng *rand.Rand, lo, span [domain.NumParams]float64) domain.ParameterVector {
	var v [domain.NumParams]float64
	for i := 0; i < domain.NumParams; i++ {
		v[i] = lo[i] + rng.Float64()*span[i]
	}
	return domain.FromArray(v)
}
