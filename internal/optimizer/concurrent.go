package optimizer

// concurrent.go — worker pool para la evaluación paralela de candidatos.
//
// Toda la aleatoriedad vive en la goroutine coordinadora de cada estrategia;
// los workers solo resuelven el modelo, que es puro. Así una misma semilla
// reproduce la corrida exacta con cualquier número de workers.

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/grupo7/adhtc/internal/domain"
)

// evaluateBatch evalúa todos los candidatos en paralelo y devuelve los
// resultados en el mismo orden de entrada.
func (o *Optimizer) evaluateBatch(ctx context.Context, candidates []domain.ParameterVector, req *Request) []*evaluation {
	workers := o.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	type job struct {
		idx    int
		params domain.ParameterVector
	}

	jobCh := make(chan job, len(candidates))
	results := make([]*evaluation, len(candidates))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if ctx.Err() != nil {
					// Placeholder infactible si la corrida fue cancelada.
					results[j.idx] = &evaluation{params: j.params, fitness: math.Inf(-1)}
					continue
				}
				results[j.idx] = o.evaluate(j.params, req)
			}
		}()
	}

	for i, c := range candidates {
		jobCh <- job{idx: i, params: c}
	}
	close(jobCh)
	wg.Wait()

	return results
}
