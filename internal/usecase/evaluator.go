package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"ArbLens/internal/domain/models"
	"ArbLens/internal/domain/service"
	"ArbLens/pkg/logger"
	"ArbLens/pkg/metrics"
)

// BatchItem is one entity to evaluate.
type BatchItem struct {
	Entity string
	Inputs models.Inputs
}

// EntityResult pairs an entity with its evaluation output.
type EntityResult struct {
	Entity string             `json:"entity"`
	Result models.ModelResult `json:"result"`
}

// BatchResult carries successes and failures side by side: one entity
// failing never aborts the rest of the batch.
type BatchResult struct {
	Model    string               `json:"model"`
	Results  []EntityResult       `json:"results"`
	Failures []models.EntityError `json:"failures,omitempty"`
}

// Evaluator fans batch evaluations out across workers and reduces the
// results into deterministic order. Models are pure so no locking is needed
// beyond result collection.
type Evaluator struct {
	logger  *logger.Logger
	metrics *metrics.Recorder
	workers int
}

func NewEvaluator(l *logger.Logger, rec *metrics.Recorder, workers int) *Evaluator {
	if workers < 1 {
		workers = 4
	}
	return &Evaluator{logger: l, metrics: rec, workers: workers}
}

type indexed struct {
	idx    int
	result models.ModelResult
	err    error
}

// Run evaluates every item under the shared scenario. Cancellation is
// honored at batch granularity: items not yet started when ctx is done are
// reported as failures with the context error.
func (e *Evaluator) Run(ctx context.Context, m service.Model, items []BatchItem, sc models.Scenario) BatchResult {
	jobs := make(chan int)
	results := make(chan indexed, len(items))

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				start := time.Now()
				res, err := m.Evaluate(items[idx].Inputs, sc)
				if e.metrics != nil {
					e.metrics.ObserveEvaluation(m.Name(), string(res.Signal), time.Since(start))
				}
				results <- indexed{idx: idx, result: res, err: err}
			}
		}()
	}

	dispatched := make([]bool, len(items))
dispatch:
	for i := range items {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
			dispatched[i] = true
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := BatchResult{Model: m.Name()}
	collected := make(map[int]indexed, len(items))
	for r := range results {
		collected[r.idx] = r
	}
	for i, item := range items {
		r, ok := collected[i]
		switch {
		case !ok || !dispatched[i]:
			out.Failures = append(out.Failures, models.EntityError{Entity: item.Entity, Err: ctx.Err()})
		case r.err != nil:
			if e.logger != nil {
				e.logger.Warn("entity evaluation failed",
					logger.String("model", m.Name()),
					logger.String("entity", item.Entity),
					logger.Error(r.err))
			}
			if e.metrics != nil {
				e.metrics.RecordSkippedEntity(m.Name())
			}
			out.Failures = append(out.Failures, models.EntityError{Entity: item.Entity, Err: r.err})
		default:
			out.Results = append(out.Results, EntityResult{Entity: item.Entity, Result: r.result})
		}
	}

	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].Entity < out.Results[j].Entity
	})
	return out
}
