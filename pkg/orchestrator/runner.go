// pkg/orchestrator/runner.go
package orchestrator

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/reconmux/reconmux/pkg/schema"
)

// DefaultMaxConcurrent bounds batch parallelism when the caller does not
// configure one.
const DefaultMaxConcurrent = 5

// Runner executes many orchestrations side by side, bounded by a semaphore
// so a batch of N targets does not overwhelm the network or the process
// table. Each orchestration produces its own independent result; a failure
// in one never aborts the batch.
type Runner struct {
	maxConcurrent int
}

// NewRunner builds a runner with the given concurrency bound. Values below
// one fall back to DefaultMaxConcurrent.
func NewRunner(maxConcurrent int) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Runner{maxConcurrent: maxConcurrent}
}

// RunAll runs every orchestration and returns results index-aligned with
// the input. Exactly one result is returned per orchestration, including
// when the context is cancelled mid-batch (remaining runs fail fast inside
// Run with a context error).
func (r *Runner) RunAll(ctx context.Context, orchs []*Orchestrator) []*schema.ReconResult {
	results := make([]*schema.ReconResult, len(orchs))
	sem := make(chan struct{}, r.maxConcurrent)
	var wg sync.WaitGroup

	log.Debug().Int("orchestrations", len(orchs)).Int("max_concurrent", r.maxConcurrent).
		Msg("starting batch")

	for i, o := range orchs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, o *Orchestrator) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = o.Run(ctx)
		}(i, o)
	}

	wg.Wait()
	return results
}

// RunTargets builds one orchestration per target via the factory and runs
// them all. Useful for executing one adapter type over many targets.
func (r *Runner) RunTargets(ctx context.Context, targets []string, build func(target string) *Orchestrator) []*schema.ReconResult {
	orchs := make([]*Orchestrator, len(targets))
	for i, t := range targets {
		orchs[i] = build(t)
	}
	return r.RunAll(ctx, orchs)
}
