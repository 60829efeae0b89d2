// pkg/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reconmux/reconmux/pkg/metrics"
	"github.com/reconmux/reconmux/pkg/ratelimit"
	"github.com/reconmux/reconmux/pkg/schema"
	"github.com/reconmux/reconmux/pkg/target"
)

// Options configures one orchestration.
type Options struct {
	// ProjectID and TaskID are stamped onto the result for callers that
	// correlate scans with persisted projects/tasks.
	ProjectID string
	TaskID    string

	// Timeout bounds the whole run (rate-limit wait plus execution).
	// Zero means no per-adapter timeout. On expiry the in-flight process
	// or request is terminated via context cancellation and the run
	// still returns a well-formed failed result.
	Timeout time.Duration

	// Limits is the shared per-tool bucket registry. Nil disables
	// admission control.
	Limits *ratelimit.Registry

	// Metrics receives the finished result, when set.
	Metrics *metrics.Collector
}

// Orchestrator wraps one tool adapter invocation against one target.
type Orchestrator struct {
	adapter Adapter
	target  string
	opts    Options
	logger  zerolog.Logger
}

// New builds an orchestrator for one adapter/target pair. The target is not
// validated here; Run validates it so that a bad target still produces a
// failed result instead of an error.
func New(adapter Adapter, rawTarget string, opts Options) *Orchestrator {
	return &Orchestrator{
		adapter: adapter,
		target:  rawTarget,
		opts:    opts,
		logger: log.With().
			Str("component", "orchestrator").
			Str("tool", adapter.ToolName()).
			Str("target", rawTarget).
			Logger(),
	}
}

// Run executes the full lifecycle: validate, execute, normalize, finalize.
//
// It always returns a well-formed ReconResult and never panics, regardless
// of what the adapter does. Stages are strictly sequential; a failure in an
// earlier stage skips execution but not metadata stamping or finalize.
func (o *Orchestrator) Run(ctx context.Context) *schema.ReconResult {
	toolName := o.adapter.ToolName()
	startedAt := time.Now()

	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	o.logger.Info().Str("project_id", o.opts.ProjectID).Str("task_id", o.opts.TaskID).Msg("starting scan")

	// Stage 1: validate target and prerequisites.
	validated, err := target.Validate(o.target)
	if err == nil {
		err = o.preRun(ctx)
	}
	if err != nil {
		o.logger.Error().Err(err).Msg("pre-run validation failed")
		result := schema.NewResult(toolName, o.target)
		o.fail(result, err)
		o.stamp(result, startedAt)
		o.finish(ctx, result)
		return result
	}

	// Stage 2: execute, throttled by the shared per-tool bucket.
	var raw interface{}
	var execErr error
	if o.opts.Limits != nil {
		execErr = o.opts.Limits.Get(toolName).Acquire(ctx, 1)
	}
	if execErr == nil {
		raw, execErr = o.execute(ctx)
	}
	if execErr != nil {
		o.logger.Error().Err(execErr).Msg("execution failed")
		execErr = NewExecutionError(toolName, execErr)
	}

	// Stage 3: normalize, even after a failed execution (raw == nil).
	result, normErr := o.normalize(raw)
	if normErr != nil {
		o.logger.Error().Err(normErr).Msg("normalization failed, degrading to empty result")
		result = schema.NewResult(toolName, validated)
	}

	if execErr != nil {
		o.fail(result, execErr)
	} else if normErr != nil {
		o.fail(result, fmt.Errorf("%w: %v", ErrNormalization, normErr))
	}

	// Stage 4: stamp execution metadata unconditionally.
	result.ToolName = toolName
	result.Target = validated
	o.stamp(result, startedAt)

	// Stage 5: finalize hook, metrics, summary log.
	o.finish(ctx, result)
	return result
}

// preRun performs the binary presence check and the adapter's optional
// PreRun hook. A panicking hook is treated as a failed check.
func (o *Orchestrator) preRun(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pre-run panic: %v", ErrPrerequisite, r)
		}
	}()

	if bc, ok := o.adapter.(BinaryChecker); ok {
		if bin := bc.Binary(); bin != "" {
			if _, lookErr := exec.LookPath(bin); lookErr != nil {
				return fmt.Errorf("%w: binary %q not found on PATH", ErrPrerequisite, bin)
			}
		}
	}
	if pr, ok := o.adapter.(PreRunner); ok {
		if hookErr := pr.PreRun(ctx); hookErr != nil {
			return fmt.Errorf("%w: %v", ErrPrerequisite, hookErr)
		}
	}
	return nil
}

// execute calls the adapter's Execute with panic capture.
func (o *Orchestrator) execute(ctx context.Context) (raw interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw = nil
			err = fmt.Errorf("execute panic: %v", r)
		}
	}()
	return o.adapter.Execute(ctx)
}

// normalize calls the adapter's Normalize with panic capture. Normalize is
// contractually infallible, but a broken adapter must not take down the
// batch.
func (o *Orchestrator) normalize(raw interface{}) (result *schema.ReconResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("normalize panic: %v", r)
		}
	}()
	result = o.adapter.Normalize(raw)
	if result == nil {
		return nil, fmt.Errorf("adapter returned nil result")
	}
	return result, nil
}

func (o *Orchestrator) fail(result *schema.ReconResult, err error) {
	result.Success = false
	if result.ErrorMessage == "" {
		result.ErrorMessage = err.Error()
	}
}

func (o *Orchestrator) stamp(result *schema.ReconResult, startedAt time.Time) {
	completedAt := time.Now()
	result.ProjectID = o.opts.ProjectID
	result.TaskID = o.opts.TaskID
	result.StartedAt = startedAt
	result.CompletedAt = completedAt
	result.DurationSeconds = completedAt.Sub(startedAt).Seconds()
	if result.Endpoints == nil {
		result.Endpoints = []schema.Endpoint{}
	}
	if result.Technologies == nil {
		result.Technologies = []schema.Technology{}
	}
	if result.Findings == nil {
		result.Findings = []schema.Finding{}
	}
}

func (o *Orchestrator) finish(ctx context.Context, result *schema.ReconResult) {
	if f, ok := o.adapter.(Finalizer); ok {
		func() {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error().Interface("panic", r).Msg("finalize hook panicked")
				}
			}()
			f.Finalize(ctx, result)
		}()
	}
	if o.opts.Metrics != nil {
		o.opts.Metrics.Observe(result)
	}
	o.logger.Info().Fields(result.Summary()).Msg("scan complete")
}
