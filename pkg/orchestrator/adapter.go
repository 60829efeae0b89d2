// pkg/orchestrator/adapter.go
// Package orchestrator drives the lifecycle every concrete tool adapter
// plugs into: validate, execute, normalize, finalize. The driver converts
// every failure mode into a well-formed failed ReconResult; Run never
// panics and never returns an error to the caller.
package orchestrator

import (
	"context"

	"github.com/reconmux/reconmux/pkg/schema"
)

// Adapter is the contract each concrete tool wrapper implements.
//
// Execute invokes the external tool (subprocess or HTTP) and returns its
// raw output; it may fail. Normalize converts that raw output into a
// canonical ReconResult and must not fail: on nil or malformed input it
// degrades to an empty but well-formed result. The lifecycle driver is the
// only caller of either method.
type Adapter interface {
	// ToolName returns the canonical lower-case tool name, used for
	// logging, provenance tagging, and rate-limit bucket lookup.
	ToolName() string

	// Execute invokes the external tool and returns its raw output.
	Execute(ctx context.Context) (interface{}, error)

	// Normalize converts raw output into a ReconResult. raw is nil when
	// execution failed; the adapter must still return an empty result.
	Normalize(raw interface{}) *schema.ReconResult
}

// BinaryChecker is implemented by adapters that shell out to an external
// binary. The default pre-run check verifies the binary is on PATH.
type BinaryChecker interface {
	Binary() string
}

// PreRunner is an optional hook run after target validation and the binary
// check, before Execute. Returning an error aborts the run with a failed
// result.
type PreRunner interface {
	PreRun(ctx context.Context) error
}

// Finalizer is an optional hook invoked with the finished result,
// regardless of success. Intended for side effects such as persistence
// callbacks; it cannot alter the outcome.
type Finalizer interface {
	Finalize(ctx context.Context, result *schema.ReconResult)
}
