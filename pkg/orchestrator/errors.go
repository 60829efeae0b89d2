// pkg/orchestrator/errors.go
package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrExecution indicates the external tool, process, or API failed.
	ErrExecution = errors.New("tool execution failed")

	// ErrNormalization indicates raw tool output could not be converted
	// into the canonical schema.
	ErrNormalization = errors.New("output normalization failed")

	// ErrPrerequisite indicates a pre-run check failed (missing binary,
	// unreachable dependency).
	ErrPrerequisite = errors.New("prerequisite check failed")
)

// ExecutionError wraps a tool invocation failure with the tool name.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrExecution.
func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }

// NewExecutionError wraps err as an ExecutionError for a tool.
func NewExecutionError(tool string, err error) error {
	if err == nil {
		return nil
	}
	return &ExecutionError{Tool: tool, Err: err}
}
