package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

// Operations that mutate the quote list run through five ordered steps:
//
//	validate  check the input before anything changes
//	perform   do the work (parse, fetch, compute) without touching state
//	verify    confirm the performed result is acceptable
//	archive   persist the verified result
//	respond   shape the result for the caller
//
// A failing step stops the run; later steps never see a partial result.

// ExecutionStep names a step of an Operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records which step failed. It unwraps to the cause so
// domain classification (domain.IsValidation etc.) survives the wrapping.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs operations and logs each step.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation defines the functions for each step. Nil steps are skipped
// and pass the zero value along.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation for logging.
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op against input, step by step.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger, ok := logging.Lookup(ctx)
	if !ok {
		logger = exec.logger
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Validate != nil {
		if err := runStep(ctx, logger, StepValidate, "input rejected", func() error {
			return op.Validate(ctx, input)
		}); err != nil {
			return zero, err
		}
	}

	var performed P
	if op.Perform != nil {
		if err := runStep(ctx, logger, StepPerform, "operation failed", func() (err error) {
			performed, err = op.Perform(ctx, input)
			return err
		}); err != nil {
			return zero, err
		}
	}

	var verified V
	if op.Verify != nil {
		if err := runStep(ctx, logger, StepVerify, "result rejected", func() (err error) {
			verified, err = op.Verify(ctx, input, performed)
			return err
		}); err != nil {
			return zero, err
		}
	}

	if op.Archive != nil {
		if err := runStep(ctx, logger, StepArchive, "state not persisted", func() error {
			return op.Archive(ctx, input, verified)
		}); err != nil {
			return zero, err
		}
	}

	var out O
	if op.Respond != nil {
		if err := runStep(ctx, logger, StepRespond, "response not built", func() (err error) {
			out, err = op.Respond(ctx, input, verified)
			return err
		}); err != nil {
			return zero, err
		}
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

func runStep(ctx context.Context, logger *slog.Logger, step ExecutionStep, msg string, fn func() error) error {
	logger.Log(ctx, logging.LevelTrace, "step started", slog.String("step", string(step)))

	if err := fn(); err != nil {
		level := slog.LevelError
		if step == StepValidate || step == StepVerify {
			level = slog.LevelWarn
		}

		logger.Log(ctx, level, "step failed", slog.String("step", string(step)), slog.Any("error", err))

		return &ExecutionError{Step: step, Message: msg, Cause: err}
	}

	return nil
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
