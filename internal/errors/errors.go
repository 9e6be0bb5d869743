// Package errors defines the typed failures surfaced by fxforge. Every error
// names the phase that failed so a caller can render it without inspecting
// the concrete type.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// Phase identifies the stage of an operation that failed.
type Phase string

const (
	PhaseConfigure Phase = "configure"
	PhaseAnalyze   Phase = "analyze"
	PhaseMerge     Phase = "merge"
	PhaseBackup    Phase = "backup"
	PhaseWrite     Phase = "write"
	PhaseCompile   Phase = "compile"
	PhaseExecute   Phase = "execute"
	PhaseGenerate  Phase = "generate"
)

// ConfigurationError reports a missing or invalid toolchain setting, such as
// a JavaFX library path that does not exist.
type ConfigurationError struct {
	Phase      Phase
	Setting    string
	Value      string
	Reason     string
	Underlying error
	Timestamp  time.Time
}

// NewConfigurationError creates a ConfigurationError for the given setting.
func NewConfigurationError(phase Phase, setting, value, reason string) *ConfigurationError {
	return &ConfigurationError{
		Phase:     phase,
		Setting:   setting,
		Value:     value,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// WithCause attaches an underlying error.
func (e *ConfigurationError) WithCause(err error) *ConfigurationError {
	e.Underlying = err
	return e
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Phase, e.Reason)
	if e.Value != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Phase, e.Reason, e.Value)
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Underlying }

// CompilationError carries the compiler diagnostics for a failed compile.
type CompilationError struct {
	ClassName   string
	Diagnostics string
	Underlying  error
}

// NewCompilationError creates a CompilationError.
func NewCompilationError(className, diagnostics string, err error) *CompilationError {
	return &CompilationError{ClassName: className, Diagnostics: diagnostics, Underlying: err}
}

func (e *CompilationError) Error() string {
	var b strings.Builder
	b.WriteString("compile: ")
	if e.ClassName != "" {
		fmt.Fprintf(&b, "%s: ", e.ClassName)
	}
	if d := strings.TrimSpace(e.Diagnostics); d != "" {
		b.WriteString(d)
	} else if e.Underlying != nil {
		b.WriteString(e.Underlying.Error())
	} else {
		b.WriteString("compilation failed")
	}
	return b.String()
}

func (e *CompilationError) Unwrap() error { return e.Underlying }

// ExecutionError reports a nonzero exit, a timeout, or a launch failure of
// the child process. Output holds whatever was captured before the failure.
type ExecutionError struct {
	ClassName  string
	ExitCode   int
	TimedOut   bool
	Output     string
	Underlying error
}

// NewExecutionError creates an ExecutionError.
func NewExecutionError(className string, exitCode int, output string, err error) *ExecutionError {
	return &ExecutionError{ClassName: className, ExitCode: exitCode, Output: output, Underlying: err}
}

func (e *ExecutionError) Error() string {
	switch {
	case e.TimedOut:
		return fmt.Sprintf("execute: %s: process execution timed out", e.ClassName)
	case stderrors.Is(e.Underlying, context.Canceled):
		return fmt.Sprintf("execute: %s: cancelled", e.ClassName)
	case e.Underlying != nil && e.ExitCode == -1:
		return fmt.Sprintf("execute: %s: launch failed: %v", e.ClassName, e.Underlying)
	default:
		return fmt.Sprintf("execute: %s: exit code %d", e.ClassName, e.ExitCode)
	}
}

func (e *ExecutionError) Unwrap() error { return e.Underlying }

// MergeValidationError records why an AI-assisted merge was rejected. It is
// normally recovered by the heuristic fallback and only logged.
type MergeValidationError struct {
	Reason string
}

func (e *MergeValidationError) Error() string {
	return "merge: ai-assisted output rejected: " + e.Reason
}

// ServiceError wraps a failure from the generation service.
type ServiceError struct {
	Operation  string
	StatusCode int
	Body       string
	Underlying error
}

// NewServiceError creates a ServiceError for the named operation.
func NewServiceError(operation string, statusCode int, body string, err error) *ServiceError {
	return &ServiceError{Operation: operation, StatusCode: statusCode, Body: body, Underlying: err}
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generate: %s: HTTP %d: %s", e.Operation, e.StatusCode, strings.TrimSpace(e.Body))
	}
	if e.Underlying != nil {
		return fmt.Sprintf("generate: %s: %v", e.Operation, e.Underlying)
	}
	return fmt.Sprintf("generate: %s: %s", e.Operation, e.Body)
}

func (e *ServiceError) Unwrap() error { return e.Underlying }

// Retryable reports whether the caller may reasonably try again. The core
// never retries on its own.
func (e *ServiceError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500 || (e.StatusCode == 0 && e.Underlying != nil)
}

// PhaseError is a generic failure tagged with a phase and the path it
// concerned, used for the analyze/backup/write steps of a merge.
type PhaseError struct {
	Phase      Phase
	Path       string
	Underlying error
}

// NewPhaseError creates a PhaseError.
func NewPhaseError(phase Phase, path string, err error) *PhaseError {
	return &PhaseError{Phase: phase, Path: path, Underlying: err}
}

func (e *PhaseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Phase, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s: %v", e.Phase, e.Underlying)
}

func (e *PhaseError) Unwrap() error { return e.Underlying }

// PhaseOf returns the phase carried by err, or "" when err is untyped.
func PhaseOf(err error) Phase {
	var (
		cfg  *ConfigurationError
		comp *CompilationError
		exe  *ExecutionError
		mv   *MergeValidationError
		svc  *ServiceError
		pe   *PhaseError
	)
	switch {
	case stderrors.As(err, &pe):
		return pe.Phase
	case stderrors.As(err, &cfg):
		return cfg.Phase
	case stderrors.As(err, &comp):
		return PhaseCompile
	case stderrors.As(err, &exe):
		return PhaseExecute
	case stderrors.As(err, &mv):
		return PhaseMerge
	case stderrors.As(err, &svc):
		return PhaseGenerate
	}
	return ""
}
