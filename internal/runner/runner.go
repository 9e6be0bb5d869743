package runner

import (
	"context"

	"github.com/google/uuid"
)

// Result is the terminal record of one run request.
type Result struct {
	RequestID   string
	State       State
	History     []State
	Compilation *CompilationOutcome
	Execution   *ExecutionOutcome
}

// Succeeded reports whether the request reached ExecutionSucceeded.
func (r *Result) Succeeded() bool { return r.State == StateExecutionSucceeded }

// Runner drives compile then execute for a run request.
type Runner struct {
	compiler *Compiler
	executor *Executor
	onState  func(id string, s State)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStateHook registers a function called on every state transition.
func WithStateHook(fn func(id string, s State)) RunnerOption {
	return func(r *Runner) { r.onState = fn }
}

// New creates a Runner.
func New(compiler *Compiler, executor *Executor, opts ...RunnerOption) *Runner {
	r := &Runner{compiler: compiler, executor: executor}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run compiles text and, if that succeeds, executes it. Every call is a new
// request starting from Idle. The returned Result is never nil; err is the
// typed compile or execute failure.
func (r *Runner) Run(ctx context.Context, text string) (*Result, error) {
	req := newRequest(uuid.NewString(), r.onState)
	res := &Result{RequestID: req.id}
	defer func() { res.State, res.History = req.snapshot() }()

	_ = req.advance(StateCompiling)
	scratch, comp, err := r.compiler.compile(ctx, text)
	res.Compilation = comp
	if err != nil {
		_ = req.advance(StateCompileFailed)
		return res, err
	}
	_ = req.advance(StateCompiled)

	_ = req.advance(StateExecuting)
	exe, err := r.executor.Execute(ctx, scratch, comp.ClassName)
	res.Execution = exe
	if err != nil {
		_ = req.advance(StateExecutionFailed)
		return res, err
	}
	_ = req.advance(StateExecutionSucceeded)
	return res, nil
}
