package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
)

const (
	// DefaultTimeout bounds one execution.
	DefaultTimeout = 60 * time.Second
	// DefaultGrace is how long a process gets to exit after the graceful
	// signal before it is killed.
	DefaultGrace = 5 * time.Second
)

// runtimeProperties are passed to every JavaFX launch.
var runtimeProperties = []string{
	"-Dprism.lcdtext=false",
	"-Dprism.text=t2k",
	"-Djavafx.verbose=false",
	"-Dfile.encoding=UTF-8",
}

// openedPackages are opened to the unnamed module for toolkit reflection.
var openedPackages = []string{
	"java.base/java.lang",
	"java.base/java.io",
	"java.base/java.util",
	"java.base/java.lang.reflect",
	"javafx.graphics/com.sun.javafx.application",
	"javafx.graphics/com.sun.glass.ui",
}

// ExecutionOutcome is the result of one execution. ExitCode is -1 when the
// process timed out or could not be started.
type ExecutionOutcome struct {
	Succeeded bool
	Output    string
	ExitCode  int
	TimedOut  bool
	Duration  time.Duration
	Err       error
}

// Executor runs a compiled class in a separate process.
type Executor struct {
	tc      *Toolchain
	timeout time.Duration
	grace   time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the execution timeout.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithGrace sets the delay between the graceful signal and the forced kill.
func WithGrace(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.grace = d
		}
	}
}

// NewExecutor creates an Executor bound to tc.
func NewExecutor(tc *Toolchain, opts ...ExecutorOption) *Executor {
	e := &Executor{tc: tc, timeout: DefaultTimeout, grace: DefaultGrace}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs className from scratchDir and removes scratchDir before
// returning, whatever the outcome. The outcome is never nil; failures are
// also returned as *errors.ExecutionError or *errors.ConfigurationError.
func (e *Executor) Execute(ctx context.Context, scratchDir, className string) (*ExecutionOutcome, error) {
	defer removeScratch(scratchDir)

	outcome := &ExecutionOutcome{ExitCode: -1}

	lib, err := e.tc.ResolveLibraryPath()
	if err != nil {
		var cfg *fxerrors.ConfigurationError
		if errors.As(err, &cfg) {
			cfg.Phase = fxerrors.PhaseExecute
		}
		outcome.Err = err
		return outcome, err
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.tc.RuntimePath, e.runtimeArgs(scratchDir, lib, className)...)
	cmd.Dir = scratchDir
	cmd.Env = childEnv()
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return terminate(cmd.Process) }
	cmd.WaitDelay = e.grace

	var buf bytes.Buffer
	lines := newLineLogger(className)
	out := io.MultiWriter(&buf, lines)
	cmd.Stdout = out
	cmd.Stderr = out

	log.Info().Str("class", className).Dur("timeout", e.timeout).Msg("runner: executing")
	start := time.Now()
	if err := cmd.Start(); err != nil {
		outcome.Duration = time.Since(start)
		outcome.Err = err
		return outcome, fxerrors.NewExecutionError(className, -1, "", err)
	}
	waitErr := cmd.Wait()
	outcome.Duration = time.Since(start)
	lines.Flush()
	outcome.Output = buf.String()

	if runCtx.Err() != nil {
		// Stragglers in the process group may outlive the leader.
		kill(cmd.Process)
		execErr := fxerrors.NewExecutionError(className, -1, outcome.Output, ctx.Err())
		if ctx.Err() == nil {
			outcome.TimedOut = true
			execErr.TimedOut = true
			execErr.Underlying = context.DeadlineExceeded
			log.Warn().Str("class", className).Dur("timeout", e.timeout).Msg("runner: process execution timed out")
		}
		outcome.Err = execErr
		return outcome, execErr
	}

	if errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		// The class exited cleanly but a descendant kept the output open.
		log.Debug().Str("class", className).Msg("runner: output held open after exit, killing process group")
		kill(cmd.Process)
		waitErr = nil
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
		}
		execErr := fxerrors.NewExecutionError(className, outcome.ExitCode, outcome.Output, waitErr)
		outcome.Err = execErr
		log.Warn().Int("exit_code", outcome.ExitCode).Str("class", className).Msg("runner: process failed")
		return outcome, execErr
	}

	outcome.ExitCode = 0
	outcome.Succeeded = true
	log.Info().Str("class", className).Dur("duration", outcome.Duration).Msg("runner: process exited")
	return outcome, nil
}

func (e *Executor) runtimeArgs(scratchDir, lib, className string) []string {
	args := []string{"-cp", e.tc.classpath(scratchDir, lib)}
	args = append(args, e.tc.moduleFlags(lib)...)
	args = append(args, runtimeProperties...)
	if e.tc.JavaMajor == 0 || e.tc.JavaMajor >= 9 {
		for _, pkg := range openedPackages {
			args = append(args, "--add-opens", pkg+"=ALL-UNNAMED")
		}
	}
	return append(args, className)
}

// lineLogger forwards complete output lines to the debug log.
type lineLogger struct {
	mu    sync.Mutex
	class string
	buf   bytes.Buffer
}

func newLineLogger(class string) *lineLogger {
	return &lineLogger{class: class}
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Keep the partial line for the next write.
			l.buf.Reset()
			l.buf.WriteString(line)
			break
		}
		log.Debug().Str("class", l.class).Msg(line[:len(line)-1])
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (l *lineLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	sc := bufio.NewScanner(&l.buf)
	for sc.Scan() {
		log.Debug().Str("class", l.class).Msg(sc.Text())
	}
	l.buf.Reset()
}
