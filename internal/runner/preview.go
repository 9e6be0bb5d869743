package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
)

// A Go host cannot load JVM classes into its own process, so preview runs the
// compiled class out of process and hands the caller a handle to the live
// window process instead of a window object.

// PreviewCallbacks receive the result of a preview. Exactly one of them is
// called per Preview.
type PreviewCallbacks struct {
	OnWindow func(*PreviewHandle)
	OnError  func(error)
}

// PreviewHandle refers to a running preview process.
type PreviewHandle struct {
	ClassName string
	PID       int

	cmd   *exec.Cmd
	grace time.Duration
	done  chan struct{}

	mu     sync.Mutex
	err    error
	output bytes.Buffer
}

// Done is closed when the preview process has exited and its scratch
// directory is removed.
func (h *PreviewHandle) Done() <-chan struct{} { return h.done }

// Err returns the process exit error once Done is closed.
func (h *PreviewHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Output returns what the process has written so far.
func (h *PreviewHandle) Output() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.output.String()
}

func (h *PreviewHandle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.output.Write(p)
}

// Stop terminates the preview, escalating to a kill after the grace period,
// and waits for cleanup.
func (h *PreviewHandle) Stop() {
	select {
	case <-h.done:
		return
	default:
	}
	_ = terminate(h.cmd.Process)
	select {
	case <-h.done:
	case <-time.After(h.grace):
		kill(h.cmd.Process)
		<-h.done
	}
}

var applicationSuper = regexp.MustCompile(`extends\s+(?:javafx\.application\.)?Application\b`)

// Preview compiles text, checks that the class is a JavaFX Application and
// launches it. Errors at any step go to cb.OnError and the scratch directory
// is removed; on success the scratch directory is removed when the process
// exits. The process is stopped when ctx is cancelled.
func (r *Runner) Preview(ctx context.Context, text string, cb PreviewCallbacks) {
	fail := func(err error) {
		log.Warn().Err(err).Msg("runner: preview failed")
		if cb.OnError != nil {
			cb.OnError(err)
		}
	}

	scratch, comp, err := r.compiler.compile(ctx, text)
	if err != nil {
		fail(err)
		return
	}

	tc := r.compiler.tc
	lib, err := tc.ResolveLibraryPath()
	if err != nil {
		removeScratch(scratch)
		fail(err)
		return
	}

	ok, err := r.isApplication(ctx, scratch, lib, comp.ClassName, text)
	if err != nil {
		removeScratch(scratch)
		fail(fxerrors.NewExecutionError(comp.ClassName, -1, "", err))
		return
	}
	if !ok {
		removeScratch(scratch)
		fail(fxerrors.NewExecutionError(comp.ClassName, -1, "",
			fmt.Errorf("%s does not extend javafx.application.Application", comp.ClassName)))
		return
	}

	h := &PreviewHandle{ClassName: comp.ClassName, grace: r.executor.grace, done: make(chan struct{})}
	cmd := exec.Command(tc.RuntimePath, r.executor.runtimeArgs(scratch, lib, comp.ClassName)...)
	cmd.Dir = scratch
	cmd.Env = childEnv()
	cmd.Stdout = h
	cmd.Stderr = h
	setProcessGroup(cmd)
	h.cmd = cmd

	if err := cmd.Start(); err != nil {
		removeScratch(scratch)
		fail(fxerrors.NewExecutionError(comp.ClassName, -1, "", err))
		return
	}
	h.PID = cmd.Process.Pid
	log.Info().Str("class", comp.ClassName).Int("pid", h.PID).Msg("runner: preview launched")

	go func() {
		err := cmd.Wait()
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		removeScratch(scratch)
		close(h.done)
	}()
	go func() {
		select {
		case <-ctx.Done():
			h.Stop()
		case <-h.done:
		}
	}()

	if cb.OnWindow != nil {
		cb.OnWindow(h)
	}
}

// maxSuperclassDepth bounds the javap walk up the superclass chain.
const maxSuperclassDepth = 16

var javapSuper = regexp.MustCompile(`\bclass\s+[\w.$]+(?:<[^{]*?>)?\s+extends\s+([\w.$]+)`)

// isApplication asks javap for the superclass chain of className, one class
// at a time, until it reaches javafx.application.Application or runs out of
// superclasses. When javap is not installed the source text is checked
// instead.
func (r *Runner) isApplication(ctx context.Context, scratch, lib, className, text string) (bool, error) {
	tc := r.compiler.tc
	current := className
	for range maxSuperclassDepth {
		cmd := exec.CommandContext(ctx, tc.InspectorPath, "-cp", tc.classpath(scratch, lib), current)
		cmd.Dir = scratch
		cmd.Env = childEnv()
		out, err := cmd.Output()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("class", className).Msg("runner: javap not found, checking source")
			return applicationSuper.MatchString(text), nil
		}
		if err != nil {
			return false, fmt.Errorf("inspect %s: %w", current, err)
		}
		m := javapSuper.FindSubmatch(out)
		if m == nil {
			return false, nil
		}
		parent := string(m[1])
		switch parent {
		case "javafx.application.Application":
			return true, nil
		case "java.lang.Object":
			return false, nil
		}
		log.Debug().Str("class", current).Str("super", parent).Msg("runner: following superclass")
		current = parent
	}
	return false, nil
}
