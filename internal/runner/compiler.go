package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
	"github.com/dusk-indust/fxforge/internal/source"
)

// CompilationOutcome is the result of one compile.
type CompilationOutcome struct {
	Succeeded bool
	ClassName string
	Stdout    string
	Stderr    string
}

// Diagnostics returns the compiler output worth showing to a user.
func (o *CompilationOutcome) Diagnostics() string {
	if o.Stderr != "" {
		return o.Stderr
	}
	return o.Stdout
}

// Compiler writes source into a fresh scratch directory and invokes javac.
type Compiler struct {
	tc *Toolchain
}

// NewCompiler creates a Compiler bound to tc.
func NewCompiler(tc *Toolchain) *Compiler {
	return &Compiler{tc: tc}
}

// Compile compiles text in its own scratch directory and removes the
// directory before returning. The outcome is never nil; a failed outcome is
// accompanied by a *errors.ConfigurationError or *errors.CompilationError.
func (c *Compiler) Compile(ctx context.Context, text string) (*CompilationOutcome, error) {
	scratch, outcome, err := c.compile(ctx, text)
	if scratch != "" {
		removeScratch(scratch)
	}
	return outcome, err
}

// compile leaves the scratch directory in place on success so the caller
// can execute from it. On failure the scratch directory is already removed
// and "" is returned.
func (c *Compiler) compile(ctx context.Context, text string) (string, *CompilationOutcome, error) {
	className := source.CompilationUnitName(text)
	if className == "" {
		msg := "no class declaration found in source"
		return "", &CompilationOutcome{Stderr: msg}, fxerrors.NewCompilationError("", msg, nil)
	}
	outcome := &CompilationOutcome{ClassName: className}

	lib, err := c.tc.ResolveLibraryPath()
	if err != nil {
		var cfg *fxerrors.ConfigurationError
		if errors.As(err, &cfg) {
			cfg.Phase = fxerrors.PhaseCompile
		}
		outcome.Stderr = err.Error()
		return "", outcome, err
	}

	scratch, err := os.MkdirTemp(c.tc.ScratchRoot, "fxforge-*")
	if err != nil {
		outcome.Stderr = err.Error()
		return "", outcome, fxerrors.NewPhaseError(fxerrors.PhaseCompile, "", fmt.Errorf("create scratch directory: %w", err))
	}

	srcFile := filepath.Join(scratch, className+".java")
	if err := os.WriteFile(srcFile, []byte(text), 0o644); err != nil {
		removeScratch(scratch)
		outcome.Stderr = err.Error()
		return "", outcome, fxerrors.NewPhaseError(fxerrors.PhaseCompile, srcFile, err)
	}

	args := []string{"-d", scratch, "-cp", c.tc.classpath(scratch, lib)}
	args = append(args, c.tc.moduleFlags(lib)...)
	args = append(args, "-Xlint:unchecked", "-parameters", "-encoding", "UTF-8")
	if c.tc.JavaMajor > 0 {
		release := strconv.Itoa(min(c.tc.JavaMajor, 21))
		args = append(args, "-source", release, "-target", release)
	}
	args = append(args, srcFile)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.tc.CompilerPath, args...)
	cmd.Dir = scratch
	cmd.Env = childEnv()
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Info().Str("class", className).Str("library", lib).Msg("runner: compiling")
	runErr := cmd.Run()

	outcome.Stdout = stdout.String()
	outcome.Stderr = stderr.String()
	if runErr != nil {
		removeScratch(scratch)
		log.Warn().Err(runErr).Str("class", className).Msg("runner: compilation failed")
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", outcome, fxerrors.NewCompilationError(className, outcome.Stderr, runErr)
		}
		if outcome.Stderr == "" {
			outcome.Stderr = runErr.Error()
		}
		return "", outcome, fxerrors.NewCompilationError(className, "", runErr)
	}

	outcome.Succeeded = true
	log.Info().Str("class", className).Msg("runner: compiled")
	return scratch, outcome, nil
}

func removeScratch(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("runner: failed to remove scratch directory")
	}
}
