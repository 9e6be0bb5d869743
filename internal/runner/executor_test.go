package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func scratchDir(t *testing.T, tc *Toolchain) string {
	t.Helper()
	dir, err := os.MkdirTemp(tc.ScratchRoot, "fxforge-*")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Hello.class"), nil, 0o644))
	return dir
}

func TestExecute_CombinedOutput(t *testing.T) {
	tc := fakeToolchain(t, "#!/bin/sh\necho \"out: $*\"\necho 'err line' >&2\nexit 0\n")
	dir := scratchDir(t, tc)

	outcome, err := NewExecutor(tc).Execute(context.Background(), dir, "Hello")
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Contains(t, outcome.Output, "err line")
	assert.Contains(t, outcome.Output, "-Dprism.lcdtext=false")
	assert.Contains(t, outcome.Output, "--add-opens javafx.graphics/com.sun.glass.ui=ALL-UNNAMED")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(strings.Split(outcome.Output, "\n")[0]), "Hello"))
	assert.NoDirExists(t, dir)
}

func TestExecute_CleanExitWithOutputHeldOpen(t *testing.T) {
	tc := fakeToolchain(t, "#!/bin/sh\necho started\nsleep 30 &\nexit 0\n")
	dir := scratchDir(t, tc)

	outcome, err := NewExecutor(tc, WithGrace(200*time.Millisecond)).Execute(context.Background(), dir, "Hello")
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.False(t, outcome.TimedOut)
	assert.Contains(t, outcome.Output, "started")
	assert.NoDirExists(t, dir)
}

func TestExecute_NonZeroExit(t *testing.T) {
	tc := fakeToolchain(t, "#!/bin/sh\necho 'Exception in thread main'\nexit 3\n")
	dir := scratchDir(t, tc)

	outcome, err := NewExecutor(tc).Execute(context.Background(), dir, "Hello")
	require.Error(t, err)
	assert.False(t, outcome.Succeeded)
	assert.Equal(t, 3, outcome.ExitCode)
	assert.Contains(t, outcome.Output, "Exception in thread main")

	var ee *fxerrors.ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.ExitCode)
	assert.Contains(t, ee.Output, "Exception")
	assert.NoDirExists(t, dir)
}

func TestExecute_TimeoutTerminates(t *testing.T) {
	tc := fakeToolchain(t, "#!/bin/sh\necho started\nexec sleep 100\n")
	dir := scratchDir(t, tc)

	start := time.Now()
	outcome, err := NewExecutor(tc, WithTimeout(300*time.Millisecond), WithGrace(300*time.Millisecond)).
		Execute(context.Background(), dir, "Hello")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.False(t, outcome.Succeeded)
	assert.True(t, outcome.TimedOut)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.Contains(t, outcome.Output, "started")
	assert.Less(t, elapsed, 5*time.Second)
	assert.Contains(t, err.Error(), "timed out")
	assert.NoDirExists(t, dir)
}

func TestExecute_TimeoutForcesKillWhenTermIgnored(t *testing.T) {
	tc := fakeToolchain(t, "#!/bin/sh\ntrap '' TERM\nsleep 100\n")
	dir := scratchDir(t, tc)

	start := time.Now()
	outcome, err := NewExecutor(tc, WithTimeout(200*time.Millisecond), WithGrace(300*time.Millisecond)).
		Execute(context.Background(), dir, "Hello")

	require.Error(t, err)
	assert.True(t, outcome.TimedOut)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.NoDirExists(t, dir)
}

func TestExecute_DefaultBounds(t *testing.T) {
	e := NewExecutor(bareToolchain(""))
	assert.Equal(t, 60*time.Second, e.timeout)
	assert.Equal(t, 5*time.Second, e.grace)
	// The forced kill lands by timeout + grace, inside the 65 second bound.
	assert.LessOrEqual(t, e.timeout+e.grace, 65*time.Second)
}

func TestExecute_ParentCancel(t *testing.T) {
	tc := fakeToolchain(t, "#!/bin/sh\nexec sleep 100\n")
	dir := scratchDir(t, tc)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	outcome, err := NewExecutor(tc, WithGrace(200*time.Millisecond)).Execute(ctx, dir, "Hello")
	require.Error(t, err)
	assert.False(t, outcome.TimedOut)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, dir)
}

func TestExecute_LaunchFailure(t *testing.T) {
	tc := fakeToolchain(t, "#!/bin/sh\nexit 0\n")
	tc.RuntimePath = "/no/such/java"
	dir := scratchDir(t, tc)

	outcome, err := NewExecutor(tc).Execute(context.Background(), dir, "Hello")
	require.Error(t, err)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.Contains(t, err.Error(), "launch failed")
	assert.NoDirExists(t, dir)
}

func TestExecute_MissingLibraryCleansScratch(t *testing.T) {
	tc := fakeToolchain(t, "#!/bin/sh\nexit 0\n")
	tc.SetLibraryPath("/gone")
	dir := scratchDir(t, tc)

	outcome, err := NewExecutor(tc).Execute(context.Background(), dir, "Hello")
	require.Error(t, err)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.Equal(t, fxerrors.PhaseExecute, fxerrors.PhaseOf(err))
	assert.NoDirExists(t, dir)
}
