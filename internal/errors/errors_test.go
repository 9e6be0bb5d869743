package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_NamesPathAndPhase(t *testing.T) {
	err := NewConfigurationError(PhaseCompile, "libraryPath", "/nope/lib", "JavaFX path does not exist")
	assert.Equal(t, "compile: JavaFX path does not exist: /nope/lib", err.Error())
	assert.Equal(t, PhaseCompile, PhaseOf(err))
}

func TestExecutionError_Messages(t *testing.T) {
	timeout := NewExecutionError("Hello", -1, "", nil)
	timeout.TimedOut = true
	assert.Contains(t, timeout.Error(), "timed out")

	launch := NewExecutionError("Hello", -1, "", fmt.Errorf("no such file"))
	assert.Contains(t, launch.Error(), "launch failed")

	cancelled := NewExecutionError("Hello", -1, "", fmt.Errorf("wait: %w", context.Canceled))
	assert.Equal(t, "execute: Hello: cancelled", cancelled.Error())

	exit := NewExecutionError("Hello", 3, "boom", nil)
	assert.Equal(t, "execute: Hello: exit code 3", exit.Error())
}

func TestServiceError_Retryable(t *testing.T) {
	assert.True(t, NewServiceError("chat", 429, "slow down", nil).Retryable())
	assert.True(t, NewServiceError("chat", 503, "", nil).Retryable())
	assert.False(t, NewServiceError("chat", 401, "bad key", nil).Retryable())
	assert.True(t, NewServiceError("chat", 0, "", fmt.Errorf("dial tcp")).Retryable())
}

func TestPhaseOf_Wrapped(t *testing.T) {
	base := NewPhaseError(PhaseBackup, "/tmp/App.java", fmt.Errorf("disk full"))
	wrapped := fmt.Errorf("merge to file: %w", base)

	assert.Equal(t, PhaseBackup, PhaseOf(wrapped))
	assert.Equal(t, PhaseCompile, PhaseOf(NewCompilationError("A", "x", nil)))
	assert.Equal(t, PhaseMerge, PhaseOf(&MergeValidationError{Reason: "empty"}))
	assert.Equal(t, Phase(""), PhaseOf(stderrors.New("plain")))
}

func TestCompilationError_FallsBackToCause(t *testing.T) {
	err := NewCompilationError("", "", fmt.Errorf("javac not found"))
	assert.Equal(t, "compile: javac not found", err.Error())
	assert.ErrorContains(t, err, "javac")
}
