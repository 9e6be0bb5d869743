// Package orchestrator ties analysis, merging, backups and file writes
// together, and exposes the asynchronous Session API a UI shell drives.
package orchestrator

import (
	"github.com/dusk-indust/fxforge/internal/merge"
)

// Phase identifies a step of a merge or run request.
type Phase int

const (
	PhaseAnalyze Phase = iota
	PhaseMerge
	PhaseBackup
	PhaseWrite
	PhaseCompile
	PhaseExecute
)

func (p Phase) String() string {
	names := [...]string{
		"analyze",
		"merge",
		"backup",
		"write",
		"compile",
		"execute",
	}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// ProgressEvent is emitted while a request moves through its phases.
type ProgressEvent struct {
	Phase   Phase
	Target  string // file path or run request id
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of a phase.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// MergeResult is the terminal outcome of a merge request. Failures are
// reported in the result rather than as a Go error so a UI can show Message
// directly; Err keeps the typed cause.
type MergeResult struct {
	Succeeded  bool
	Message    string
	Path       string
	BackupPath string
	Strategy   merge.Strategy // strategy actually applied
	MergedText string         // set by Preview and on success
	Diff       string         // unified diff, set by Preview
	Err        error
}
