package orchestrator

import "fmt"

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event without blocking. If the channel is full the
// event is dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  \u25cb %s %s (pending)", event.Phase, event.Target)
	case ProgressWorking:
		return fmt.Sprintf("  \u25cf %s %s...", event.Phase, event.Target)
	case ProgressComplete:
		return fmt.Sprintf("  \u2713 %s %s complete", event.Phase, event.Target)
	case ProgressFailed:
		return fmt.Sprintf("  \u2717 %s %s failed: %s", event.Phase, event.Target, event.Message)
	default:
		return fmt.Sprintf("  ? %s %s (unknown status)", event.Phase, event.Target)
	}
}
