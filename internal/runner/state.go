package runner

import (
	"fmt"
	"sync"
)

// State is the lifecycle position of a single run request.
type State int

const (
	StateIdle State = iota
	StateCompiling
	StateCompileFailed
	StateCompiled
	StateExecuting
	StateExecutionFailed
	StateExecutionSucceeded
)

var stateNames = [...]string{
	"idle",
	"compiling",
	"compile-failed",
	"compiled",
	"executing",
	"execution-failed",
	"execution-succeeded",
}

// String returns the state name.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool {
	return s == StateCompileFailed || s == StateExecutionFailed || s == StateExecutionSucceeded
}

var transitions = map[State][]State{
	StateIdle:      {StateCompiling},
	StateCompiling: {StateCompileFailed, StateCompiled},
	StateCompiled:  {StateExecuting},
	StateExecuting: {StateExecutionFailed, StateExecutionSucceeded},
}

// request tracks one run through the state machine. A state is never
// entered twice.
type request struct {
	mu      sync.Mutex
	id      string
	state   State
	history []State
	onState func(id string, s State)
}

func newRequest(id string, onState func(string, State)) *request {
	return &request{id: id, state: StateIdle, history: []State{StateIdle}, onState: onState}
}

func (r *request) advance(to State) error {
	r.mu.Lock()
	from := r.state
	allowed := false
	for _, s := range transitions[from] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		r.mu.Unlock()
		return fmt.Errorf("runner: invalid transition %s -> %s", from, to)
	}
	r.state = to
	r.history = append(r.history, to)
	hook := r.onState
	r.mu.Unlock()

	if hook != nil {
		hook(r.id, to)
	}
	return nil
}

func (r *request) snapshot() (State, []State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, append([]State(nil), r.history...)
}
