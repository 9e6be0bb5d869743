// Package tools dispatches the structured tool calls a chat reply can carry.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dusk-indust/fxforge/internal/llm"
)

// ErrUnknownTool is returned by Dispatch when no handler is registered for
// the requested tool.
var ErrUnknownTool = errors.New("tools: unknown tool")

// Handler answers one tool call with text for the chat transcript.
type Handler func(ctx context.Context, call llm.ToolCall) (string, error)

// Registry maps tool names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates a Registry with the built-in time tool registered.
// Weather, news and application launching have no built-in handler.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(llm.ToolTime, TimeHandler(time.Now))
	return r
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler registered for call.Tool.
func (r *Registry) Dispatch(ctx context.Context, call llm.ToolCall) (string, error) {
	r.mu.RLock()
	h, ok := r.handlers[call.Tool]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, call.Tool)
	}
	out, err := h(ctx, call)
	if err != nil {
		return "", fmt.Errorf("tools: %s: %w", call.Tool, err)
	}
	return out, nil
}

// TimeHandler reports the current local time taken from now.
func TimeHandler(now func() time.Time) Handler {
	return func(_ context.Context, _ llm.ToolCall) (string, error) {
		return "Current time: " + now().Format("2006-01-02 15:04:05"), nil
	}
}
