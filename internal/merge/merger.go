package merge

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dusk-indust/fxforge/internal/source"
)

// Merger produces merged source text. It never modifies its inputs.
type Merger struct {
	alignNames bool
	assistant  *Assistant
}

// Option configures a Merger.
type Option func(*Merger)

// WithoutNameAlignment keeps the generated class name in ReplaceClass
// instead of renaming it to the existing class name.
func WithoutNameAlignment() Option {
	return func(m *Merger) { m.alignNames = false }
}

// WithAssistant enables the AI-assisted strategy and lets SmartMerge route
// complex merges to it.
func WithAssistant(a *Assistant) Option {
	return func(m *Merger) { m.assistant = a }
}

// New creates a Merger. Class-name alignment is on by default.
func New(opts ...Option) *Merger {
	m := &Merger{alignNames: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HasAssistant reports whether an AI assistant is configured.
func (m *Merger) HasAssistant() bool { return m.assistant != nil }

// Merge merges generated into existingText under strategy s. existing must
// be the analysis of existingText.
func (m *Merger) Merge(ctx context.Context, existingText string, existing, generated *source.Analysis, s Strategy) (string, error) {
	switch s {
	case ReplaceClass:
		return replaceClass(existing, generated, m.alignNames), nil
	case InsertMethod:
		return insertMethods(existingText, existing, generated), nil
	case AddComponent:
		return addComponents(existingText, generated), nil
	case SmartMerge:
		if m.assistant != nil && wantsAssistant(existing, generated) {
			return m.assisted(ctx, existingText, existing, generated)
		}
		return m.Merge(ctx, existingText, existing, generated, heuristic(existing, generated))
	case AIAssisted:
		return m.assisted(ctx, existingText, existing, generated)
	default:
		return "", fmt.Errorf("merge: unknown strategy %q", s)
	}
}

// Plan resolves SmartMerge to the strategy Merge would apply. Other
// strategies resolve to themselves.
func (m *Merger) Plan(existing, generated *source.Analysis, s Strategy) Strategy {
	if s != SmartMerge {
		return s
	}
	if m.assistant != nil && wantsAssistant(existing, generated) {
		return AIAssisted
	}
	return heuristic(existing, generated)
}

func (m *Merger) assisted(ctx context.Context, existingText string, existing, generated *source.Analysis) (string, error) {
	fallback := heuristic(existing, generated)
	if m.assistant == nil {
		log.Warn().Str("fallback", fallback.String()).Msg("merge: no assistant configured, using heuristic merge")
		return m.Merge(ctx, existingText, existing, generated, fallback)
	}
	merged, err := m.assistant.Merge(ctx, existing, generated)
	if err != nil {
		log.Warn().Err(err).Str("fallback", fallback.String()).Msg("merge: ai-assisted merge failed, using heuristic merge")
		return m.Merge(ctx, existingText, existing, generated, fallback)
	}
	return merged, nil
}
