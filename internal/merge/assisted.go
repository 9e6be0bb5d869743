package merge

import (
	"context"
	"regexp"
	"strings"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
	"github.com/dusk-indust/fxforge/internal/llm"
	"github.com/dusk-indust/fxforge/internal/prompts"
	"github.com/dusk-indust/fxforge/internal/source"
)

// Assistant delegates a merge to the generation service and validates the
// answer before it is accepted.
type Assistant struct {
	gen llm.Generator
}

// NewAssistant creates an Assistant backed by gen.
func NewAssistant(gen llm.Generator) *Assistant {
	return &Assistant{gen: gen}
}

// Merge asks the service to merge generated into existing. It returns a
// *errors.MergeValidationError when the answer is unusable, or the service
// error when the call itself fails.
func (a *Assistant) Merge(ctx context.Context, existing, generated *source.Analysis) (string, error) {
	prompt, err := prompts.Merge(existing, generated)
	if err != nil {
		return "", err
	}
	resp, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	merged := llm.StripCodeFences(resp)
	if err := validate(merged, existing); err != nil {
		return "", err
	}
	if !strings.HasSuffix(merged, "\n") {
		merged += "\n"
	}
	return merged, nil
}

// validate accepts merged output only when it is non-empty, declares a class
// if the existing file does, and keeps the existing class name.
func validate(merged string, existing *source.Analysis) error {
	if strings.TrimSpace(merged) == "" {
		return &fxerrors.MergeValidationError{Reason: "empty response"}
	}
	if strings.Contains(existing.FullText, "class ") && !strings.Contains(merged, "class ") {
		return &fxerrors.MergeValidationError{Reason: "no class declaration"}
	}
	if existing.HasClass() {
		decl := regexp.MustCompile(`\bclass\s+` + regexp.QuoteMeta(existing.ClassName) + `\b`)
		if !decl.MatchString(merged) {
			return &fxerrors.MergeValidationError{Reason: "class " + existing.ClassName + " is not declared"}
		}
	}
	return nil
}
