package runner

import (
	"strings"

	"github.com/dusk-indust/fxforge/internal/source"
)

// Validation lists problems found in source before it is run. Errors block a
// run; warnings do not.
type Validation struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// OK reports whether there are no errors.
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Validate checks that text looks like a runnable JavaFX application.
func Validate(text string) Validation {
	var v Validation
	if strings.TrimSpace(text) == "" {
		v.Errors = append(v.Errors, "source is empty")
		return v
	}
	if !strings.Contains(text, "Application") {
		v.Errors = append(v.Errors, "no Application subclass")
	}
	if !strings.Contains(text, "start(") {
		v.Errors = append(v.Errors, "no start method")
	}
	if !strings.Contains(text, "import javafx") {
		v.Warnings = append(v.Warnings, "no javafx imports")
	}
	if source.CompilationUnitName(text) == "" {
		v.Errors = append(v.Errors, "no class declaration")
	}
	return v
}
