// Package merge reconciles generated Java source with an existing file using
// text-level structural heuristics, optionally assisted by the generation
// service.
package merge

import (
	"fmt"
	"strings"
)

// Strategy selects how generated source is merged into an existing file.
type Strategy string

const (
	// ReplaceClass replaces the existing class with the generated one,
	// keeping the existing package and the union of imports.
	ReplaceClass Strategy = "replace-class"
	// InsertMethod appends generated methods missing from the existing class.
	InsertMethod Strategy = "insert-method"
	// AddComponent splices the generated UI construction lines into the
	// existing start (or initialize) method.
	AddComponent Strategy = "add-component"
	// SmartMerge picks one of the above from the shape of both sides.
	SmartMerge Strategy = "smart"
	// AIAssisted asks the generation service to merge, falling back to the
	// heuristic path when its output is unusable.
	AIAssisted Strategy = "ai-assisted"
)

// Strategies returns every strategy in display order.
func Strategies() []Strategy {
	return []Strategy{ReplaceClass, InsertMethod, AddComponent, SmartMerge, AIAssisted}
}

// ParseStrategy accepts the canonical names plus the CamelCase spellings.
func ParseStrategy(s string) (Strategy, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(s)))
	switch norm {
	case "replaceclass", "replace":
		return ReplaceClass, nil
	case "insertmethod", "insert":
		return InsertMethod, nil
	case "addcomponent", "component":
		return AddComponent, nil
	case "smartmerge", "smart", "":
		return SmartMerge, nil
	case "aiassisted", "ai":
		return AIAssisted, nil
	}
	return "", fmt.Errorf("unknown merge strategy %q", s)
}

func (s Strategy) String() string { return string(s) }

// Description returns a one-line explanation for help output.
func (s Strategy) Description() string {
	switch s {
	case ReplaceClass:
		return "replace the whole class, keeping the existing package and merged imports"
	case InsertMethod:
		return "insert generated methods the existing class does not define"
	case AddComponent:
		return "add generated UI components to the existing start method"
	case SmartMerge:
		return "choose a heuristic strategy from the shape of both sources"
	case AIAssisted:
		return "let the generation service merge, falling back to the heuristic merge"
	default:
		return "unknown strategy"
	}
}
