package merge

import "github.com/dusk-indust/fxforge/internal/source"

// heuristic is the non-AI SmartMerge decision.
func heuristic(existing, generated *source.Analysis) Strategy {
	if !existing.IsFXApplication() {
		return ReplaceClass
	}
	if len(generated.Methods) > 0 && existing.HasClass() {
		return InsertMethod
	}
	return AddComponent
}

// wantsAssistant reports whether the merge is complex enough to hand to the
// assistant: both sides share a lifecycle entry point, or either side has
// more than three methods.
func wantsAssistant(existing, generated *source.Analysis) bool {
	switch {
	case existing.HasMethod("start") && generated.HasMethod("start"):
		return true
	case existing.HasMethod("main") && generated.HasMethod("main"):
		return true
	}
	return len(existing.Methods) > 3 || len(generated.Methods) > 3
}
