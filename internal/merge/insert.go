package merge

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dusk-indust/fxforge/internal/source"
)

// insertMethods appends every generated method whose name the existing class
// lacks, and adds missing imports after the last existing import. Overloads
// are matched on name only. A generated constructor is renamed to the
// existing class first.
func insertMethods(existingText string, existing, generated *source.Analysis) string {
	classEnd := source.ClassBodyEnd(existingText, existing.ClassName)
	if classEnd < 0 {
		log.Debug().Str("class", existing.ClassName).Msg("merge: class body not found, leaving file unchanged")
		return existingText
	}

	present := make(map[string]bool, len(existing.Methods))
	for _, m := range existing.Methods {
		present[m.Name] = true
	}

	var methods strings.Builder
	for _, m := range generated.Methods {
		name, span := m.Name, m.Span
		if generated.HasClass() && name == generated.ClassName && existing.ClassName != generated.ClassName {
			name = existing.ClassName
			span = renameClass(span, generated.ClassName, existing.ClassName)
		}
		if present[name] {
			continue
		}
		present[name] = true
		methods.WriteString("\n    ")
		methods.WriteString(span)
		methods.WriteString("\n")
	}

	var missing []string
	for _, imp := range generated.Imports {
		if !existing.HasImport(imp) && !strings.HasPrefix(imp, "java.lang.") {
			missing = append(missing, imp)
		}
	}

	out := existingText
	if methods.Len() > 0 {
		out = out[:classEnd] + methods.String() + out[classEnd:]
	}
	if len(missing) > 0 {
		// Imports sit before the class body, so offsets into the original
		// text stay valid after the method splice.
		block := "import " + strings.Join(missing, ";\nimport ") + ";"
		switch at, pkg := source.LastImportEnd(existingText), source.PackageEnd(existingText); {
		case at >= 0 && at < classEnd:
			out = out[:at] + "\n" + block + out[at:]
		case pkg >= 0 && pkg < classEnd:
			out = out[:pkg] + "\n\n" + block + out[pkg:]
		default:
			out = block + "\n\n" + out
		}
	}
	return out
}
