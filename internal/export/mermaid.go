package export

import (
	"fmt"
	"strings"
)

// GenerateMermaid produces a Mermaid classDiagram for an exported analysis.
// Each imported type becomes a dependency arrow; wildcard imports are
// listed as a note.
func GenerateMermaid(e *AnalysisExport) string {
	name := e.Class
	if name == "" {
		name = "Unnamed"
	}

	var sb strings.Builder
	sb.WriteString("classDiagram\n")
	sb.WriteString(fmt.Sprintf("  class %s {\n", name))
	if e.IsApplication {
		sb.WriteString("    <<Application>>\n")
	}
	for _, m := range e.Methods {
		sb.WriteString(fmt.Sprintf("    +%s(%s)\n", m.Name, mermaidParams(m.Params)))
	}
	sb.WriteString("  }\n")

	var wildcards []string
	for _, imp := range e.Imports {
		if strings.HasSuffix(imp, ".*") {
			wildcards = append(wildcards, imp)
			continue
		}
		short := imp[strings.LastIndex(imp, ".")+1:]
		sb.WriteString(fmt.Sprintf("  %s ..> %s\n", name, short))
	}
	if len(wildcards) > 0 {
		sb.WriteString(fmt.Sprintf("  note for %s \"%s\"\n", name, strings.Join(wildcards, ", ")))
	}
	if e.Package != "" {
		sb.WriteString(fmt.Sprintf("  note \"package %s\"\n", e.Package))
	}
	return sb.String()
}

// mermaidParams flattens a parameter list to one line; generic brackets are
// written with Mermaid's tilde syntax.
func mermaidParams(params string) string {
	p := strings.Join(strings.Fields(params), " ")
	p = strings.NewReplacer("<", "~", ">", "~").Replace(p)
	return p
}
