package merge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dusk-indust/fxforge/internal/source"
)

func replaceClass(existing, generated *source.Analysis, align bool) string {
	text := generated.FullText
	if align && existing.HasClass() && generated.HasClass() && existing.ClassName != generated.ClassName {
		text = renameClass(text, generated.ClassName, existing.ClassName)
	}

	var b strings.Builder
	if existing.HasPackage() {
		fmt.Fprintf(&b, "package %s;\n\n", existing.PackageName)
	}
	imports := unionImports(existing.Imports, generated.Imports)
	for _, imp := range imports {
		fmt.Fprintf(&b, "import %s;\n", imp)
	}
	if len(imports) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(source.ClassContent(text))
	b.WriteString("\n")
	return b.String()
}

// renameClass rewrites the class name at its declaration, at constructor and
// instantiation sites, and in class literals. Other occurrences, including
// string literals and same-named variables, are left alone.
func renameClass(text, from, to string) string {
	name := regexp.QuoteMeta(from)
	repl := strings.ReplaceAll(to, "$", "$$")
	text = regexp.MustCompile(`\b(class\s+)`+name+`\b`).ReplaceAllString(text, "${1}"+repl)
	text = regexp.MustCompile(`([^\w$."]|^)`+name+`(\s*\()`).ReplaceAllString(text, "${1}"+repl+"${2}")
	return regexp.MustCompile(`([^\w$."]|^)`+name+`(\.class\b)`).ReplaceAllString(text, "${1}"+repl+"${2}")
}

func unionImports(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, imp := range list {
			if !seen[imp] {
				seen[imp] = true
				out = append(out, imp)
			}
		}
	}
	sort.Strings(out)
	return out
}
