package source

import (
	"regexp"
	"strings"
)

var (
	packagePattern = regexp.MustCompile(`package\s+([\w.]+)\s*;`)
	importPattern  = regexp.MustCompile(`import\s+([\w.*]+)\s*;`)
	classPattern   = regexp.MustCompile(`class\s+(\w+)\s+`)
	methodPattern  = regexp.MustCompile(`(public|private|protected|\s)?\s+(static\s+)?(\w+\s+)?(\w+)\s*\(([^)]*)\)\s*\{`)
)

// Words the method pattern matches that are statements or expressions, not
// declarations. "new" as the return-type group marks an anonymous class.
var notMethodNames = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"synchronized": true, "try": true, "return": true, "else": true, "do": true,
}

// RegexAnalyzer is the default Analyzer. It applies independent regular
// expressions over the raw text and finds method bodies by brace counting.
// A class name inside a comment or string before the real declaration is
// picked up as the class name.
type RegexAnalyzer struct{}

var _ Analyzer = RegexAnalyzer{}

// Analyze implements Analyzer.
func (RegexAnalyzer) Analyze(text string) *Analysis {
	a := &Analysis{FullText: text}

	if m := packagePattern.FindStringSubmatch(text); m != nil {
		a.PackageName = strings.TrimSpace(m[1])
	}

	imports := importSet{}
	for _, m := range importPattern.FindAllStringSubmatch(text, -1) {
		imports.add(strings.TrimSpace(m[1]))
	}
	a.Imports = imports.sorted()

	if m := classPattern.FindStringSubmatch(text); m != nil {
		a.ClassName = m[1]
	}

	var methods methodList
	for _, loc := range methodPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[8]:loc[9]]
		if notMethodNames[name] {
			continue
		}
		if loc[6] >= 0 && strings.TrimSpace(text[loc[6]:loc[7]]) == "new" {
			continue
		}
		open := loc[1] - 1
		end := MatchingBrace(text, open)
		if end < 0 {
			continue
		}
		start := loc[0]
		// The leading group may consume the newline and indentation before
		// the modifiers; the span starts at the first non-space byte.
		for start < open && isSpace(text[start]) {
			start++
		}
		methods.add(Method{
			Name:   name,
			Params: strings.TrimSpace(text[loc[10]:loc[11]]),
			Span:   text[start : end+1],
			Start:  start,
			End:    end + 1,
		})
	}
	a.Methods = methods.methods

	return a
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
