// Package source extracts a lightweight structural summary from Java source
// text: package, first class name, imports and methods with their spans.
package source

import (
	"sort"
	"strings"
)

// Method is one method (or constructor) found in a source text. Span covers
// the signature through the matching closing brace, exactly as written.
type Method struct {
	Name   string `json:"name"`
	Params string `json:"params"`
	Span   string `json:"-"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Analysis is the structural summary of one source text. It is rebuilt from
// text on every call and never modified afterwards.
type Analysis struct {
	FullText    string   `json:"-"`
	PackageName string   `json:"package,omitempty"`
	ClassName   string   `json:"class,omitempty"`
	Imports     []string `json:"imports"`
	Methods     []Method `json:"methods"`
}

// Analyzer turns source text into an Analysis. Implementations never fail:
// anything they cannot find is left empty.
type Analyzer interface {
	Analyze(text string) *Analysis
}

// HasPackage reports whether a package declaration was found.
func (a *Analysis) HasPackage() bool { return a.PackageName != "" }

// HasClass reports whether a class declaration was found.
func (a *Analysis) HasClass() bool { return a.ClassName != "" }

// HasImport reports whether imp is in the import set.
func (a *Analysis) HasImport(imp string) bool {
	i := sort.SearchStrings(a.Imports, imp)
	return i < len(a.Imports) && a.Imports[i] == imp
}

// Method returns the method with the given name.
func (a *Analysis) Method(name string) (Method, bool) {
	for _, m := range a.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// HasMethod reports whether a method with the given name exists.
func (a *Analysis) HasMethod(name string) bool {
	_, ok := a.Method(name)
	return ok
}

// MethodNames lists method names in source order.
func (a *Analysis) MethodNames() []string {
	names := make([]string, len(a.Methods))
	for i, m := range a.Methods {
		names[i] = m.Name
	}
	return names
}

// IsFXApplication reports whether the text looks like a JavaFX application
// class. The check is textual on purpose; it must agree with what the merger
// and the project scan consider an application.
func (a *Analysis) IsFXApplication() bool {
	return IsFXApplication(a.FullText)
}

// IsFXApplication is the text form of Analysis.IsFXApplication.
func IsFXApplication(text string) bool {
	return strings.Contains(text, "Application") &&
		strings.Contains(text, "extends") &&
		(strings.Contains(text, "javafx") || strings.Contains(text, "JavaFX"))
}

// importSet collects imports with set semantics and returns them sorted.
type importSet map[string]struct{}

func (s importSet) add(imp string) { s[imp] = struct{}{} }

func (s importSet) sorted() []string {
	out := make([]string, 0, len(s))
	for imp := range s {
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

// methodList keeps the first method seen for each name. Overloads collapse
// onto the first declaration.
type methodList struct {
	seen    map[string]bool
	methods []Method
}

func (l *methodList) add(m Method) {
	if l.seen == nil {
		l.seen = make(map[string]bool)
	}
	if l.seen[m.Name] {
		return
	}
	l.seen[m.Name] = true
	l.methods = append(l.methods, m)
}
