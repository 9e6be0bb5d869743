package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dusk-indust/fxforge/internal/source"
)

// AnalysisExport is the top-level JSON export structure.
type AnalysisExport struct {
	File          string         `json:"file,omitempty"`
	ExportedAt    string         `json:"exportedAt"`
	Package       string         `json:"package,omitempty"`
	Class         string         `json:"class,omitempty"`
	IsApplication bool           `json:"isApplication"`
	Imports       []string       `json:"imports"`
	Methods       []MethodExport `json:"methods"`
}

// MethodExport describes one method.
type MethodExport struct {
	Name   string `json:"name"`
	Params string `json:"params"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Lines  int    `json:"lines"`
}

// FromAnalysis builds an AnalysisExport. file is informational.
func FromAnalysis(file string, a *source.Analysis) *AnalysisExport {
	out := &AnalysisExport{
		File:          file,
		ExportedAt:    time.Now().UTC().Format(time.RFC3339),
		Package:       a.PackageName,
		Class:         a.ClassName,
		IsApplication: a.IsFXApplication(),
		Imports:       append([]string{}, a.Imports...),
		Methods:       make([]MethodExport, 0, len(a.Methods)),
	}
	for _, m := range a.Methods {
		out.Methods = append(out.Methods, MethodExport{
			Name:   m.Name,
			Params: m.Params,
			Start:  m.Start,
			End:    m.End,
			Lines:  lineCount(m.Span),
		})
	}
	return out
}

// ExportFile reads and analyzes path.
func ExportFile(path string, analyzer source.Analyzer) (*AnalysisExport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return FromAnalysis(path, analyzer.Analyze(string(data))), nil
}

// JSON renders e indented.
func (e *AnalysisExport) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}
