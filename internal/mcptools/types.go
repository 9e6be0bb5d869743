package mcptools

import "github.com/dusk-indust/fxforge/internal/export"

// --- MCP Tool Input Types ---
// The MCP Go SDK generates each tool's JSON schema from these struct tags.

// AnalyzeSourceInput is the input for the analyze_source MCP tool.
type AnalyzeSourceInput struct {
	Source string `json:"source,omitempty" jsonschema:"Java source text to analyze; ignored when path is set"`
	Path   string `json:"path,omitempty" jsonschema:"path of a .java file to analyze"`
}

// AnalyzeSourceOutput is the result of the analyze_source MCP tool.
type AnalyzeSourceOutput struct {
	Analysis *export.AnalysisExport `json:"analysis"`
	Mermaid  string                 `json:"mermaid"`
}

// MergeCodeInput is the input for the merge_code MCP tool.
type MergeCodeInput struct {
	Target    string `json:"target" jsonschema:"file to merge into, or a project directory to search for one"`
	Generated string `json:"generated" jsonschema:"generated Java source to merge"`
	Strategy  string `json:"strategy,omitempty" jsonschema:"replace-class, insert-method, add-component, smart or ai-assisted (default: smart)"`
	DryRun    bool   `json:"dryRun,omitempty" jsonschema:"return the merged text and a diff without writing"`
}

// MergeCodeOutput is the result of the merge_code MCP tool.
type MergeCodeOutput struct {
	Succeeded  bool   `json:"succeeded"`
	Message    string `json:"message"`
	Path       string `json:"path,omitempty"`
	BackupPath string `json:"backupPath,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
	Diff       string `json:"diff,omitempty"`
	MergedText string `json:"mergedText,omitempty"`
}

// SourceInput is the input for tools that take only source text.
type SourceInput struct {
	Source string `json:"source" jsonschema:"Java source text"`
}

// CompileCodeOutput is the result of the compile_code MCP tool.
type CompileCodeOutput struct {
	Succeeded   bool   `json:"succeeded"`
	ClassName   string `json:"className,omitempty"`
	Diagnostics string `json:"diagnostics,omitempty"`
}

// RunCodeOutput is the result of the run_code MCP tool.
type RunCodeOutput struct {
	Succeeded bool     `json:"succeeded"`
	RequestID string   `json:"requestId"`
	State     string   `json:"state"`
	History   []string `json:"history"`
	ExitCode  int      `json:"exitCode"`
	TimedOut  bool     `json:"timedOut,omitempty"`
	Output    string   `json:"output,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ValidateCodeOutput is the result of the validate_code MCP tool.
type ValidateCodeOutput struct {
	OK       bool     `json:"ok"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
