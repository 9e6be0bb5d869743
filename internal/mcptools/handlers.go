package mcptools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/fxforge/internal/export"
	"github.com/dusk-indust/fxforge/internal/merge"
	"github.com/dusk-indust/fxforge/internal/orchestrator"
	"github.com/dusk-indust/fxforge/internal/runner"
	"github.com/dusk-indust/fxforge/internal/source"
)

// ForgeService holds the components the MCP tool handlers call into.
type ForgeService struct {
	analyzer source.Analyzer
	files    *orchestrator.FileMerger
	compiler *runner.Compiler
	runner   *runner.Runner
}

// NewForgeService creates a ForgeService.
func NewForgeService(analyzer source.Analyzer, files *orchestrator.FileMerger, compiler *runner.Compiler, r *runner.Runner) *ForgeService {
	return &ForgeService{analyzer: analyzer, files: files, compiler: compiler, runner: r}
}

// AnalyzeSource reports the structure of a source text or file.
func (s *ForgeService) AnalyzeSource(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeSourceInput,
) (*mcp.CallToolResult, AnalyzeSourceOutput, error) {
	var e *export.AnalysisExport
	switch {
	case input.Path != "":
		var err error
		e, err = export.ExportFile(input.Path, s.analyzer)
		if err != nil {
			return nil, AnalyzeSourceOutput{}, err
		}
	case input.Source != "":
		e = export.FromAnalysis("", s.analyzer.Analyze(input.Source))
	default:
		return nil, AnalyzeSourceOutput{}, fmt.Errorf("source or path is required")
	}
	return nil, AnalyzeSourceOutput{Analysis: e, Mermaid: export.GenerateMermaid(e)}, nil
}

// MergeCode merges generated source into a file or project directory.
// A failed merge is reported in the output, not as a tool error.
func (s *ForgeService) MergeCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MergeCodeInput,
) (*mcp.CallToolResult, MergeCodeOutput, error) {
	if input.Target == "" {
		return nil, MergeCodeOutput{}, fmt.Errorf("target is required")
	}
	if input.Generated == "" {
		return nil, MergeCodeOutput{}, fmt.Errorf("generated is required")
	}
	strategy, err := merge.ParseStrategy(input.Strategy)
	if err != nil {
		return nil, MergeCodeOutput{}, err
	}

	target := input.Target
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target, err = s.files.FindTarget(ctx, input.Target)
		if err != nil {
			return nil, MergeCodeOutput{Message: err.Error()}, nil
		}
	}

	var res *orchestrator.MergeResult
	if input.DryRun {
		res = s.files.Preview(ctx, target, input.Generated, strategy)
	} else {
		res = s.files.MergeToFile(ctx, target, input.Generated, strategy)
	}

	out := MergeCodeOutput{
		Succeeded:  res.Succeeded,
		Message:    res.Message,
		Path:       res.Path,
		BackupPath: res.BackupPath,
		Strategy:   res.Strategy.String(),
		Diff:       res.Diff,
	}
	if input.DryRun {
		out.MergedText = res.MergedText
	}
	return nil, out, nil
}

// CompileCode compiles source and reports diagnostics.
func (s *ForgeService) CompileCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SourceInput,
) (*mcp.CallToolResult, CompileCodeOutput, error) {
	if input.Source == "" {
		return nil, CompileCodeOutput{}, fmt.Errorf("source is required")
	}
	outcome, err := s.compiler.Compile(ctx, input.Source)
	out := CompileCodeOutput{
		Succeeded:   outcome.Succeeded,
		ClassName:   outcome.ClassName,
		Diagnostics: outcome.Diagnostics(),
	}
	if err != nil && out.Diagnostics == "" {
		out.Diagnostics = err.Error()
	}
	return nil, out, nil
}

// RunCode compiles and executes source in a separate process.
func (s *ForgeService) RunCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SourceInput,
) (*mcp.CallToolResult, RunCodeOutput, error) {
	if input.Source == "" {
		return nil, RunCodeOutput{}, fmt.Errorf("source is required")
	}
	res, err := s.runner.Run(ctx, input.Source)
	out := RunCodeOutput{
		Succeeded: res.Succeeded(),
		RequestID: res.RequestID,
		State:     res.State.String(),
		ExitCode:  -1,
	}
	for _, st := range res.History {
		out.History = append(out.History, st.String())
	}
	if exe := res.Execution; exe != nil {
		out.ExitCode = exe.ExitCode
		out.TimedOut = exe.TimedOut
		out.Output = exe.Output
	}
	if err != nil {
		out.Error = err.Error()
	}
	return nil, out, nil
}

// ValidateCode checks that source looks like a runnable JavaFX application
// without compiling it.
func (s *ForgeService) ValidateCode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SourceInput,
) (*mcp.CallToolResult, ValidateCodeOutput, error) {
	v := runner.Validate(input.Source)
	return nil, ValidateCodeOutput{OK: v.OK(), Errors: v.Errors, Warnings: v.Warnings}, nil
}
