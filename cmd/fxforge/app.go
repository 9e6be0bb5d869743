package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/fxforge/internal/config"
	"github.com/dusk-indust/fxforge/internal/llm"
	"github.com/dusk-indust/fxforge/internal/logging"
	"github.com/dusk-indust/fxforge/internal/merge"
	"github.com/dusk-indust/fxforge/internal/orchestrator"
	"github.com/dusk-indust/fxforge/internal/runner"
	"github.com/dusk-indust/fxforge/internal/source"
)

// app holds the configuration and output streams of one command invocation
// and builds the components it needs.
type app struct {
	flags *globalFlags
	cfg   *config.ProjectConfig
	out   io.Writer
	errw  io.Writer
}

func newApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	cfg, err := config.Load(flags.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if flags.LibraryPath != "" {
		cfg.LibraryPath = flags.LibraryPath
	}
	if flags.Analyzer != "" {
		cfg.Analyzer = flags.Analyzer
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, false)
	return &app{flags: flags, cfg: cfg, out: cmd.OutOrStdout(), errw: cmd.ErrOrStderr()}, nil
}

func (a *app) analyzer() source.Analyzer {
	switch strings.ToLower(a.cfg.Analyzer) {
	case "treesitter", "tree-sitter":
		return source.NewTreeSitterAnalyzer()
	default:
		return source.RegexAnalyzer{}
	}
}

func (a *app) toolchain() *runner.Toolchain {
	tc := runner.NewToolchain(a.cfg.LibraryPath)
	if len(a.cfg.Modules) > 0 {
		tc.Modules = a.cfg.Modules
	}
	if a.cfg.CompilerPath != "" {
		tc.CompilerPath = a.cfg.CompilerPath
	}
	if a.cfg.RuntimePath != "" {
		tc.RuntimePath = a.cfg.RuntimePath
	}
	if a.cfg.InspectorPath != "" {
		tc.InspectorPath = a.cfg.InspectorPath
	}
	return tc
}

func (a *app) runner(tc *runner.Toolchain) (*runner.Runner, *runner.Compiler) {
	var opts []runner.ExecutorOption
	if a.cfg.Timeout > 0 {
		opts = append(opts, runner.WithTimeout(a.cfg.Timeout))
	}
	if a.cfg.Grace > 0 {
		opts = append(opts, runner.WithGrace(a.cfg.Grace))
	}
	compiler := runner.NewCompiler(tc)
	var ropts []runner.RunnerOption
	if a.flags.Verbose {
		ropts = append(ropts, runner.WithStateHook(func(id string, s runner.State) {
			fmt.Fprintf(a.errw, "  [%s] %s\n", id[:8], s)
		}))
	}
	return runner.New(compiler, runner.NewExecutor(tc, opts...), ropts...), compiler
}

// generator returns the generation client, or an error when no API key is
// configured.
func (a *app) generator() (*llm.HTTPClient, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key: set %s or %s", config.EnvAPIKey, config.DefaultAPIKeyEnv)
	}
	var opts []llm.ClientOption
	if a.cfg.Model != "" {
		opts = append(opts, llm.WithModel(a.cfg.Model))
	}
	if a.cfg.Endpoint != "" {
		opts = append(opts, llm.WithEndpoint(a.cfg.Endpoint))
	}
	return llm.NewHTTPClient(a.cfg.APIKey, opts...), nil
}

// merger builds a Merger. The AI assistant is attached only when an API key
// is available, so SmartMerge degrades to the heuristics without one.
func (a *app) merger() *merge.Merger {
	var opts []merge.Option
	if !a.cfg.AlignClassNames() {
		opts = append(opts, merge.WithoutNameAlignment())
	}
	if gen, err := a.generator(); err == nil {
		opts = append(opts, merge.WithAssistant(merge.NewAssistant(gen)))
	}
	return merge.New(opts...)
}

// fileMerger builds a FileMerger. With --verbose, phase progress is streamed
// through a ProgressReporter; the returned func drains and closes it.
func (a *app) fileMerger() (*orchestrator.FileMerger, func()) {
	opts := []orchestrator.FileMergerOption{orchestrator.WithAnalyzer(a.analyzer())}
	if len(a.cfg.ExcludeGlobs) > 0 {
		opts = append(opts, orchestrator.WithExcludes(a.cfg.ExcludeGlobs...))
	}
	done := func() {}
	if a.flags.Verbose {
		pr := orchestrator.NewProgressReporter()
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range pr.Subscribe() {
				fmt.Fprintln(a.errw, orchestrator.FormatProgress(ev))
			}
		}()
		opts = append(opts, orchestrator.WithProgress(pr.Emit))
		done = func() {
			pr.Close()
			wg.Wait()
		}
	}
	return orchestrator.NewFileMerger(a.merger(), opts...), done
}

func (a *app) defaultStrategy() string {
	return a.cfg.Strategy
}

// readSource reads a file, or stdin when path is "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
