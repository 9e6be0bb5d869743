package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
	"github.com/dusk-indust/fxforge/internal/merge"
	"github.com/dusk-indust/fxforge/internal/source"
)

// ErrTargetMissing is wrapped by results for a target path that does not
// exist or is not a regular file.
var ErrTargetMissing = errors.New("target file does not exist")

// ErrNoCandidate is wrapped by MergeToProject results when the scan finds
// no suitable source file.
var ErrNoCandidate = errors.New("no suitable source file found")

// FileMerger applies merges to files on disk. Each merge analyzes, merges,
// backs up and writes, strictly in that order. Concurrent merges into the
// same file are not serialized.
type FileMerger struct {
	analyzer   source.Analyzer
	merger     *merge.Merger
	excludes   []string
	now        func() time.Time
	onProgress func(ProgressEvent)
}

// FileMergerOption configures a FileMerger.
type FileMergerOption func(*FileMerger)

// WithAnalyzer sets the analyzer used for both sides of a merge.
func WithAnalyzer(a source.Analyzer) FileMergerOption {
	return func(f *FileMerger) { f.analyzer = a }
}

// WithExcludes replaces the doublestar patterns skipped by MergeToProject.
func WithExcludes(patterns ...string) FileMergerOption {
	return func(f *FileMerger) { f.excludes = patterns }
}

// WithClock sets the time source used to name backups.
func WithClock(now func() time.Time) FileMergerOption {
	return func(f *FileMerger) { f.now = now }
}

// WithProgress registers a callback for phase progress. It is called
// synchronously from the merging goroutine.
func WithProgress(fn func(ProgressEvent)) FileMergerOption {
	return func(f *FileMerger) { f.onProgress = fn }
}

// DefaultExcludes are the project paths MergeToProject never considers.
var DefaultExcludes = []string{"**/build/**", "**/target/**", "**/.git/**", "**/backups/**"}

// NewFileMerger creates a FileMerger around m.
func NewFileMerger(m *merge.Merger, opts ...FileMergerOption) *FileMerger {
	f := &FileMerger{
		analyzer: source.RegexAnalyzer{},
		merger:   m,
		excludes: DefaultExcludes,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type mergePlan struct {
	original []byte
	perm     os.FileMode
	merged   string
	strategy merge.Strategy
}

// MergeToFile merges generated into the file at path. The original content
// is copied to a verified backup before the file is overwritten. A missing
// path fails without touching the filesystem.
func (f *FileMerger) MergeToFile(ctx context.Context, path, generated string, s merge.Strategy) *MergeResult {
	res := &MergeResult{Path: path, Strategy: s}
	plan, err := f.prepare(ctx, path, generated, s)
	if err != nil {
		return f.fail(res, err)
	}
	res.Strategy = plan.strategy

	f.emit(PhaseBackup, path, ProgressWorking, "")
	backup, err := WriteBackup(path, plan.original, plan.perm, f.now())
	if err != nil {
		return f.fail(res, fxerrors.NewPhaseError(fxerrors.PhaseBackup, path, err))
	}
	res.BackupPath = backup
	f.emit(PhaseBackup, path, ProgressComplete, backup)

	f.emit(PhaseWrite, path, ProgressWorking, "")
	if err := os.WriteFile(path, []byte(plan.merged), plan.perm); err != nil {
		return f.fail(res, fxerrors.NewPhaseError(fxerrors.PhaseWrite, path, err))
	}
	f.emit(PhaseWrite, path, ProgressComplete, "")

	res.Succeeded = true
	res.MergedText = plan.merged
	res.Message = fmt.Sprintf("merged into %s using %s (backup %s)", filepath.Base(path), plan.strategy, filepath.Base(backup))
	log.Info().Str("path", path).Str("strategy", plan.strategy.String()).Str("backup", backup).Msg("orchestrator: merge written")
	return res
}

// Preview computes the merge MergeToFile would write, with a unified diff
// against the current content. It never writes.
func (f *FileMerger) Preview(ctx context.Context, path, generated string, s merge.Strategy) *MergeResult {
	res := &MergeResult{Path: path, Strategy: s}
	plan, err := f.prepare(ctx, path, generated, s)
	if err != nil {
		return f.fail(res, err)
	}
	diff, err := unifiedDiff(path, string(plan.original), plan.merged)
	if err != nil {
		return f.fail(res, fxerrors.NewPhaseError(fxerrors.PhaseMerge, path, err))
	}
	res.Succeeded = true
	res.Strategy = plan.strategy
	res.MergedText = plan.merged
	res.Diff = diff
	res.Message = fmt.Sprintf("preview of %s using %s", filepath.Base(path), plan.strategy)
	return res
}

// MergeToProject locates the best target under dir and merges into it.
func (f *FileMerger) MergeToProject(ctx context.Context, dir, generated string, s merge.Strategy) *MergeResult {
	target, err := f.FindTarget(ctx, dir)
	if err != nil {
		return f.fail(&MergeResult{Path: dir, Strategy: s}, fxerrors.NewPhaseError(fxerrors.PhaseAnalyze, dir, err))
	}
	return f.MergeToFile(ctx, target, generated, s)
}

// prepare reads the target, analyzes both sides and computes the merge.
func (f *FileMerger) prepare(ctx context.Context, path, generated string, s merge.Strategy) (*mergePlan, error) {
	f.emit(PhaseAnalyze, path, ProgressWorking, "")
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fxerrors.NewPhaseError(fxerrors.PhaseAnalyze, path, ErrTargetMissing)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return nil, fxerrors.NewPhaseError(fxerrors.PhaseAnalyze, path, err)
	}

	var existing, gen *source.Analysis
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		existing = f.analyzer.Analyze(string(original))
		return nil
	})
	g.Go(func() error {
		gen = f.analyzer.Analyze(generated)
		return nil
	})
	_ = g.Wait()
	f.emit(PhaseAnalyze, path, ProgressComplete, "")

	strategy := f.merger.Plan(existing, gen, s)
	f.emit(PhaseMerge, path, ProgressWorking, strategy.String())
	merged, err := f.merger.Merge(ctx, string(original), existing, gen, s)
	if err != nil {
		return nil, fxerrors.NewPhaseError(fxerrors.PhaseMerge, path, err)
	}
	f.emit(PhaseMerge, path, ProgressComplete, strategy.String())

	return &mergePlan{
		original: original,
		perm:     info.Mode().Perm(),
		merged:   merged,
		strategy: strategy,
	}, nil
}

func (f *FileMerger) fail(res *MergeResult, err error) *MergeResult {
	phase := phaseFor(fxerrors.PhaseOf(err))
	f.emit(phase, res.Path, ProgressFailed, err.Error())
	log.Warn().Err(err).Str("path", res.Path).Msg("orchestrator: merge failed")
	res.Succeeded = false
	res.Err = err
	res.Message = err.Error()
	return res
}

func (f *FileMerger) emit(p Phase, target string, st ProgressStatus, msg string) {
	if f.onProgress != nil {
		f.onProgress(ProgressEvent{Phase: p, Target: target, Status: st, Message: msg})
	}
}

func phaseFor(p fxerrors.Phase) Phase {
	switch p {
	case fxerrors.PhaseMerge:
		return PhaseMerge
	case fxerrors.PhaseBackup:
		return PhaseBackup
	case fxerrors.PhaseWrite:
		return PhaseWrite
	case fxerrors.PhaseCompile:
		return PhaseCompile
	case fxerrors.PhaseExecute:
		return PhaseExecute
	default:
		return PhaseAnalyze
	}
}

func unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (merged)",
		Context:  3,
	})
}
