package orchestrator

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/fxforge/internal/source"
)

// scanWorkers bounds concurrent candidate reads.
const scanWorkers = 8

// FindTarget scans dir for .java files and picks the merge target: the
// first JavaFX application class in walk order, else the first candidate.
// Files whose name contains "Test" or "test" and paths matching an exclude
// pattern are skipped.
func (f *FileMerger) FindTarget(ctx context.Context, dir string) (string, error) {
	candidates, err := f.candidates(dir)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", ErrNoCandidate
	}

	isApp := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanWorkers)
	for i, path := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				// Unreadable files are not candidates.
				return nil
			}
			isApp[i] = source.IsFXApplication(string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	for i, ok := range isApp {
		if ok {
			return candidates[i], nil
		}
	}
	return candidates[0], nil
}

func (f *FileMerger) candidates(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".java") {
			return nil
		}
		if strings.Contains(d.Name(), "Test") || strings.Contains(d.Name(), "test") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if f.excluded(filepath.ToSlash(rel)) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}

func (f *FileMerger) excluded(rel string) bool {
	for _, pattern := range f.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
