//go:build e2e

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/fxforge/internal/merge"
	"github.com/dusk-indust/fxforge/internal/orchestrator"
	"github.com/dusk-indust/fxforge/internal/source"
	"github.com/dusk-indust/fxforge/internal/status"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "java", name))
	require.NoError(t, err)
	return string(data)
}

// mergeFixture copies HelloApp.java into a temp dir and merges
// GeneratedForm.java into it with strategy s, for both analyzers.
func mergeFixture(t *testing.T, analyzer source.Analyzer, s merge.Strategy) (target, original string, res *orchestrator.MergeResult) {
	t.Helper()
	original = fixture(t, "HelloApp.java")
	target = filepath.Join(t.TempDir(), "HelloApp.java")
	require.NoError(t, os.WriteFile(target, []byte(original), 0o644))

	fm := orchestrator.NewFileMerger(merge.New(), orchestrator.WithAnalyzer(analyzer))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res = fm.MergeToFile(ctx, target, fixture(t, "GeneratedForm.java"), s)
	require.True(t, res.Succeeded, res.Message)
	return target, original, res
}

var analyzers = map[string]source.Analyzer{
	"regex":      source.RegexAnalyzer{},
	"treesitter": source.NewTreeSitterAnalyzer(),
}

func TestE2E_ReplaceClass(t *testing.T) {
	for name, analyzer := range analyzers {
		t.Run(name, func(t *testing.T) {
			_, _, res := mergeFixture(t, analyzer, merge.ReplaceClass)
			merged := res.MergedText

			a := source.RegexAnalyzer{}.Analyze(merged)
			assert.Equal(t, "com.example", a.PackageName)
			assert.Equal(t, "HelloApp", a.ClassName)
			assert.NotContains(t, merged, "GeneratedForm")
			assert.Contains(t, merged, "public HelloApp() {")
			assert.True(t, a.HasImport("javafx.scene.control.Label"))
			assert.True(t, a.HasImport("javafx.scene.control.TextField"))
			assert.Equal(t, []string{"start", "greet", "HelloApp", "main"}, a.MethodNames())
		})
	}
}

func TestE2E_InsertMethod(t *testing.T) {
	for name, analyzer := range analyzers {
		t.Run(name, func(t *testing.T) {
			_, original, res := mergeFixture(t, analyzer, merge.InsertMethod)
			merged := res.MergedText

			a := source.RegexAnalyzer{}.Analyze(merged)
			assert.Equal(t, []string{"start", "main", "greet", "HelloApp"}, a.MethodNames())
			assert.Equal(t, 1, strings.Count(merged, "void start("))

			origStart, _ := source.RegexAnalyzer{}.Analyze(original).Method("start")
			mergedStart, _ := a.Method("start")
			assert.Equal(t, origStart.Span, mergedStart.Span)
		})
	}
}

func TestE2E_AddComponent(t *testing.T) {
	for name, analyzer := range analyzers {
		t.Run(name, func(t *testing.T) {
			_, _, res := mergeFixture(t, analyzer, merge.AddComponent)

			start, ok := source.RegexAnalyzer{}.Analyze(res.MergedText).Method("start")
			require.True(t, ok)
			assert.Contains(t, start.Span, `        TextField name = new TextField();`)
			assert.Contains(t, start.Span, `        box.setPadding(new Insets(12));`)
			assert.NotContains(t, start.Span, "new Scene(box")
			assert.Contains(t, start.Span, "new Scene(root, 320, 240)")
		})
	}
}

func TestE2E_BackupAndRestoreRoundTrip(t *testing.T) {
	target, original, res := mergeFixture(t, source.RegexAnalyzer{}, merge.SmartMerge)

	backup, err := os.ReadFile(res.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))

	list, err := status.ListBackups(target)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.BackupPath, list[0].Path)

	_, err = status.Restore(target, list[0].Path, time.Now().Add(time.Second))
	require.NoError(t, err)
	restored, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, original, string(restored))
}
