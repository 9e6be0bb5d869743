package export

import (
	"encoding/json"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/fxforge/internal/source"
)

func fixture(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", "java", name)
}

func TestExportFile(t *testing.T) {
	e, err := ExportFile(fixture("HelloApp.java"), source.RegexAnalyzer{})
	require.NoError(t, err)

	assert.Equal(t, "com.example", e.Package)
	assert.Equal(t, "HelloApp", e.Class)
	assert.True(t, e.IsApplication)
	assert.Contains(t, e.Imports, "javafx.scene.Scene")
	require.Len(t, e.Methods, 2)
	assert.Equal(t, "start", e.Methods[0].Name)
	assert.Greater(t, e.Methods[0].Lines, 1)
	assert.Greater(t, e.Methods[0].End, e.Methods[0].Start)

	data, err := e.JSON()
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "HelloApp", back["class"])
	assert.NotEmpty(t, back["exportedAt"])
}

func TestExportFile_Missing(t *testing.T) {
	_, err := ExportFile(filepath.Join(t.TempDir(), "nope.java"), source.RegexAnalyzer{})
	assert.Error(t, err)
}

func TestFromAnalysis_EmptySource(t *testing.T) {
	e := FromAnalysis("", source.RegexAnalyzer{}.Analyze(""))
	assert.NotNil(t, e.Imports)
	assert.NotNil(t, e.Methods)
	assert.False(t, e.IsApplication)

	data, err := e.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"imports": []`)
}

func TestGenerateMermaid(t *testing.T) {
	text := `package demo;
import java.util.*;
import javafx.scene.control.Button;
public class Form extends javafx.application.Application {
    public void start(javafx.stage.Stage stage) { }
    private java.util.List<String> names(Map<String, Integer> m) { return null; }
}
`
	got := GenerateMermaid(FromAnalysis("Form.java", source.RegexAnalyzer{}.Analyze(text)))

	assert.Contains(t, got, "classDiagram\n  class Form {\n    <<Application>>\n")
	assert.Contains(t, got, "    +start(javafx.stage.Stage stage)\n")
	assert.Contains(t, got, "    +names(Map~String, Integer~ m)\n")
	assert.Contains(t, got, "  Form ..> Button\n")
	assert.Contains(t, got, `  note for Form "java.util.*"`)
	assert.Contains(t, got, `  note "package demo"`)
}

func TestGenerateMermaid_NoClass(t *testing.T) {
	got := GenerateMermaid(&AnalysisExport{})
	assert.Equal(t, "classDiagram\n  class Unnamed {\n  }\n", got)
}
