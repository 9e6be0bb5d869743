package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/fxforge/internal/source"
)

func TestMerge_EmbedsBothSourcesAndSummaries(t *testing.T) {
	existing := source.RegexAnalyzer{}.Analyze("package app;\npublic class Main extends Application {\n    public void start(Stage s) {\n    }\n}\n")
	generated := source.RegexAnalyzer{}.Analyze("class Gen {\n    public static void main(String[] a) {\n    }\n}\n")

	out, err := Merge(existing, generated)
	require.NoError(t, err)

	assert.Contains(t, out, "- package: app")
	assert.Contains(t, out, "- package: none")
	assert.Contains(t, out, "- class: Main")
	assert.Contains(t, out, "- class: Gen")
	assert.Contains(t, out, "- has start: yes")
	assert.Contains(t, out, "- has main: yes")
	assert.Contains(t, out, "```java\n"+existing.FullText)
	assert.Contains(t, out, "```java\n"+generated.FullText)
	assert.Contains(t, out, "first file (Main).")
}

func TestSystemPrompts(t *testing.T) {
	assert.Contains(t, CodegenSystem(), "JavaFX")
	assert.Contains(t, ChatSystem(), `"tool"`)
	assert.NotContains(t, ChatSystem(), "\n\n\n")
}
