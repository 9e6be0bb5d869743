package merge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/fxforge/internal/source"
)

func analyze(text string) *source.Analysis {
	return source.RegexAnalyzer{}.Analyze(text)
}

func mergeText(t *testing.T, m *Merger, existing, generated string, s Strategy) string {
	t.Helper()
	ea := analyze(existing)
	out, err := m.Merge(context.Background(), existing, ea, analyze(generated), s)
	require.NoError(t, err)
	return out
}

const (
	shellApp = `package app;

import javafx.application.Application;
import javafx.stage.Stage;

public class Shell extends Application {

    @Override
    public void start(Stage stage) {
        stage.setTitle("Shell");
        stage.show();
    }
}
`
	generatedApp = `import javafx.application.Application;
import javafx.scene.Scene;
import javafx.scene.control.Button;
import javafx.scene.layout.VBox;
import javafx.stage.Stage;
import java.lang.String;

public class Gen extends Application {
    @Override
    public void start(Stage primaryStage) {
        Button go = new Button("Go");
        VBox root = new VBox(go);
        primaryStage.setScene(new Scene(root));
        primaryStage.show();
    }

    private void helper() {
        System.out.println("helper");
    }
}
`
)

func TestReplaceClass_ScenarioWithAlignment(t *testing.T) {
	existing := "class Foo { }"
	generated := "package p; import javafx.scene.Scene; class Bar { void start(){} }"

	out := mergeText(t, New(), existing, generated, ReplaceClass)

	assert.Contains(t, out, "import javafx.scene.Scene;")
	assert.Contains(t, out, "void start(){}")
	assert.NotContains(t, out, "class Bar")
	assert.NotContains(t, out, "package p;")
	assert.Equal(t, "Foo", analyze(out).ClassName)
}

func TestReplaceClass_ScenarioWithoutAlignment(t *testing.T) {
	existing := "class Foo { }"
	generated := "package p; import javafx.scene.Scene; class Bar { void start(){} }"

	out := mergeText(t, New(WithoutNameAlignment()), existing, generated, ReplaceClass)

	assert.Contains(t, out, "import javafx.scene.Scene;")
	assert.Contains(t, out, "class Bar { void start(){} }")
	assert.Equal(t, "Bar", analyze(out).ClassName)
}

func TestReplaceClass_PackageImportsAndConstructors(t *testing.T) {
	existing := "package app;\n\nimport z.Last;\nimport a.First;\n\npublic class Main {\n}\n"
	generated := "import a.First;\nimport m.Mid;\n\npublic class Gen {\n    public Gen() {\n    }\n    static Object make() { return new Gen(); }\n}\n"

	out := mergeText(t, New(), existing, generated, ReplaceClass)

	assert.True(t, strings.HasPrefix(out, "package app;\n\nimport a.First;\nimport m.Mid;\nimport z.Last;\n\npublic class Main {"), out)
	assert.Contains(t, out, "public Main() {")
	assert.Contains(t, out, "static Object make() { return new Main(); }")
	assert.NotContains(t, out, "Gen")
	assert.Equal(t, 1, strings.Count(out, "import a.First;"))
}

func TestReplaceClass_RenameLeavesLiteralsAndVariables(t *testing.T) {
	existing := "public class Foo { }"
	generated := `public class Bar extends Application {
    public void start(Stage s) { s.setTitle("Bar demo"); String Bar = "x"; }
    public static void main(String[] args) { launch(Bar.class, args); }
}`

	out := mergeText(t, New(), existing, generated, ReplaceClass)

	assert.Contains(t, out, "public class Foo extends Application {")
	assert.Contains(t, out, `s.setTitle("Bar demo");`)
	assert.Contains(t, out, `String Bar = "x";`)
	assert.Contains(t, out, "launch(Foo.class, args);")
	assert.NotContains(t, out, "class Bar")
}

func TestReplaceClass_KeepsClassAnnotations(t *testing.T) {
	existing := "public class Foo { }"
	generated := "@SuppressWarnings(\"unchecked\")\npublic class Bar { void start(){} }"

	out := mergeText(t, New(), existing, generated, ReplaceClass)
	assert.Contains(t, out, "@SuppressWarnings(\"unchecked\")\npublic class Foo {")
}

func TestReplaceClass_ReanalysisKeepsExistingClassName(t *testing.T) {
	out := mergeText(t, New(), shellApp, generatedApp, ReplaceClass)
	a := analyze(out)
	assert.Equal(t, "Shell", a.ClassName)
	assert.Equal(t, "app", a.PackageName)
}

func TestInsertMethod_Scenario(t *testing.T) {
	out := mergeText(t, New(), shellApp, generatedApp, InsertMethod)
	a := analyze(out)

	assert.Equal(t, []string{"start", "helper"}, a.MethodNames())
	orig, _ := analyze(shellApp).Method("start")
	merged, _ := a.Method("start")
	assert.Equal(t, orig.Span, merged.Span)
	assert.Contains(t, out, "    }\n\n    private void helper() {\n        System.out.println(\"helper\");\n    }\n}\n")
}

func TestInsertMethod_NeverDuplicates(t *testing.T) {
	out := mergeText(t, New(), shellApp, generatedApp, InsertMethod)
	assert.Equal(t, 1, strings.Count(out, "void start("))

	again := mergeText(t, New(), out, generatedApp, InsertMethod)
	assert.Equal(t, out, again)
}

func TestInsertMethod_Imports(t *testing.T) {
	out := mergeText(t, New(), shellApp, generatedApp, InsertMethod)

	assert.Contains(t, out, "import javafx.stage.Stage;\nimport javafx.scene.Scene;\nimport javafx.scene.control.Button;\nimport javafx.scene.layout.VBox;\n")
	assert.NotContains(t, out, "java.lang.String")
	assert.Equal(t, 1, strings.Count(out, "import javafx.application.Application;"))
}

func TestInsertMethod_ImportsAfterPackageWhenNoImports(t *testing.T) {
	existing := "package app;\n\nclass Plain {\n    void a() {\n    }\n}\n"
	generated := "import x.Y;\nclass G {\n    void b() {\n    }\n}\n"

	out := mergeText(t, New(), existing, generated, InsertMethod)
	assert.True(t, strings.HasPrefix(out, "package app;\n\nimport x.Y;\n"), out)
	assert.Equal(t, []string{"a", "b"}, analyze(out).MethodNames())
}

// Overloads are matched on name only: a generated add(int, int, int) is not
// inserted when add(int, int) already exists.
func TestInsertMethod_OverloadsMatchedOnName(t *testing.T) {
	existing := "class Calc {\n    int add(int a, int b) {\n        return a + b;\n    }\n}\n"
	generated := "class Calc {\n    int add(int a, int b, int c) {\n        return a + b + c;\n    }\n}\n"

	out := mergeText(t, New(), existing, generated, InsertMethod)
	assert.Equal(t, existing, out)
}

func TestInsertMethod_RenamesGeneratedConstructor(t *testing.T) {
	existing := "class Host {\n    void run() {\n    }\n}\n"
	generated := "class Gen {\n    public Gen() {\n        setLabel(\"Gen ready\");\n    }\n}\n"

	out := mergeText(t, New(), existing, generated, InsertMethod)
	assert.Contains(t, out, "public Host() {")
	assert.Contains(t, out, `setLabel("Gen ready");`)
	assert.NotContains(t, out, "public Gen(")
}

func TestInsertMethod_MissingClassBodyUnchanged(t *testing.T) {
	existing := "class Broken {\n    void a() {\n"
	out := mergeText(t, New(), existing, generatedApp, InsertMethod)
	assert.Equal(t, existing, out)
}

func TestAddComponent_Scenario(t *testing.T) {
	existing := "public class Shell extends Application {\n    public void start(Stage stage) { }\n}\n"

	out := mergeText(t, New(), existing, generatedApp, AddComponent)

	start, ok := analyze(out).Method("start")
	require.True(t, ok)
	assert.Contains(t, start.Span, `Button go = new Button("Go");`)
	assert.Contains(t, start.Span, "VBox root = new VBox(go);")
	assert.NotContains(t, start.Span, "setScene")
	assert.NotContains(t, start.Span, "primaryStage.show")
	assert.Contains(t, out, "        // --- generated UI components ---\n        Button go = new Button(\"Go\");\n")
}

func TestAddComponent_FallsBackToInitialize(t *testing.T) {
	existing := "public class Ctl {\n    public void initialize() {\n        load();\n    }\n}\n"

	out := mergeText(t, New(), existing, generatedApp, AddComponent)
	init, ok := analyze(out).Method("initialize")
	require.True(t, ok)
	assert.Contains(t, init.Span, `new Button("Go")`)
	assert.Contains(t, init.Span, "load();")
}

func TestAddComponent_NoEntryPointUnchanged(t *testing.T) {
	existing := "public class Model {\n    int x() {\n        return 1;\n    }\n}\n"
	assert.Equal(t, existing, mergeText(t, New(), existing, generatedApp, AddComponent))
}

func TestAddComponent_NothingToExtractUnchanged(t *testing.T) {
	generated := "class G {\n    public void start(Stage s) {\n        s.show();\n    }\n}\n"
	assert.Equal(t, shellApp, mergeText(t, New(), shellApp, generated, AddComponent))
}

func TestUIConstructionLines_KeepsRelativeIndent(t *testing.T) {
	g := analyze("class G {\n    public void start(Stage s) {\n        Button b = new Button(\"x\");\n        b.setOnAction(e -> {\n            run();\n        });\n        s.setScene(new Scene(b));\n    }\n}\n")
	assert.Equal(t,
		"        Button b = new Button(\"x\");\n        b.setOnAction(e -> {\n            run();\n        });\n",
		uiConstructionLines(g))
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	for _, s := range []Strategy{ReplaceClass, InsertMethod, AddComponent, SmartMerge} {
		t.Run(s.String(), func(t *testing.T) {
			ea, ga := analyze(shellApp), analyze(generatedApp)
			eCopy, gCopy := *ea, *ga
			eCopy.Methods = append([]source.Method(nil), ea.Methods...)
			gCopy.Imports = append([]string(nil), ga.Imports...)

			_, err := New().Merge(context.Background(), shellApp, ea, ga, s)
			require.NoError(t, err)
			assert.Equal(t, eCopy, *ea)
			assert.Equal(t, gCopy, *ga)
		})
	}
}

func TestMerge_UnknownStrategy(t *testing.T) {
	_, err := New().Merge(context.Background(), "", analyze(""), analyze(""), Strategy("bogus"))
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{
		"ReplaceClass":  ReplaceClass,
		"insert-method": InsertMethod,
		"ADD_COMPONENT": AddComponent,
		"SmartMerge":    SmartMerge,
		"":              SmartMerge,
		"AIAssisted":    AIAssisted,
		"ai":            AIAssisted,
	} {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStrategy("rebase")
	assert.Error(t, err)

	for _, s := range Strategies() {
		assert.NotEqual(t, "unknown strategy", s.Description())
	}
}
