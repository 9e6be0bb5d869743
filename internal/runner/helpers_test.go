package runner

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const fakeCompiler = `#!/bin/sh
out=""
src=""
while [ $# -gt 0 ]; do
  case "$1" in
    -d) out="$2"; shift 2 ;;
    *.java) src="$1"; shift ;;
    *) shift ;;
  esac
done
if grep -q BROKEN "$src"; then
  echo "$src:3: error: ';' expected" >&2
  exit 1
fi
cls=$(basename "$src" .java)
touch "$out/$cls.class"
echo "compiled $cls"
`

const helloSource = `import javafx.application.Application;
import javafx.stage.Stage;

public class Hello extends Application {
    public void start(Stage stage) {
        stage.show();
    }
}
`

// fakeToolchain returns a Toolchain whose compiler, runtime and inspector are
// shell scripts, with an existing library directory and no probe fallbacks.
func fakeToolchain(t *testing.T, runtimeBody string) *Toolchain {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain scripts need a POSIX shell")
	}
	bin := t.TempDir()
	lib := filepath.Join(t.TempDir(), "lib")
	require.NoError(t, os.MkdirAll(lib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "javafx.controls.jar"), nil, 0o644))

	tc := NewToolchain(lib)
	tc.CompilerPath = writeScript(t, bin, "javac", fakeCompiler)
	tc.RuntimePath = writeScript(t, bin, "java", runtimeBody)
	tc.InspectorPath = "fxforge-test-javap-not-installed"
	tc.WellKnownDirs = nil
	tc.MavenRepo = ""
	tc.HostClasspath = ""
	tc.ScratchRoot = t.TempDir()
	return tc
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

// requireEmptyDir asserts every scratch directory under root was removed.
func requireEmptyDir(t *testing.T, root string) {
	t.Helper()
	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(root)
		return err == nil && len(entries) == 0
	}, 5*time.Second, 20*time.Millisecond, "scratch directories left in %s", root)
}
