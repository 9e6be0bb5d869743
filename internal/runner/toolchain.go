// Package runner compiles generated JavaFX source in a scratch directory and
// runs it in a separate process with a bounded wait.
package runner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
)

// DefaultModules are the JavaFX modules passed to --add-modules.
var DefaultModules = []string{
	"javafx.controls",
	"javafx.fxml",
	"javafx.graphics",
	"javafx.base",
	"javafx.media",
	"javafx.swing",
	"javafx.web",
}

// DefaultWellKnownDirs are probed when no library path is configured or the
// configured one is missing.
func DefaultWellKnownDirs() []string {
	dirs := []string{
		`C:\Program Files\Java\javafx-sdk-21.0.3\lib`,
		`C:\javafx-sdk-21.0.3\lib`,
		`D:\javafx-sdk-21.0.3\lib`,
		"/usr/share/openjfx/lib",
		"/opt/javafx-sdk-21.0.3/lib",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Downloads", "javafx-sdk-21.0.3", "lib"))
	}
	return dirs
}

// Toolchain is the compile and run configuration shared by the Compiler and
// the Executor. The library path is the only field that changes after
// construction; SetLibraryPath is last-writer-wins and safe for concurrent use.
type Toolchain struct {
	CompilerPath  string
	RuntimePath   string
	InspectorPath string
	Modules       []string
	HostClasspath string
	WellKnownDirs []string
	MavenRepo     string
	ScratchRoot   string
	// JavaMajor is the detected runtime major version, or 0 when unknown.
	// Module flags are skipped for runtimes older than 9.
	JavaMajor int

	mu          sync.RWMutex
	libraryPath string
}

// NewToolchain returns a Toolchain using javac/java/javap from PATH.
func NewToolchain(libraryPath string) *Toolchain {
	tc := &Toolchain{
		CompilerPath:  "javac",
		RuntimePath:   "java",
		InspectorPath: "javap",
		Modules:       append([]string(nil), DefaultModules...),
		HostClasspath: os.Getenv("CLASSPATH"),
		WellKnownDirs: DefaultWellKnownDirs(),
		libraryPath:   libraryPath,
	}
	if home, err := os.UserHomeDir(); err == nil {
		tc.MavenRepo = filepath.Join(home, ".m2", "repository")
	}
	return tc
}

// LibraryPath returns the configured JavaFX library path.
func (tc *Toolchain) LibraryPath() string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.libraryPath
}

// SetLibraryPath replaces the configured JavaFX library path.
func (tc *Toolchain) SetLibraryPath(path string) {
	tc.mu.Lock()
	tc.libraryPath = path
	tc.mu.Unlock()
}

// SetFXConfig applies a legacy "MODULE_PATH=<path>;" configuration string.
func (tc *Toolchain) SetFXConfig(config string) error {
	path, ok := ParseFXConfig(config)
	if !ok {
		return fxerrors.NewConfigurationError(fxerrors.PhaseConfigure, "javafx", config, "no MODULE_PATH in JavaFX config")
	}
	tc.SetLibraryPath(path)
	return nil
}

// ParseFXConfig extracts the path from "MODULE_PATH=<path>;". The trailing
// semicolon is optional.
func ParseFXConfig(config string) (string, bool) {
	_, rest, found := strings.Cut(config, "MODULE_PATH=")
	if !found {
		return "", false
	}
	path, _, _ := strings.Cut(rest, ";")
	path = strings.TrimSpace(path)
	return path, path != ""
}

// ResolveLibraryPath probes, in order, the configured path, the well-known
// install directories, and the Maven cache. The first existing candidate is
// returned; a configured path that does not exist is reported by name when
// nothing else is found.
func (tc *Toolchain) ResolveLibraryPath() (string, error) {
	configured := tc.LibraryPath()
	if configured != "" && exists(configured) {
		return configured, nil
	}
	for _, dir := range tc.WellKnownDirs {
		if isDir(dir) {
			return dir, nil
		}
	}
	if dir := tc.probeMaven(); dir != "" {
		return dir, nil
	}
	if configured != "" {
		return "", fxerrors.NewConfigurationError(fxerrors.PhaseConfigure, "libraryPath", configured, "JavaFX path does not exist")
	}
	return "", fxerrors.NewConfigurationError(fxerrors.PhaseConfigure, "libraryPath", "", "JavaFX library path not configured and not found in well-known locations")
}

// probeMaven returns the lexicographically greatest version directory under
// org/openjfx/javafx-*, preferring a lib/ subdirectory when it has one.
func (tc *Toolchain) probeMaven() string {
	if tc.MavenRepo == "" || !isDir(tc.MavenRepo) {
		return ""
	}
	matches, err := doublestar.Glob(os.DirFS(tc.MavenRepo), "org/openjfx/javafx-*/*")
	if err != nil || len(matches) == 0 {
		return ""
	}
	var best, bestVersion string
	sort.Strings(matches)
	for _, m := range matches {
		full := filepath.Join(tc.MavenRepo, filepath.FromSlash(m))
		if !isDir(full) {
			continue
		}
		version := filepath.Base(full)
		if version > bestVersion {
			best, bestVersion = full, version
		}
	}
	if best == "" {
		return ""
	}
	if lib := filepath.Join(best, "lib"); isDir(lib) {
		return lib
	}
	return best
}

// classpath joins the scratch directory, the host classpath and the JavaFX
// library. A directory library contributes "<dir>/*".
func (tc *Toolchain) classpath(scratch, lib string) string {
	parts := []string{scratch}
	if tc.HostClasspath != "" {
		parts = append(parts, tc.HostClasspath)
	}
	if isJar(lib) {
		parts = append(parts, lib)
	} else {
		parts = append(parts, filepath.Join(lib, "*"))
	}
	return strings.Join(parts, string(os.PathListSeparator))
}

// moduleFlags returns --module-path/--add-modules for modular runtimes.
func (tc *Toolchain) moduleFlags(lib string) []string {
	if tc.JavaMajor != 0 && tc.JavaMajor < 9 {
		return nil
	}
	modulePath := lib
	if isJar(lib) {
		modulePath = filepath.Dir(lib)
	}
	return []string{"--module-path", modulePath, "--add-modules", strings.Join(tc.Modules, ",")}
}

// LibraryJars lists the jar files in a JavaFX library directory.
func LibraryJars(lib string) ([]string, error) {
	if isJar(lib) {
		return []string{filepath.Base(lib)}, nil
	}
	entries, err := os.ReadDir(lib)
	if err != nil {
		return nil, fxerrors.NewConfigurationError(fxerrors.PhaseConfigure, "libraryPath", lib, "cannot list JavaFX library").WithCause(err)
	}
	var jars []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jar") {
			jars = append(jars, e.Name())
		}
	}
	return jars, nil
}

// childEnv is the current environment minus the JavaFX variables that would
// override the explicit module path.
func childEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "JAVAFX_MODULE_PATH=") || strings.HasPrefix(kv, "JAVAFX_HOME=") {
			continue
		}
		env = append(env, kv)
	}
	return env
}

func isJar(path string) bool { return strings.HasSuffix(strings.ToLower(path), ".jar") }

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
