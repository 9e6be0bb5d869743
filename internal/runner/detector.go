package runner

import (
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Environment is what the Detector found on this host.
type Environment struct {
	CompilerPath    string   `json:"compilerPath"`
	CompilerVersion string   `json:"compilerVersion,omitempty"`
	RuntimePath     string   `json:"runtimePath"`
	RuntimeVersion  string   `json:"runtimeVersion,omitempty"`
	JavaMajor       int      `json:"javaMajor"`
	HasInspector    bool     `json:"hasInspector"`
	LibraryPath     string   `json:"libraryPath,omitempty"`
	LibraryJars     []string `json:"libraryJars,omitempty"`
	Problems        []string `json:"problems,omitempty"`
}

// Ready reports whether compile and run can be attempted.
func (e Environment) Ready() bool {
	return e.CompilerVersion != "" && e.RuntimeVersion != "" && e.LibraryPath != ""
}

// Detector probes the local Java toolchain.
type Detector interface {
	Detect(ctx context.Context) Environment
}

// Compile-time check.
var _ Detector = (*DefaultDetector)(nil)

// DefaultDetector runs "-version" on each executable of a Toolchain and
// resolves its library path.
type DefaultDetector struct {
	tc           *Toolchain
	probeTimeout time.Duration
}

// NewDefaultDetector creates a DefaultDetector for tc.
func NewDefaultDetector(tc *Toolchain) *DefaultDetector {
	return &DefaultDetector{tc: tc, probeTimeout: 10 * time.Second}
}

// Detect implements Detector. Probe failures are recorded as problems.
func (d *DefaultDetector) Detect(ctx context.Context) Environment {
	env := Environment{CompilerPath: d.tc.CompilerPath, RuntimePath: d.tc.RuntimePath}

	if v, err := d.version(ctx, d.tc.CompilerPath, "-version"); err != nil {
		env.Problems = append(env.Problems, "compiler: "+err.Error())
	} else {
		env.CompilerVersion = v
	}
	if v, err := d.version(ctx, d.tc.RuntimePath, "-version"); err != nil {
		env.Problems = append(env.Problems, "runtime: "+err.Error())
	} else {
		env.RuntimeVersion = v
		env.JavaMajor = ParseJavaMajor(v)
	}
	if _, err := exec.LookPath(d.tc.InspectorPath); err == nil {
		env.HasInspector = true
	}

	lib, err := d.tc.ResolveLibraryPath()
	if err != nil {
		env.Problems = append(env.Problems, err.Error())
	} else {
		env.LibraryPath = lib
		jars, err := LibraryJars(lib)
		if err != nil {
			env.Problems = append(env.Problems, err.Error())
		}
		env.LibraryJars = jars
		if err == nil && len(jars) == 0 {
			env.Problems = append(env.Problems, "no jar files in "+lib)
		}
	}

	log.Info().
		Str("compiler", env.CompilerVersion).
		Str("runtime", env.RuntimeVersion).
		Int("major", env.JavaMajor).
		Str("library", env.LibraryPath).
		Int("problems", len(env.Problems)).
		Msg("detector: toolchain probed")
	return env
}

// Apply copies detected facts the Toolchain uses into tc.
func (e Environment) Apply(tc *Toolchain) {
	if e.JavaMajor > 0 {
		tc.JavaMajor = e.JavaMajor
	}
}

// version runs "<path> -version" and returns the first output line. Java
// prints its version on stderr.
func (d *DefaultDetector) version(ctx context.Context, path string, args ...string) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, path, args...).CombinedOutput()
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(first), nil
}

var versionNumber = regexp.MustCompile(`(\d+)(?:\.(\d+))?`)

// ParseJavaMajor extracts the major version from a version line such as
// `javac 21.0.2`, `openjdk version "17.0.9" 2023-10-17` or
// `java version "1.8.0_392"`. It returns 0 when no version is found.
func ParseJavaMajor(line string) int {
	if _, rest, ok := strings.Cut(line, `version "`); ok {
		line = rest
	}
	m := versionNumber.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	major, _ := strconv.Atoi(m[1])
	if major == 1 && m[2] != "" {
		major, _ = strconv.Atoi(m[2])
	}
	return major
}
