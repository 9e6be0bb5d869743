package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/fxforge/internal/merge"
)

// ProjectConfig holds project-level settings loaded from fxforge.yml.
type ProjectConfig struct {
	LibraryPath   string        `yaml:"libraryPath,omitempty"`
	Modules       []string      `yaml:"modules,omitempty"`
	CompilerPath  string        `yaml:"compilerPath,omitempty"`
	RuntimePath   string        `yaml:"runtimePath,omitempty"`
	InspectorPath string        `yaml:"inspectorPath,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	Grace         time.Duration `yaml:"grace,omitempty"`
	Strategy      string        `yaml:"strategy,omitempty"`
	AlignNames    *bool         `yaml:"alignNames,omitempty"`
	Analyzer      string        `yaml:"analyzer,omitempty"`
	ExcludeGlobs  []string      `yaml:"excludeGlobs,omitempty"`
	Model         string        `yaml:"model,omitempty"`
	Endpoint      string        `yaml:"endpoint,omitempty"`
	APIKeyEnv     string        `yaml:"apiKeyEnv,omitempty"`
	LogLevel      string        `yaml:"logLevel,omitempty"`

	// APIKey is never read from the YAML file; it comes from the environment
	// or a .env file next to the config.
	APIKey string `yaml:"-"`
}

// Environment variables that override file settings.
const (
	EnvLibraryPath = "FXFORGE_LIBRARY_PATH"
	EnvAPIKey      = "FXFORGE_API_KEY"
	EnvModel       = "FXFORGE_MODEL"
	EnvEndpoint    = "FXFORGE_ENDPOINT"
	EnvLogLevel    = "FXFORGE_LOG_LEVEL"

	// DefaultAPIKeyEnv is consulted when FXFORGE_API_KEY is unset.
	DefaultAPIKeyEnv = "DASHSCOPE_API_KEY"
)

// Load attempts to read fxforge.yml or fxforge.yaml from the given directory,
// loads a .env file from the same directory if present, and applies
// environment overrides. Returns a zero-value config (not an error) if no
// config file exists.
func Load(dir string) (*ProjectConfig, error) {
	// A missing .env is normal; variables already set win over the file.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := &ProjectConfig{}
	for _, name := range []string{"fxforge.yml", "fxforge.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", name, err)
		}
		break
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *ProjectConfig) applyEnv() {
	if v := os.Getenv(EnvLibraryPath); v != "" {
		c.LibraryPath = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	keyEnv := c.APIKeyEnv
	if keyEnv == "" {
		keyEnv = DefaultAPIKeyEnv
	}
	c.APIKey = firstNonEmpty(os.Getenv(EnvAPIKey), os.Getenv(keyEnv))
}

// Validate reports settings that cannot work.
func (c *ProjectConfig) Validate() error {
	var problems []string
	if c.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}
	if c.Grace < 0 {
		problems = append(problems, "grace must not be negative")
	}
	switch strings.ToLower(c.Analyzer) {
	case "", "regex", "treesitter", "tree-sitter":
	default:
		problems = append(problems, fmt.Sprintf("unknown analyzer %q", c.Analyzer))
	}
	if _, err := merge.ParseStrategy(c.Strategy); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// AlignClassNames reports whether ReplaceClass should rename the generated
// class; it defaults to true.
func (c *ProjectConfig) AlignClassNames() bool {
	return c.AlignNames == nil || *c.AlignNames
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
