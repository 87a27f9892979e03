// Package config loads spawner settings from an optional YAML file and the environment.
//
// Precedence, lowest to highest: built-in defaults, the YAML file, environment variables,
// and finally CLI flags (applied by the cmd package before Resolve is called).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// DefaultFile is read when no config path is given and the file exists in the working directory
	DefaultFile = "spawner.yml"

	// EnvConfigPath names an alternative config file
	EnvConfigPath = "SPAWNER_CONFIG"
)

// ExistsPolicy controls what happens when the target project directory already exists.
type ExistsPolicy string

const (
	// ExistsWarn prints a warning and skips the run (exit 0).
	ExistsWarn ExistsPolicy = "warn"
	// ExistsSkip skips the run without any output.
	ExistsSkip ExistsPolicy = "skip"
	// ExistsError fails the run.
	ExistsError ExistsPolicy = "error"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for spawner.
type Config struct {
	// TemplateDir is the master template that every project is cloned from.
	TemplateDir string `yaml:"template_dir" env:"SPAWNER_TEMPLATE_DIR"`

	// ProjectsRoot is where new projects are created. Defaults to the parent of TemplateDir,
	// so spawned projects end up as siblings of the template.
	ProjectsRoot string `yaml:"projects_root" env:"SPAWNER_PROJECTS_ROOT"`

	DirPrefix string       `yaml:"dir_prefix" env:"SPAWNER_DIR_PREFIX" env-default:"SaaS-"`
	Exclude   []string     `yaml:"exclude" env:"SPAWNER_EXCLUDE" env-separator:"," env-default:".git,node_modules,.next"`
	OnExists  ExistsPolicy `yaml:"on_exists" env:"SPAWNER_ON_EXISTS" env-default:"warn"`
	LogLevel  string       `yaml:"log_level" env:"SPAWNER_LOG_LEVEL" env-default:"warn"`

	Git     GitConfig     `yaml:"git"`
	Heading HeadingConfig `yaml:"heading"`
}

// GitConfig holds settings for the repository created inside each new project.
type GitConfig struct {
	// Skip disables git initialization entirely.
	Skip          bool   `yaml:"skip" env:"SPAWNER_SKIP_GIT"`
	Binary        string `yaml:"binary" env:"SPAWNER_GIT_BINARY" env-default:"git"`
	CommitMessage string `yaml:"commit_message" env:"SPAWNER_COMMIT_MESSAGE" env-default:"Initial commit from SaaS Master Template"`
	// UsePTY streams git output through a pseudo-terminal (ignored on Windows).
	UsePTY bool `yaml:"use_pty" env:"SPAWNER_GIT_PTY"`

	// Identity used only when git has no user.name/user.email configured.
	AuthorName  string `yaml:"author_name" env:"SPAWNER_GIT_AUTHOR_NAME" env-default:"Spawner"`
	AuthorEmail string `yaml:"author_email" env:"SPAWNER_GIT_AUTHOR_EMAIL" env-default:"spawner@localhost"`
}

// HeadingConfig describes the landing-page heading that receives the keyword.
type HeadingConfig struct {
	Skip      bool   `yaml:"skip" env:"SPAWNER_SKIP_HEADING"`
	File      string `yaml:"file" env:"SPAWNER_HEADING_FILE" env-default:"components/home/hero.tsx"`
	Tag       string `yaml:"tag" env:"SPAWNER_HEADING_TAG" env-default:"h1"`
	ClassName string `yaml:"class_name" env:"SPAWNER_HEADING_CLASS" env-default:"text-5xl font-semibold tracking-tight text-pretty text-foreground sm:text-7xl"`
	Suffix    string `yaml:"suffix" env:"SPAWNER_HEADING_SUFFIX" env-default:": AI Powered SEO"`
}

// ResolvePath picks the config file to read: the explicit path, then $SPAWNER_CONFIG,
// then DefaultFile if it exists. An empty result means environment and defaults only.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Load reads configuration from the YAML file at path (if non-empty) with environment
// variable overrides. The result still needs Resolve before use.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve fills derived fields, makes paths absolute and validates the result.
func (c *Config) Resolve() error {
	if c.TemplateDir == "" {
		return fmt.Errorf("%w: template_dir is required (set --template-dir or SPAWNER_TEMPLATE_DIR)", ErrInvalidConfig)
	}

	templateDir, err := filepath.Abs(c.TemplateDir)
	if err != nil {
		return fmt.Errorf("failed to resolve template_dir: %w", err)
	}
	c.TemplateDir = templateDir

	if c.ProjectsRoot == "" {
		c.ProjectsRoot = filepath.Dir(c.TemplateDir)
	}
	projectsRoot, err := filepath.Abs(c.ProjectsRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve projects_root: %w", err)
	}
	c.ProjectsRoot = projectsRoot

	if c.OnExists == "" {
		c.OnExists = ExistsWarn
	}
	c.OnExists = ExistsPolicy(strings.ToLower(string(c.OnExists)))

	return c.Validate()
}

// Validate checks the configuration without modifying it.
func (c *Config) Validate() error {
	switch c.OnExists {
	case ExistsWarn, ExistsSkip, ExistsError:
	default:
		return fmt.Errorf("%w: unknown on_exists policy %q (want warn, skip or error)", ErrInvalidConfig, c.OnExists)
	}

	if strings.ContainsAny(c.DirPrefix, `/\`) {
		return fmt.Errorf("%w: dir_prefix must not contain path separators: %q", ErrInvalidConfig, c.DirPrefix)
	}

	for _, pattern := range c.Exclude {
		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: invalid exclude pattern %q", ErrInvalidConfig, pattern)
		}
	}

	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if !c.Git.Skip && c.Git.Binary == "" {
		return fmt.Errorf("%w: git.binary must not be empty", ErrInvalidConfig)
	}

	if !c.Heading.Skip {
		if err := ValidateRelativePath(c.Heading.File); err != nil {
			return fmt.Errorf("%w: heading.file: %v", ErrInvalidConfig, err)
		}
		if c.Heading.Tag == "" {
			return fmt.Errorf("%w: heading.tag must not be empty", ErrInvalidConfig)
		}
	}

	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}
