// Package spawn clones the master template into a new keyword-named project, initializes
// its git repository and injects the keyword into the landing-page heading.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"spawner/config"
)

// Reporter receives the human-readable progress messages of a run.
type Reporter interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
}

type nopReporter struct{}

func (nopReporter) Info(string)    {}
func (nopReporter) Warn(string)    {}
func (nopReporter) Success(string) {}

// Outcome is what a run did with the target directory.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
)

// HeadingOutcome is what happened to the landing-page heading.
type HeadingOutcome string

const (
	HeadingInjected    HeadingOutcome = "injected"
	HeadingMissingFile HeadingOutcome = "missing-file"
	HeadingDisabled    HeadingOutcome = "disabled"
)

// Result summarizes one Spawn call.
type Result struct {
	Keyword   string
	Slug      string
	Target    string
	Outcome   Outcome
	Copy      CopyStats
	CommitSHA string // empty when git was skipped
	Heading   HeadingOutcome
}

// Spawner creates projects from the configured master template.
type Spawner struct {
	cfg      *config.Config
	matcher  *Matcher
	git      *GitRunner
	heading  HeadingInjector
	reporter Reporter
	logger   *slog.Logger
}

// Option customizes a Spawner.
type Option func(*Spawner)

// WithReporter sets where progress messages go. The default discards them.
func WithReporter(r Reporter) Option {
	return func(s *Spawner) { s.reporter = r }
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Spawner) { s.logger = l }
}

// New returns a Spawner for a resolved configuration.
func New(cfg *config.Config, opts ...Option) (*Spawner, error) {
	matcher, err := NewMatcher(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	s := &Spawner{
		cfg:     cfg,
		matcher: matcher,
		heading: HeadingInjector{
			Tag:       cfg.Heading.Tag,
			ClassName: cfg.Heading.ClassName,
			Suffix:    cfg.Heading.Suffix,
		},
		reporter: nopReporter{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.git = &GitRunner{
		Binary:      cfg.Git.Binary,
		UsePTY:      cfg.Git.UsePTY,
		AuthorName:  cfg.Git.AuthorName,
		AuthorEmail: cfg.Git.AuthorEmail,
		Logger:      s.logger,
	}
	return s, nil
}

// TargetPath returns the project directory for a slug.
func (s *Spawner) TargetPath(slug string) string {
	return filepath.Join(s.cfg.ProjectsRoot, s.cfg.DirPrefix+slug)
}

// Spawn creates the project for keyword. An existing target directory is never touched;
// what happens instead depends on the configured exists policy.
func (s *Spawner) Spawn(ctx context.Context, keyword string) (*Result, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}

	slug := Slugify(keyword)
	if err := checkSlug(slug); err != nil {
		return nil, err
	}
	result := &Result{
		Keyword: keyword,
		Slug:    slug,
		Target:  s.TargetPath(slug),
		Heading: HeadingDisabled,
	}
	logger := s.logger.With("slug", slug, "target", result.Target)

	exists, err := pathExists(result.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to check target directory: %w", err)
	}
	if exists {
		switch s.cfg.OnExists {
		case config.ExistsError:
			return nil, fmt.Errorf("%w: %s", ErrTargetExists, result.Target)
		case config.ExistsWarn:
			s.reporter.Warn(fmt.Sprintf("⚠️  Project %s already exists, skipping.", slug))
		}
		logger.Info("Target already exists, skipping", "policy", s.cfg.OnExists)
		result.Outcome = OutcomeSkipped
		return result, nil
	}

	s.reporter.Info(fmt.Sprintf("🚀 Cloning master template into new project: %s...", slug))
	logger.Info("Copying template", "template", s.cfg.TemplateDir, "exclude", s.cfg.Exclude)

	stats, err := CopyTree(s.cfg.TemplateDir, result.Target, s.matcher)
	result.Copy = stats
	if err != nil {
		return result, err
	}
	result.Outcome = OutcomeCreated
	logger.Info("Template copied", "files", stats.Files, "dirs", stats.Dirs, "excluded", stats.Excluded)

	if !s.cfg.Git.Skip {
		s.reporter.Info("📦 Initializing git repository...")
		sha, err := s.git.InitialCommit(ctx, result.Target, s.cfg.Git.CommitMessage)
		if err != nil {
			return result, fmt.Errorf("failed to initialize repository in %s: %w", result.Target, err)
		}
		result.CommitSHA = sha
		logger.Info("Created initial commit", "sha", sha)
	}

	if !s.cfg.Heading.Skip {
		heroPath := filepath.Join(result.Target, filepath.FromSlash(s.cfg.Heading.File))
		injected, err := s.heading.InjectFile(heroPath, Titleize(keyword))
		if err != nil {
			return result, err
		}
		if injected {
			result.Heading = HeadingInjected
			s.reporter.Info(fmt.Sprintf("✨ Landing page heading injected: %s", keyword))
		} else {
			result.Heading = HeadingMissingFile
			logger.Debug("Heading file not present, skipping injection", "file", s.cfg.Heading.File)
		}
	}

	s.reporter.Success(fmt.Sprintf("✅ Project ready: %s", result.Target))
	return result, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
