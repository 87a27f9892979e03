package spawn

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Plan describes what Spawn would do for a keyword, without doing any of it.
type Plan struct {
	Keyword      string   `yaml:"keyword"`
	Slug         string   `yaml:"slug"`
	Title        string   `yaml:"title"`
	Template     string   `yaml:"template"`
	Target       string   `yaml:"target"`
	TargetExists bool     `yaml:"target_exists"`
	OnExists     string   `yaml:"on_exists"`
	Exclude      []string `yaml:"exclude"`
	Git          bool     `yaml:"git"`
	HeadingFile  string   `yaml:"heading_file,omitempty"`
	Heading      string   `yaml:"heading,omitempty"`
}

// Plan computes the dry-run view of a Spawn call. It only reads the filesystem.
func (s *Spawner) Plan(keyword string) (*Plan, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}

	slug := Slugify(keyword)
	if err := checkSlug(slug); err != nil {
		return nil, err
	}
	target := s.TargetPath(slug)
	exists, err := pathExists(target)
	if err != nil {
		return nil, fmt.Errorf("failed to check target directory: %w", err)
	}

	plan := &Plan{
		Keyword:      keyword,
		Slug:         slug,
		Title:        Titleize(keyword),
		Template:     s.cfg.TemplateDir,
		Target:       target,
		TargetExists: exists,
		OnExists:     string(s.cfg.OnExists),
		Exclude:      s.cfg.Exclude,
		Git:          !s.cfg.Git.Skip,
	}
	if !s.cfg.Heading.Skip {
		plan.HeadingFile = filepath.Join(target, filepath.FromSlash(s.cfg.Heading.File))
		plan.Heading = s.heading.Render(plan.Title)
	}
	return plan, nil
}
