package cmd

import (
	"spawner/config"

	"github.com/spf13/pflag"
)

func bindFlags(fs *pflag.FlagSet, opts *rootOptions) {
	fs.StringVar(&opts.configPath, "config", "",
		"Path to a YAML config file (default: $SPAWNER_CONFIG, then ./"+config.DefaultFile+" if present)")
	fs.StringVar(&opts.templateDir, "template-dir", "", "Master template directory to clone")
	fs.StringVar(&opts.projectsRoot, "projects-root", "",
		"Directory where new projects are created (default: parent of the template directory)")
	fs.StringVar(&opts.prefix, "prefix", "", `Project directory prefix (default "SaaS-")`)
	fs.StringSliceVar(&opts.exclude, "exclude", nil,
		"Glob patterns left out of the copy; replaces the default .git,node_modules,.next")
	fs.StringVar(&opts.onExists, "on-exists", "", "What to do if the project exists: warn, skip or error (default warn)")

	fs.BoolVar(&opts.noGit, "no-git", false, "Do not initialize a git repository")
	fs.StringVar(&opts.commitMessage, "commit-message", "", "Message of the initial commit")
	fs.BoolVar(&opts.usePTY, "pty", false, "Run git in a pseudo-terminal")

	fs.BoolVar(&opts.noHeading, "no-heading", false, "Leave the landing-page heading unchanged")
	fs.StringVar(&opts.headingFile, "heading-file", "",
		"File, relative to the project, whose first heading receives the keyword (default components/home/hero.tsx)")

	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (default warn)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Print what would be done as YAML and exit")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(fs *pflag.FlagSet, opts *rootOptions, cfg *config.Config) {
	if fs.Changed("template-dir") {
		cfg.TemplateDir = opts.templateDir
	}
	if fs.Changed("projects-root") {
		cfg.ProjectsRoot = opts.projectsRoot
	}
	if fs.Changed("prefix") {
		cfg.DirPrefix = opts.prefix
	}
	if fs.Changed("exclude") {
		cfg.Exclude = opts.exclude
	}
	if fs.Changed("on-exists") {
		cfg.OnExists = config.ExistsPolicy(opts.onExists)
	}
	if fs.Changed("no-git") {
		cfg.Git.Skip = opts.noGit
	}
	if fs.Changed("commit-message") {
		cfg.Git.CommitMessage = opts.commitMessage
	}
	if fs.Changed("pty") {
		cfg.Git.UsePTY = opts.usePTY
	}
	if fs.Changed("no-heading") {
		cfg.Heading.Skip = opts.noHeading
	}
	if fs.Changed("heading-file") {
		cfg.Heading.File = opts.headingFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
}
