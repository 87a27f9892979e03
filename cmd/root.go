package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"spawner/config"
	"spawner/console"
	"spawner/spawn"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// rootOptions holds the flag values of one root command.
type rootOptions struct {
	configPath    string
	templateDir   string
	projectsRoot  string
	prefix        string
	exclude       []string
	onExists      string
	noGit         bool
	commitMessage string
	usePTY        bool
	noHeading     bool
	headingFile   string
	logLevel      string
	dryRun        bool
	noColor       bool
}

// newRootCmd builds the spawner command. Each call gets its own flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "spawner KEYWORD",
		Short: "Clone the master SaaS template into a new keyword-named project.",
		Long: `Spawner clones the master template into <projects-root>/SaaS-<slug>, initializes a git
repository with an initial commit, and rewrites the landing-page heading to feature KEYWORD.

The slug is KEYWORD lowercased with whitespace runs replaced by hyphens, so
"SEO Velocity" becomes SaaS-seo-velocity. An existing project is never overwritten.

Settings come from spawner.yml (or --config), then SPAWNER_* environment variables,
then flags.`,
		Example: `  spawner --template-dir ~/sites/SaaS-Master-Template "fast invoicing"
  spawner --dry-run "SEO Velocity"`,
		Version:      versionString(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpawn(cmd, opts, args[0])
		},
	}

	bindFlags(cmd.Flags(), opts)

	// Hide the completion command from help
	cmd.CompletionOptions.HiddenDefaultCmd = true

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// runSpawn loads configuration and spawns (or plans) the project for keyword.
func runSpawn(cmd *cobra.Command, opts *rootOptions, keyword string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := setupLogging(cmd.ErrOrStderr(), level)

	color := !opts.noColor && !termenv.EnvNoColor()
	spawner, err := spawn.New(cfg,
		spawn.WithReporter(console.New(cmd.OutOrStdout(), color)),
		spawn.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if opts.dryRun {
		plan, err := spawner.Plan(keyword)
		if err != nil {
			return err
		}
		return writePlan(cmd.OutOrStdout(), plan)
	}

	result, err := spawner.Spawn(cmd.Context(), keyword)
	if err != nil {
		return err
	}
	logger.Info("Spawn finished", "outcome", result.Outcome, "target", result.Target, "heading", result.Heading)
	return nil
}

// loadConfig reads the config file and environment, then applies flags on top.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	path := config.ResolvePath(opts.configPath)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	applyFlags(cmd.Flags(), opts, cfg)

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs a text slog handler on w and returns it.
func setupLogging(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func writePlan(w io.Writer, plan *spawn.Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return enc.Close()
}
