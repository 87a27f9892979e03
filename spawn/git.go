package spawn

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// GitRunner creates the initial repository of a spawned project by shelling out to git.
// Every invocation's exit status is checked; failures come back as *GitError.
type GitRunner struct {
	// Binary is the git executable, looked up on PATH if not absolute.
	Binary string
	// UsePTY runs git attached to a pseudo-terminal so progress and color output
	// look the way they do in a terminal. Falls back to pipes if the PTY cannot be opened.
	UsePTY bool

	// Fallback identity, written to the new repository's local config only when
	// git has no user.name / user.email of its own.
	AuthorName  string
	AuthorEmail string

	Logger *slog.Logger
}

// InitialCommit runs git init, stages everything and commits it in dir.
// It returns the SHA of the new commit.
func (g *GitRunner) InitialCommit(ctx context.Context, dir, message string) (string, error) {
	if _, err := g.run(ctx, dir, "init"); err != nil {
		return "", err
	}

	if err := g.ensureIdentity(ctx, dir); err != nil {
		return "", err
	}

	if _, err := g.run(ctx, dir, "add", "-A"); err != nil {
		return "", err
	}

	// --allow-empty so a template with nothing but excluded entries still gets a commit
	if _, err := g.run(ctx, dir, "commit", "--allow-empty", "-m", message); err != nil {
		return "", err
	}

	out, err := g.run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ensureIdentity sets a repository-local user.name/user.email when git would
// otherwise refuse to commit.
func (g *GitRunner) ensureIdentity(ctx context.Context, dir string) error {
	settings := []struct {
		key   string
		value string
	}{
		{"user.email", g.AuthorEmail},
		{"user.name", g.AuthorName},
	}

	for _, s := range settings {
		if s.value == "" {
			continue
		}
		// "git config --get" exits 1 when the key is unset
		if out, err := g.run(ctx, dir, "config", "--get", s.key); err == nil && strings.TrimSpace(out) != "" {
			continue
		}
		g.logger().Debug("Setting local git identity", "key", s.key, "value", s.value)
		if _, err := g.run(ctx, dir, "config", s.key, s.value); err != nil {
			return err
		}
	}
	return nil
}

// run executes one git command in dir, streaming its output to the debug log.
// It returns the combined output with ANSI sequences stripped.
func (g *GitRunner) run(ctx context.Context, dir string, args ...string) (string, error) {
	logger := g.logger().With("git", args[0])
	logger.Debug("Running git", "args", args, "dir", dir)

	lines := make(chan outputLine, 100)
	var readers sync.WaitGroup
	var wait func() error

	cmd := g.command(ctx, dir, args)

	if g.UsePTY {
		ptmx, err := startGitPTY(cmd)
		if err == nil {
			drained := make(chan struct{})
			readers.Add(1)
			go func() {
				defer readers.Done()
				defer close(drained)
				streamPTYOutput(ptmx, lines)
			}()
			wait = func() error { return waitForPTYProcess(cmd, ptmx, drained) }
		} else {
			logger.Debug("PTY unavailable, falling back to pipes", "error", err)
			cmd = g.command(ctx, dir, args)
		}
	}

	if wait == nil {
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return "", &GitError{Args: args, ExitCode: -1, Err: err}
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return "", &GitError{Args: args, ExitCode: -1, Err: err}
		}
		if err := cmd.Start(); err != nil {
			return "", &GitError{Args: args, ExitCode: -1, Err: err}
		}

		for _, r := range []io.Reader{stdout, stderr} {
			readers.Add(1)
			go func(r io.Reader) {
				defer readers.Done()
				streamOutput(r, lines)
			}(r)
		}
		// Wait must not be called before the pipes are drained.
		wait = func() error {
			readers.Wait()
			return cmd.Wait()
		}
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- wait() }()
	go func() {
		readers.Wait()
		close(lines)
	}()

	var output strings.Builder
	for line := range lines {
		text := plainText(line.Line)
		if !line.Replace {
			output.WriteString(text)
			output.WriteByte('\n')
		}
		logger.Debug(text)
	}

	if err := <-waitErr; err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return output.String(), &GitError{
			Args:     args,
			ExitCode: exitCode,
			Output:   output.String(),
			Err:      err,
		}
	}

	return output.String(), nil
}

func (g *GitRunner) command(ctx context.Context, dir string, args []string) *exec.Cmd {
	binary := g.Binary
	if binary == "" {
		binary = "git"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	// Never block on a credential or editor prompt.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "GIT_EDITOR=true")
	return cmd
}

func (g *GitRunner) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
