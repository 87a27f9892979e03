package spawn

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyKeyword is returned when the keyword is blank after trimming.
	ErrEmptyKeyword = errors.New("keyword must not be empty")

	// ErrInvalidSlug is returned when the slug contains a path separator or "..".
	ErrInvalidSlug = errors.New("keyword must not contain path separators")

	// ErrTargetExists is returned when the project directory exists and the policy is "error".
	ErrTargetExists = errors.New("project already exists")

	// ErrCopyFailed wraps any I/O failure while cloning the template.
	ErrCopyFailed = errors.New("failed to copy template")

	// ErrGitFailed is matched by every *GitError.
	ErrGitFailed = errors.New("git command failed")

	// ErrHeadingNotFound is returned when the heading file has no element to replace.
	ErrHeadingNotFound = errors.New("heading element not found")
)

// GitError describes a git invocation that did not exit cleanly.
type GitError struct {
	Args     []string
	ExitCode int // -1 if the process never ran
	Output   string
	Err      error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s (exit code %d)", msg, e.ExitCode)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *GitError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrGitFailed) match any GitError.
func (e *GitError) Is(target error) bool { return target == ErrGitFailed }
