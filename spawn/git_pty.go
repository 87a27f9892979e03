package spawn

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/creack/pty"
)

// Git writes color (CSI ... m), line clears (CSI K) and terminal titles (OSC ... BEL)
// when it believes it is on a terminal. Only those two families are removed.
var gitEscapes = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)?`)

// plainText returns one line of git output without terminal escapes.
func plainText(line string) string {
	return gitEscapes.ReplaceAllString(line, "")
}

// outputLine is one line of git output.
type outputLine struct {
	Line string
	// Replace is set for carriage-return progress updates that overwrite the previous line.
	Replace bool
}

// startGitPTY starts cmd on a new pseudo-terminal and returns the master end.
// The terminal is wide so "Counting objects" progress never wraps. It fails
// on Windows, where the caller falls back to pipes.
func startGitPTY(cmd *exec.Cmd) (*os.File, error) {
	if runtime.GOOS == "windows" {
		return nil, errPTYUnsupported
	}
	return pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 200})
}

var errPTYUnsupported = errors.New("pseudo-terminals are not supported on " + runtime.GOOS)

// ptyDrainTimeout bounds how long to wait for buffered output after the child exits.
const ptyDrainTimeout = 2 * time.Second

// waitForPTYProcess waits for the child, gives the reader until drained is closed
// (or ptyDrainTimeout) to consume what is left, then closes the master. Closing is
// what unblocks the reader on macOS. The error matches what cmd.Wait would return.
func waitForPTYProcess(cmd *exec.Cmd, ptmx *os.File, drained <-chan struct{}) error {
	state, err := cmd.Process.Wait()

	select {
	case <-drained:
	case <-time.After(ptyDrainTimeout):
	}
	_ = ptmx.Close()

	if err != nil {
		return err
	}
	if state.Success() {
		return nil
	}
	return &exec.ExitError{ProcessState: state}
}

// streamPTYOutput splits the combined PTY stream into lines. "\r\n" ends a line;
// a bare "\r" ends a progress update, and the next update is flagged as replacing it.
func streamPTYOutput(r io.Reader, lines chan<- outputLine) {
	reader := bufio.NewReader(r)
	var current strings.Builder
	replace := false

	emit := func(progress bool) {
		if current.Len() > 0 {
			lines <- outputLine{Line: current.String(), Replace: replace}
			replace = progress
		} else if !progress {
			replace = false
		}
		current.Reset()
	}

	for {
		b, err := reader.ReadByte()
		if err != nil {
			emit(false)
			return
		}

		switch b {
		case '\n':
			emit(false)
		case '\r':
			if next, err := reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = reader.ReadByte()
				emit(false)
			} else {
				emit(true)
			}
		default:
			current.WriteByte(b)
		}
	}
}

// streamOutput sends each line read from a pipe.
func streamOutput(r io.Reader, lines chan<- outputLine) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines <- outputLine{Line: scanner.Text()}
	}
	// Keep draining after a scan error (e.g. an overlong line) so the child never blocks.
	_, _ = io.Copy(io.Discard, r)
}
