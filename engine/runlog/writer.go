// Package runlog persists the full exchange of each startserver run as one
// plain-text file per invocation.
package runlog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/startrelay/startrelay/engine/relay"
)

// Writer creates one log file per run under a fixed directory. Files are
// never appended to or truncated; the nanosecond timestamp in the name keeps
// concurrent runs from colliding.
type Writer struct {
	fs  afero.Fs
	dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(fs afero.Fs, dir string) *Writer {
	return &Writer{fs: fs, dir: dir}
}

// Write records the exchange and returns the log path. The file is a trusted
// operator artifact: streams and the token are written unredacted. A nil
// sessionStart marks a run that short-circuited before the second command.
func (w *Writer) Write(ts time.Time, token string, tokenFetch, sessionStart *relay.Execution) (string, error) {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory %s: %w", w.dir, err)
	}
	stamp := ts.UTC().Format("20060102T150405.000000000") + "Z"
	path := filepath.Join(w.dir, "startserver-"+stamp+".log")

	lines := []string{
		fmt.Sprintf("[%s] startserver run", stamp),
		"TOKEN: " + token,
		"",
	}
	lines = append(lines, section("initsend", tokenFetch)...)
	lines = append(lines, section("startserver", sessionStart)...)

	if err := afero.WriteFile(w.fs, path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return "", fmt.Errorf("failed to write run log %s: %w", path, err)
	}
	return path, nil
}

func section(name string, exec *relay.Execution) []string {
	header := "== " + name + " =="
	if exec == nil {
		return []string{header, "not executed", ""}
	}
	return []string{
		header,
		"command: " + exec.Command,
		fmt.Sprintf("returncode: %d", exec.ExitCode),
		"stdout:",
		exec.Stdout,
		"stderr:",
		exec.Stderr,
		"",
	}
}
