package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/startrelay/startrelay/pkg/logger"
)

// launchFailureExitCode marks executions that never produced a real exit
// code: unparseable commands and binaries that could not be started.
const launchFailureExitCode = 127

// Executor runs one request command to completion and captures its outcome.
// Implementations must be safe for concurrent use.
type Executor interface {
	Execute(ctx context.Context, command string) (*Execution, error)
}

// ShellExecutor executes commands through os/exec with structured argument
// passing: the command text is split shell-style and never handed to a shell,
// so token content cannot be reinterpreted as shell syntax.
type ShellExecutor struct{}

// NewShellExecutor creates the production executor.
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{}
}

// Execute runs the command and captures stdout, stderr, and the exit code.
// A non-zero exit is a normal outcome, not an error; the error return is
// reserved for commands that could not be started at all.
func (e *ShellExecutor) Execute(ctx context.Context, command string) (*Execution, error) {
	args, err := splitCommand(command)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	log.Debug("executing request command", "binary", args[0], "argc", len(args))

	started := time.Now().UTC()
	// The subprocess is intentionally not bound to ctx: a request that has
	// started must run to completion regardless of caller cancellation.
	cmd := exec.Command(args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	execution := &Execution{
		Command:    strings.Join(args, " "),
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		ExecutedAt: started,
		Duration:   time.Since(started),
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			execution.ExitCode = exitErr.ExitCode()
			return execution, nil
		}
		return nil, fmt.Errorf("failed to launch command: %w", runErr)
	}
	return execution, nil
}

// splitCommand splits the normalized command text into argv.
func splitCommand(command string) ([]string, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("command is empty")
	}
	return args, nil
}

// SyntheticFailure folds a launch error into a failing Execution so callers
// always receive a result instead of a fault.
func SyntheticFailure(command string, at time.Time, err error) *Execution {
	return &Execution{
		Command:    command,
		ExitCode:   launchFailureExitCode,
		Stderr:     err.Error(),
		ExecutedAt: at,
	}
}
