package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/startrelay/startrelay/pkg/logger"
)

// LogWriter persists the full exchange of one run and returns the file path.
type LogWriter interface {
	Write(ts time.Time, token string, tokenFetch, sessionStart *Execution) (string, error)
}

// Runner drives the two-step startserver workflow: fetch a fresh token,
// substitute it into the session-start command, execute that, and record
// the whole exchange to a run log.
type Runner struct {
	store   *Store
	exec    Executor
	logs    LogWriter
	metrics *Metrics
}

// NewRunner wires a Runner. A nil metrics value records nothing.
func NewRunner(store *Store, exec Executor, logs LogWriter, metrics *Metrics) *Runner {
	if metrics == nil {
		metrics = &Metrics{}
	}
	return &Runner{store: store, exec: exec, logs: logs, metrics: metrics}
}

// Run executes one startserver workflow. The error return is reserved for
// setup failures (unreadable or invalid templates); once commands start
// executing, every outcome is reported through the Result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now().UTC()
	log := logger.FromContext(ctx).With("run_id", ksuid.New().String())
	ctx = logger.ContextWithLogger(ctx, log)

	templates, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load request templates: %w", err)
	}

	tokenFetch := r.execute(ctx, StepTokenFetch, templates.TokenFetch)
	token, found := ExtractToken(tokenFetch.Stdout)
	result := &Result{Status: StatusError, Token: token, TokenFetch: tokenFetch}
	if found {
		log.Info("token extracted", "token", MaskToken(token))
		result.SessionStart = r.execute(ctx, StepSessionStart, InjectToken(templates.SessionStart, token))
		if result.SessionStart.Succeeded() {
			result.Status = StatusOK
		}
	} else {
		log.Warn("token extraction failed",
			"returncode", tokenFetch.ExitCode,
			"stdout_bytes", len(tokenFetch.Stdout),
		)
	}

	result.LogPath = r.writeLog(ctx, started, token, tokenFetch, result.SessionStart)
	r.metrics.ObserveRun(ctx, result.Status, time.Since(started))
	log.Info("startserver run finished",
		"status", result.Status.String(),
		"log_path", result.LogPath,
		"duration", time.Since(started),
	)
	return result, nil
}

// execute runs one command, folding launch failures into a synthetic failing
// Execution so the workflow always has an outcome to report.
func (r *Runner) execute(ctx context.Context, step, command string) *Execution {
	launchedAt := time.Now().UTC()
	execution, err := r.exec.Execute(ctx, command)
	if err != nil {
		logger.FromContext(ctx).Warn("command could not be launched",
			"step", step,
			"error", RedactError(err),
		)
		execution = SyntheticFailure(command, launchedAt, err)
	}
	r.metrics.ObserveCommand(ctx, step, execution)
	return execution
}

func (r *Runner) writeLog(
	ctx context.Context,
	ts time.Time,
	token string,
	tokenFetch, sessionStart *Execution,
) string {
	path, err := r.logs.Write(ts, token, tokenFetch, sessionStart)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to write run log", "error", RedactError(err))
		return ""
	}
	return path
}
