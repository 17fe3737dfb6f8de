package relay

import "time"

// -----------------------------------------------------------------------------
// Status
// -----------------------------------------------------------------------------

// Status is the derived outcome of a workflow run.
type Status string

const (
	// StatusOK means the session-start request ran and exited zero.
	StatusOK Status = "ok"
	// StatusError covers every other outcome: token-fetch failure, extraction
	// failure, or a non-zero session-start exit.
	StatusError Status = "error"
)

func (s Status) String() string {
	return string(s)
}

// -----------------------------------------------------------------------------
// Execution
// -----------------------------------------------------------------------------

// Execution captures one request command run to completion: the normalized
// command text, both output streams, the exit code, and timing.
type Execution struct {
	Command    string
	ExitCode   int
	Stdout     string
	Stderr     string
	ExecutedAt time.Time
	Duration   time.Duration
}

// Succeeded reports whether the command exited zero.
func (e *Execution) Succeeded() bool {
	return e != nil && e.ExitCode == 0
}

// -----------------------------------------------------------------------------
// Result
// -----------------------------------------------------------------------------

// Result aggregates a full workflow invocation. SessionStart is nil when the
// workflow short-circuited before the second request; LogPath is empty when
// the run log could not be written.
type Result struct {
	Status       Status
	Token        string
	TokenFetch   *Execution
	SessionStart *Execution
	LogPath      string
}
