package cli

import (
	"fmt"
	"io"

	"github.com/startrelay/startrelay/engine/relay"
	"github.com/startrelay/startrelay/pkg/apitypes"
)

// streamOutput holds the captured streams of one relayed command.
type streamOutput struct {
	stdout string
	stderr string
}

// runSummary is the human-readable account of one workflow invocation,
// shared by the local run and the remote trigger commands.
type runSummary struct {
	status      relay.Status
	maskedToken string
	logPath     string
	initsend    *streamOutput
	startserver *streamOutput
}

func summaryFromResult(result *relay.Result) *runSummary {
	return &runSummary{
		status:      result.Status,
		maskedToken: relay.MaskToken(result.Token),
		logPath:     result.LogPath,
		initsend:    streamsFromExecution(result.TokenFetch),
		startserver: streamsFromExecution(result.SessionStart),
	}
}

func summaryFromResponse(resp *apitypes.TriggerResponse) *runSummary {
	return &runSummary{
		status:      relay.Status(resp.Status),
		maskedToken: resp.TokenPreview,
		logPath:     resp.LogPath,
		initsend:    streamsFromPayload(resp.Initsend),
		startserver: streamsFromPayload(resp.Startserver),
	}
}

func streamsFromExecution(exec *relay.Execution) *streamOutput {
	if exec == nil {
		return nil
	}
	return &streamOutput{stdout: exec.Stdout, stderr: exec.Stderr}
}

func streamsFromPayload(payload *apitypes.ExecutionPayload) *streamOutput {
	if payload == nil {
		return nil
	}
	return &streamOutput{stdout: payload.Stdout, stderr: payload.Stderr}
}

// render writes the summary: a status line, the masked token, the log path,
// then the stream blocks of both commands.
func (s *runSummary) render(w io.Writer) {
	if s.status == relay.StatusOK {
		fmt.Fprintln(w, "Start server flow completed successfully.")
	} else {
		fmt.Fprintln(w, "Start server flow finished with errors.")
	}
	fmt.Fprintf(w, "JWT (masked): %s\n", s.maskedToken)
	fmt.Fprintf(w, "Log file: %s\n\n", s.logPath)
	s.renderStreams(w, "initsend", s.initsend)
	fmt.Fprintln(w)
	s.renderStreams(w, "startserver", s.startserver)
}

func (s *runSummary) renderStreams(w io.Writer, name string, streams *streamOutput) {
	stdout, stderr := "<not executed>", "<not executed>"
	if streams != nil {
		stdout = orEmpty(streams.stdout)
		stderr = orEmpty(streams.stderr)
	}
	fmt.Fprintf(w, "---- %s stdout ----\n%s\n", name, stdout)
	fmt.Fprintf(w, "---- %s stderr ----\n%s\n", name, stderr)
}

func orEmpty(s string) string {
	if s == "" {
		return "<empty>"
	}
	return s
}
