package relayrouter

import (
	"github.com/startrelay/startrelay/engine/relay"
	"github.com/startrelay/startrelay/pkg/apitypes"
)

func toExecutionPayload(e *relay.Execution) *apitypes.ExecutionPayload {
	if e == nil {
		return nil
	}
	return &apitypes.ExecutionPayload{
		ExecutedAt: e.ExecutedAt,
		ReturnCode: e.ExitCode,
		Stdout:     e.Stdout,
		Stderr:     e.Stderr,
	}
}

func toTriggerResponse(result *relay.Result, exposeToken bool) *apitypes.TriggerResponse {
	resp := &apitypes.TriggerResponse{
		Status:       result.Status.String(),
		Call:         apitypes.CallStartServer,
		TokenPreview: relay.MaskToken(result.Token),
		LogPath:      result.LogPath,
		Initsend:     toExecutionPayload(result.TokenFetch),
		Startserver:  toExecutionPayload(result.SessionStart),
	}
	if exposeToken && result.Token != "" {
		token := result.Token
		resp.Token = &token
	}
	return resp
}
