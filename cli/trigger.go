package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/startrelay/startrelay/engine/relay"
	"github.com/startrelay/startrelay/pkg/apitypes"
	"github.com/startrelay/startrelay/pkg/config"
)

// errorEnvelope mirrors the server's error response shape.
type errorEnvelope struct {
	Status int `json:"status"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// TriggerCmd creates the trigger command that invokes the workflow on a
// running relay and renders the returned summary.
func TriggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Trigger the start server workflow on a running relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			if cfg == nil {
				return fmt.Errorf("configuration missing from context; attach a manager with config.ContextWithManager")
			}
			resp, err := postTrigger(ctx, cfg)
			if err != nil {
				return err
			}
			summaryFromResponse(resp).render(cmd.OutOrStdout())
			if resp.Status != relay.StatusOK.String() {
				return ErrWorkflowFailed
			}
			return nil
		},
	}
}

// postTrigger sends the trigger request and decodes the contract payload.
// Triggers are not idempotent, so the client never retries, and the default
// zero timeout lets the response block for as long as the workflow runs.
func postTrigger(ctx context.Context, cfg *config.Config) (*apitypes.TriggerResponse, error) {
	client := resty.New().
		SetBaseURL(cfg.CLI.BaseURL).
		SetTimeout(cfg.CLI.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	var result apitypes.TriggerResponse
	var errBody errorEnvelope
	resp, err := client.R().
		SetContext(ctx).
		SetBody(apitypes.TriggerRequest{Call: apitypes.CallStartServer}).
		SetResult(&result).
		SetError(&errBody).
		Post("/trigger")
	if err != nil {
		return nil, fmt.Errorf("trigger request failed: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		if errBody.Error.Message != "" {
			return nil, fmt.Errorf("relay rejected the trigger: %s", errBody.Error.Message)
		}
		return nil, fmt.Errorf("relay returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return &result, nil
}
