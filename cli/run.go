package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/startrelay/startrelay/engine/relay"
	"github.com/startrelay/startrelay/engine/runlog"
	"github.com/startrelay/startrelay/pkg/config"
)

// RunCmd creates the run command. It executes the workflow in-process and
// prints a human-readable summary of the outcome.
func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the start server workflow locally",
		Long: "Run the token-fetch and session-start requests in-process, without going " +
			"through a relay server. Prints the masked token, the run log path, and " +
			"both command outputs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			if cfg == nil {
				return fmt.Errorf("configuration missing from context; attach a manager with config.ContextWithManager")
			}
			result, err := newRelayRunner(cfg, nil).Run(ctx)
			if err != nil {
				return err
			}
			summaryFromResult(result).render(cmd.OutOrStdout())
			if result.Status != relay.StatusOK {
				return ErrWorkflowFailed
			}
			return nil
		},
	}
}

// newRelayRunner assembles the workflow pipeline from the resolved
// configuration: template store, shell executor, and run log writer.
func newRelayRunner(cfg *config.Config, metrics *relay.Metrics) *relay.Runner {
	fs := afero.NewOsFs()
	store := relay.NewStore(fs, cfg.Relay.InitsendFile, cfg.Relay.StartTemplateFile)
	logs := runlog.NewWriter(fs, cfg.Relay.LogDir)
	return relay.NewRunner(store, relay.NewShellExecutor(), logs, metrics)
}
