package cli

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/startrelay/startrelay/engine/infra/monitoring"
	"github.com/startrelay/startrelay/engine/infra/server"
	"github.com/startrelay/startrelay/engine/relay"
	"github.com/startrelay/startrelay/pkg/config"
	"github.com/startrelay/startrelay/pkg/logger"
)

// ServeCmd creates the serve command that hosts the relay over HTTP.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Serve the start server workflow over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			if cfg == nil {
				return fmt.Errorf("configuration missing from context; attach a manager with config.ContextWithManager")
			}
			if err := ensurePortAvailable(ctx, cfg.Server.Host, cfg.Server.Port); err != nil {
				return err
			}
			monitoringSvc := monitoring.NewMonitoringServiceWithFallback(ctx, &monitoring.Config{
				Enabled: cfg.Monitoring.Enabled,
				Path:    cfg.Monitoring.Path,
			})
			srv := server.NewServer(ctx, newRelayRunner(cfg, relayMetrics(ctx, monitoringSvc)), monitoringSvc)
			return srv.Run()
		},
	}
}

// relayMetrics builds the workflow instruments against the monitoring meter.
// Returns nil when monitoring is off, which the runner treats as no-op.
func relayMetrics(ctx context.Context, svc *monitoring.Service) *relay.Metrics {
	if svc == nil || !svc.IsInitialized() {
		return nil
	}
	metrics, err := relay.NewMetrics(ctx, svc.Meter())
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to initialize relay metrics", "error", err)
		return nil
	}
	return metrics
}

func ensurePortAvailable(ctx context.Context, host string, port int) error {
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", formatAddress(host, port))
	if err != nil {
		return fmt.Errorf("port %d is not available on host %s: %w", port, host, err)
	}
	return listener.Close()
}

func formatAddress(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
