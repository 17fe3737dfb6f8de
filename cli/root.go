// Package cli wires the startrelay commands: run the workflow locally, serve
// it over HTTP, trigger a remote relay, and print version info.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/startrelay/startrelay/pkg/config"
	"github.com/startrelay/startrelay/pkg/logger"
)

// ErrWorkflowFailed marks a run that finished with a non-ok status. The
// summary has already been printed when this is returned; callers should
// exit non-zero without reporting it again.
var ErrWorkflowFailed = errors.New("start server flow failed")

// RootCmd builds the startrelay command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "startrelay",
		Short: "Relay that runs a stored two-step session-start workflow",
		Long: "startrelay runs a stored token-fetch request, extracts the JWT from its " +
			"output, substitutes it into a session-start request, and executes that. " +
			"Every invocation is recorded in a timestamped log file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}
	root.PersistentFlags().String("config", "startrelay.yaml", "Path to the YAML configuration file")
	root.PersistentFlags().String("env-file", ".env", "Path to a dotenv file loaded before configuration")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	root.PersistentFlags().Bool("log-source", false, "Include source file and line in logs")
	root.PersistentFlags().String("host", "", "Host address for the HTTP server")
	root.PersistentFlags().Int("port", 0, "Port for the HTTP server")
	root.PersistentFlags().Bool("cors", false, "Enable CORS middleware")
	root.PersistentFlags().String("base-url", "", "Base URL of a running relay for the trigger command")
	root.AddCommand(
		RunCmd(),
		ServeCmd(),
		TriggerCmd(),
		VersionCmd(),
	)
	return root
}

// SetupGlobalConfig loads the dotenv file, resolves configuration from
// defaults, YAML, flags, and environment, and attaches the manager and a
// configured logger to the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	if _, err := loadEnvFile(flags); err != nil {
		return err
	}
	configFile, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cliFlags := make(map[string]any)
	extractCLIFlags(flags, cliFlags)
	sources := []config.Source{config.NewYAMLProvider(configFile)}
	if len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx, sources...)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, cfg.Runtime.LogSource)
	ctx = config.ContextWithManager(ctx, manager)
	ctx = logger.ContextWithLogger(ctx, log)
	cmd.SetContext(ctx)
	return nil
}

// extractCLIFlags collects flags the user explicitly set, keyed by flag name
// for the CLI configuration source.
func extractCLIFlags(flags *pflag.FlagSet, out map[string]any) {
	addFlag := func(name string, getter func(string) (any, error)) {
		if flags.Changed(name) {
			if value, err := getter(name); err == nil {
				out[name] = value
			}
		}
	}
	getString := func(name string) (any, error) { return flags.GetString(name) }
	getInt := func(name string) (any, error) { return flags.GetInt(name) }
	getBool := func(name string) (any, error) { return flags.GetBool(name) }
	addFlag("host", getString)
	addFlag("port", getInt)
	addFlag("cors", getBool)
	addFlag("log-level", getString)
	addFlag("log-json", getBool)
	addFlag("log-source", getBool)
	addFlag("base-url", getString)
}

// loadEnvFile loads environment variables from the --env-file path. A missing
// file is tolerated; an empty flag disables loading entirely.
func loadEnvFile(flags *pflag.FlagSet) (string, error) {
	envFile, err := flags.GetString("env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return "", nil
	}
	absPath, err := filepath.Abs(filepath.Clean(envFile))
	if err != nil {
		return "", fmt.Errorf("failed to resolve env file path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", fmt.Errorf("failed to stat env file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("env file path %q is not a regular file", envFile)
	}
	if err := godotenv.Load(absPath); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", absPath, err)
	}
	return absPath, nil
}
