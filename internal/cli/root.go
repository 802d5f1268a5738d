// Package cli implements the listctl command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/listctl/internal/config"
	"github.com/rshade/listctl/internal/logging"
)

// annotationInteractive marks commands that own the terminal. Their logs
// never go to stderr.
const annotationInteractive = "listctl/interactive"

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

type configKey struct{}

// contextWithConfig stores the effective configuration in ctx.
func contextWithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the configuration loaded by the root command,
// or the defaults when the command runs outside it.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.New()
}

// NewRootCmd creates the root Cobra command for the listctl CLI.
// It loads configuration, wires up logging, tracing and audit logging,
// and registers the browse, list and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "listctl",
		Short:         "Browse, search and page through broadcast groups and flows",
		Long:          "listctl: paginated, filterable lists of broadcast groups and flows from files, HTTP APIs or MongoDB",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			wd, _ := os.Getwd()
			resolved := config.ResolveProjectDir(ctx, projectDir, wd)

			cfg, err := config.Load(ctx, configPath, resolved)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if err = config.CheckVersion(cfg.Version); err != nil {
				return err
			}
			cmd.SetContext(contextWithConfig(ctx, cfg))

			result := setupLogging(cmd, cfg)
			logResult = &result
			logger.Debug().Ctx(cmd.Context()).
				Str("config_path", cfg.ConfigPath()).
				Str("project_dir", resolved).
				Msg("configuration loaded")
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "read configuration from this file only")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project .listctl directory (default: ./.listctl when present)")
	cmd.AddCommand(NewBrowseCmd(), NewListCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Browse broadcast groups interactively
  listctl browse groups

  # Browse flows from an API, reloading when the local overlay file changes
  listctl browse flows --source https://api.example.com/flows --watch

  # Print page 2 of the published flows as JSON
  listctl list flows --status PUBLISHED --page 2 --output json

  # Search groups by name
  listctl list groups --search sales

  # Initialize configuration
  listctl config init

  # Set configuration values
  listctl config set pagination.page_size 25`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
