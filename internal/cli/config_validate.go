package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/listctl/internal/config"
	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/records"
	"github.com/rshade/listctl/internal/source"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration (global file, project file and
environment overrides) for syntax and semantic correctness.

This includes:
- Schema version compatibility
- Page size and page window bounds
- Log level and format
- Source locations for every record kind (a missing source is a warning)`,
		Example: `  # Validate current configuration
  listctl config validate

  # Validate and show detailed information
  listctl config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := configFromContext(cmd.Context())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	hasSourceWarnings, err := validateSources(cmd, cfg)
	if err != nil {
		return err
	}

	if hasSourceWarnings {
		cmd.Println()
	}
	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// validateSources builds a fetcher for every kind without contacting it.
// Returns true if there are warnings, and an error if a location is unusable.
func validateSources(cmd *cobra.Command, cfg *config.Config) (bool, error) {
	log := logging.FromContext(cmd.Context())
	warned := false
	for _, kind := range []records.Kind{records.KindGroups, records.KindFlows} {
		src := cfg.Source(kind)
		if src.Location == "" && len(src.Include) == 0 {
			cmd.Printf("Warning: no source configured for %s (sources.%s.location)\n", kind, kind)
			warned = true
			continue
		}
		if _, err := source.New(kind, src, *log); err != nil {
			return false, fmt.Errorf("sources.%s: %w", kind, err)
		}
		if src.TokenEnv != "" && src.Token() == "" {
			cmd.Printf("Warning: %s is not set for %s\n", src.TokenEnv, kind)
			warned = true
		}
	}
	return warned, nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Version: %s\n", cfg.Version)
	cmd.Printf("  Page size: %d\n", cfg.Pagination.PageSize)
	cmd.Printf("  Visible pages: %d\n", cfg.Pagination.VisiblePages)
	cmd.Printf("  Reset page on filter: %t\n", cfg.Pagination.ResetOnFilter)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)

	printSourceDetails(cmd, cfg)
}

// printSourceDetails prints where each kind is loaded from.
func printSourceDetails(cmd *cobra.Command, cfg *config.Config) {
	log := logging.FromContext(cmd.Context())
	for _, kind := range []records.Kind{records.KindGroups, records.KindFlows} {
		f, err := source.New(kind, cfg.Source(kind), *log)
		if err != nil {
			cmd.Printf("  %s: not configured\n", kind)
			continue
		}
		deletes := "read-only"
		if source.CanDelete(f) {
			deletes = "deletes enabled"
		}
		cmd.Printf("  %s: %s (%s)\n", kind, f.Describe(), deletes)
	}
}
