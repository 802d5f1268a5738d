package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/listctl/internal/config"
)

// NewConfigGetCmd prints the effective value of one key.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print a configuration value",
		Example: `  listctl config get pagination.page_size`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := configFromContext(cmd.Context()).Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(v)
			return nil
		},
	}
}

// NewConfigSetCmd writes one key to the project file, the global file or
// the file given by --config.
func NewConfigSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Sets a value in a configuration file and validates the result before saving.

Inside a project the project file is edited unless --global is given.
List values such as sources.groups.include are comma-separated.`,
		Example: `  listctl config set pagination.page_size 25
  listctl config set sources.flows.location https://api.example.com/flows
  listctl config set sources.groups.include ./extra.yaml,./more.json`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := editTarget(cmd, global)
			if err != nil {
				return err
			}

			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "edit the global file even inside a project")
	return cmd
}

// NewConfigListCmd prints every key with its effective value.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFromContext(cmd.Context())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			for _, key := range config.Keys() {
				v, _ := cfg.Get(key)
				fmt.Fprintf(w, "%s\t%s\n", key, v)
			}
			return w.Flush()
		},
	}
}

// editTarget returns the file config set writes to.
func editTarget(cmd *cobra.Command, global bool) (string, error) {
	if f := cmd.Flag("config"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}
	if !global {
		if dir := resolveProjectDir(cmd); dir != "" {
			return filepath.Join(dir, "config.yaml"), nil
		}
	}
	path := config.New().ConfigPath()
	if path == "" {
		return "", errors.New("cannot determine the global configuration directory")
	}
	return path, nil
}
