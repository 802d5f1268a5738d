package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/listctl/internal/config"
)

// projectDirName is the project-local configuration directory.
const projectDirName = ".listctl"

// NewConfigInitCmd creates the config init command for initializing configuration.
// Inside a project (a ./.listctl directory, --project-dir or LISTCTL_PROJECT_DIR)
// it writes the project file and a .gitignore. Otherwise, or with --global, it
// writes the global $LISTCTL_HOME/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		global  bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates $PROJECT/.listctl/config.yaml with a .gitignore
that keeps logs out of version control. Use --project to create the project
directory in the current directory, or --global to write the global file even
inside a project.`,
		Example: `  # Create configuration for the current project or the global file
  listctl config init

  # Start project configuration in the current directory
  listctl config init --project

  # Create global configuration, overwriting existing
  listctl config init --global --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if global && project {
				return errors.New("--global and --project cannot be used together")
			}

			projectDir := resolveProjectDir(cmd)
			if project && projectDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving current directory: %w", err)
				}
				projectDir = filepath.Join(wd, projectDirName)
			}

			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}

			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")
	cmd.Flags().BoolVar(&project, "project", false, "create ./.listctl in the current directory")

	return cmd
}

// resolveProjectDir applies the root --project-dir flag, the environment
// and the working directory, in that order.
func resolveProjectDir(cmd *cobra.Command) string {
	flagValue := ""
	if f := cmd.Flag("project-dir"); f != nil {
		flagValue = f.Value.String()
	}
	wd, _ := os.Getwd()
	return config.ResolveProjectDir(cmd.Context(), flagValue, wd)
}

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")

	if err := checkOverwrite(configPath, force); err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.New()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// never overwrites an existing .gitignore
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore to keep logs out of version control\n")
	}

	return nil
}

// initGlobalConfig creates global config at $LISTCTL_HOME/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.New()
	if cfg.ConfigPath() == "" {
		return errors.New("cannot determine the global configuration directory")
	}

	if err := checkOverwrite(cfg.ConfigPath(), force); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())

	return nil
}

func checkOverwrite(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}
