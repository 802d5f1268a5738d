package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/listctl/internal/logging"
)

// GetConfigDir returns the listctl configuration directory: $LISTCTL_HOME,
// or ~/.listctl.
func GetConfigDir() (string, error) {
	if home := os.Getenv("LISTCTL_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, dirName), nil
}

// EnsureConfigDir creates the configuration directory.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// EnsureLogDir creates the parent directory of the configured log file, if any.
func (c *Config) EnsureLogDir() error {
	if c.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}

// ResolveProjectDir determines the project-local .listctl directory.
// It checks (in order):
//  1. flagValue
//  2. LISTCTL_PROJECT_DIR env var
//  3. startDir, when it contains a .listctl directory
//
// The returned path is absolute, or empty when no project directory applies.
// Nothing is created.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}

	if envDir := os.Getenv("LISTCTL_PROJECT_DIR"); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}

	if startDir == "" {
		return ""
	}
	candidate := toAbsProjectDir(ctx, startDir)
	info, err := os.Stat(candidate)
	if err != nil || !info.IsDir() {
		return ""
	}

	// The global directory is never its own overlay.
	if global, gErr := GetConfigDir(); gErr == nil {
		if abs, absErr := filepath.Abs(global); absErr == nil && abs == candidate {
			return ""
		}
	}
	return candidate
}

// toAbsProjectDir converts dir to an absolute path ending in ".listctl".
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == dirName {
		return abs
	}
	return filepath.Join(abs, dirName)
}

// gitignoreContent is written into project-local .listctl directories.
const gitignoreContent = `# listctl project-local data (auto-generated)
# Config is tracked; logs are not.
*.log
`

// EnsureGitignore creates a .gitignore in dir unless one exists. It reports
// whether a file was created.
func EnsureGitignore(dir string) (bool, error) {
	gitignorePath := filepath.Join(dir, ".gitignore")

	_, err := os.Stat(gitignorePath)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking .gitignore at %s: %w", gitignorePath, err)
	}

	if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, mkdirErr)
	}

	//nolint:gosec // .gitignore must be world-readable (0644).
	if writeErr := os.WriteFile(gitignorePath, []byte(gitignoreContent), 0o644); writeErr != nil {
		return false, fmt.Errorf("writing .gitignore at %s: %w", gitignorePath, writeErr)
	}
	return true, nil
}
