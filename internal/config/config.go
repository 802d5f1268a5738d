// Package config loads and saves the listctl configuration file.
//
// The global file lives at $LISTCTL_HOME/config.yaml (default
// ~/.listctl/config.yaml). A project file at ./.listctl/config.yaml is
// shallow-merged on top of it by top-level key, and LISTCTL_* environment
// variables override both.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/pagination"
	"github.com/rshade/listctl/internal/records"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = "1.0.0"

// supportedVersions is the schema range this build reads.
const supportedVersions = ">= 1.0.0, < 2.0.0"

const (
	configFileName = "config.yaml"
	dirName        = ".listctl"
)

// Config errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported config version")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnknownKey         = errors.New("unknown config key")
)

// Config is the listctl configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Pagination PaginationConfig `yaml:"pagination"`
	Sources    SourcesConfig    `yaml:"sources"`
	Logging    LoggingConfig    `yaml:"logging"`

	configPath string
}

// PaginationConfig holds the list controller defaults.
type PaginationConfig struct {
	PageSize      int  `yaml:"page_size"`
	VisiblePages  int  `yaml:"visible_pages"`
	ResetOnFilter bool `yaml:"reset_on_filter"`
}

// SourcesConfig maps each record kind to where it is loaded from.
type SourcesConfig struct {
	Groups SourceConfig `yaml:"groups"`
	Flows  SourceConfig `yaml:"flows"`
}

// SourceConfig describes one dataset location.
//
// Location is a file path, an http(s) URL or a mongodb URI. Include lists
// further locations whose records are appended in order.
type SourceConfig struct {
	Location   string   `yaml:"location"`
	Include    []string `yaml:"include,omitempty"`
	TokenEnv   string   `yaml:"token_env,omitempty"`
	Database   string   `yaml:"database,omitempty"`
	Collection string   `yaml:"collection,omitempty"`
}

// Token returns the bearer token named by TokenEnv, or "".
func (s SourceConfig) Token() string {
	if s.TokenEnv == "" {
		return ""
	}
	return os.Getenv(s.TokenEnv)
}

// LoggingConfig mirrors logging.Config in YAML form.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`

	// AuditFile enables the audit trail of deletes when set.
	AuditFile string `yaml:"audit_file,omitempty"`
}

// New returns a Config holding the defaults, bound to the global config path.
func New() *Config {
	cfg := &Config{
		Version: CurrentVersion,
		Pagination: PaginationConfig{
			PageSize:     pagination.DefaultPageSize,
			VisiblePages: pagination.DefaultVisiblePages,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
	}
	return cfg
}

// Load builds the effective configuration.
//
// When explicitPath is set only that file is read and it must exist.
// Otherwise the global file and then the project file in projectDir are
// merged when present. Environment overrides are applied last.
func Load(ctx context.Context, explicitPath, projectDir string) (*Config, error) {
	cfg := New()

	if explicitPath != "" {
		if err := ShallowMergeYAML(cfg, explicitPath); err != nil {
			return nil, err
		}
		cfg.configPath = explicitPath
	} else {
		if err := mergeIfExists(cfg, cfg.configPath); err != nil {
			return nil, err
		}
		if projectDir != "" {
			if err := mergeIfExists(cfg, filepath.Join(projectDir, configFileName)); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(ctx, cfg)
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFile reads a single config file without environment overrides, for
// editing. A missing file yields the defaults bound to path.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if err := mergeIfExists(cfg, path); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.configPath = path
	return cfg, nil
}

func mergeIfExists(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return ShallowMergeYAML(cfg, path)
}

// applyDefaults fills zero values left by sections that omit a field.
func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.Pagination.PageSize == 0 {
		c.Pagination.PageSize = pagination.DefaultPageSize
	}
	if c.Pagination.VisiblePages == 0 {
		c.Pagination.VisiblePages = pagination.DefaultVisiblePages
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = logging.FormatConsole
	}
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks the schema version and every value range.
func (c *Config) Validate() error {
	if err := CheckVersion(c.Version); err != nil {
		return err
	}

	var problems []string
	p := c.Pagination
	if p.PageSize < pagination.MinPageSize || p.PageSize > pagination.MaxPageSize {
		problems = append(problems, fmt.Sprintf("pagination.page_size must be between %d and %d, got %d",
			pagination.MinPageSize, pagination.MaxPageSize, p.PageSize))
	}
	if p.VisiblePages < pagination.MinVisiblePages || p.VisiblePages > pagination.MaxVisiblePages {
		problems = append(problems, fmt.Sprintf("pagination.visible_pages must be between %d and %d, got %d",
			pagination.MinVisiblePages, pagination.MaxVisiblePages, p.VisiblePages))
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, fmt.Sprintf("logging.level %q is not a valid level", c.Logging.Level))
	}
	if c.Logging.Format != logging.FormatJSON && c.Logging.Format != logging.FormatConsole {
		problems = append(problems, fmt.Sprintf("logging.format must be %q or %q, got %q",
			logging.FormatJSON, logging.FormatConsole, c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// CheckVersion reports whether v is a schema version this build reads.
// An empty version is treated as CurrentVersion.
func CheckVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !constraint.Check(ver) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedVersion, v, supportedVersions)
	}
	return nil
}

// Source returns the source settings for kind.
func (c *Config) Source(kind records.Kind) SourceConfig {
	switch kind {
	case records.KindGroups:
		return c.Sources.Groups
	case records.KindFlows:
		return c.Sources.Flows
	default:
		return SourceConfig{}
	}
}

// PaginationParams returns the pagination defaults as controller params.
func (c *Config) PaginationParams() *pagination.Params {
	p := pagination.NewParams()
	p.PageSize = c.Pagination.PageSize
	p.VisiblePages = c.Pagination.VisiblePages
	p.ResetOnFilter = c.Pagination.ResetOnFilter
	return p
}
