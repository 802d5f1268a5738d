package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

//nolint:gochecknoglobals // Compile-time constant lookup table.
var fields = map[string]field{
	"version": {
		get: func(c *Config) string { return c.Version },
		set: func(c *Config, v string) error {
			if err := CheckVersion(v); err != nil {
				return err
			}
			c.Version = v
			return nil
		},
	},
	"pagination.page_size": {
		get: func(c *Config) string { return strconv.Itoa(c.Pagination.PageSize) },
		set: func(c *Config, v string) error { return setInt(&c.Pagination.PageSize, v) },
	},
	"pagination.visible_pages": {
		get: func(c *Config) string { return strconv.Itoa(c.Pagination.VisiblePages) },
		set: func(c *Config, v string) error { return setInt(&c.Pagination.VisiblePages, v) },
	},
	"pagination.reset_on_filter": {
		get: func(c *Config) string { return strconv.FormatBool(c.Pagination.ResetOnFilter) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			c.Pagination.ResetOnFilter = b
			return nil
		},
	},
	"logging.level":      stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":     stringField(func(c *Config) *string { return &c.Logging.Format }),
	"logging.file":       stringField(func(c *Config) *string { return &c.Logging.File }),
	"logging.audit_file": stringField(func(c *Config) *string { return &c.Logging.AuditFile }),
}

//nolint:gochecknoinits // registers the per-kind source keys into the lookup table
func init() {
	for kind, src := range map[string]func(*Config) *SourceConfig{
		"groups": func(c *Config) *SourceConfig { return &c.Sources.Groups },
		"flows":  func(c *Config) *SourceConfig { return &c.Sources.Flows },
	} {
		prefix := "sources." + kind + "."
		fields[prefix+"location"] = stringField(func(c *Config) *string { return &src(c).Location })
		fields[prefix+"token_env"] = stringField(func(c *Config) *string { return &src(c).TokenEnv })
		fields[prefix+"database"] = stringField(func(c *Config) *string { return &src(c).Database })
		fields[prefix+"collection"] = stringField(func(c *Config) *string { return &src(c).Collection })
		fields[prefix+"include"] = field{
			get: func(c *Config) string { return strings.Join(src(c).Include, ",") },
			set: func(c *Config, v string) error {
				src(c).Include = splitList(v)
				return nil
			},
		}
	}
}

func stringField(ptr func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("expected an integer, got %q", v)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Keys returns every dotted key accepted by Get and Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the value of a dotted key such as "pagination.page_size".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses value into the dotted key. Range checks are left to Validate.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
