package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// Format is a dataset encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// FormatFromContentType picks the format from an HTTP Content-Type header.
// Anything that is not YAML is treated as JSON.
func FormatFromContentType(ct string) Format {
	ct = strings.ToLower(ct)
	if strings.Contains(ct, "yaml") {
		return FormatYAML
	}
	return FormatJSON
}

type envelope[T any] struct {
	Data []T `json:"data" yaml:"data"`
}

// Decode parses a dataset of kind. The payload is either a bare list or an
// object whose "data" field holds the list. Records without an ID get a
// ULID; duplicate IDs are rejected.
func Decode(kind Kind, format Format, data []byte) ([]Record, error) {
	switch kind {
	case KindGroups:
		groups, err := decodeItems[BroadcastGroup](format, data)
		if err != nil {
			return nil, fmt.Errorf("decoding groups: %w", err)
		}
		return Normalize(mapSlice(groups, FromGroup))
	case KindFlows:
		flows, err := decodeItems[Flow](format, data)
		if err != nil {
			return nil, fmt.Errorf("decoding flows: %w", err)
		}
		return Normalize(mapSlice(flows, FromFlow))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func decodeItems[T any](format Format, data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	switch format {
	case FormatJSON:
		if trimmed[0] == '{' {
			var env envelope[T]
			if err := json.Unmarshal(trimmed, &env); err != nil {
				return nil, err
			}
			return env.Data, nil
		}
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(trimmed, &node); err != nil {
			return nil, err
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.MappingNode {
			var env envelope[T]
			if err := node.Decode(&env); err != nil {
				return nil, err
			}
			return env.Data, nil
		}
		var items []T
		if err := node.Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Normalize assigns IDs to records that have none and rejects duplicate IDs.
// Order is preserved.
func Normalize(recs []Record) ([]Record, error) {
	seen := make(map[string]struct{}, len(recs))
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.ID == "" {
			r.ID = NewID()
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

// NewID returns a new sortable record ID.
func NewID() string {
	return ulid.Make().String()
}

// NewRecord builds a record for the create flow. The status is matched
// case-insensitively against the statuses of kind.
func NewRecord(kind Kind, name, status string) (Record, error) {
	known := KnownStatuses(kind)
	if known == nil {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, ErrEmptyName
	}
	idx := slices.IndexFunc(known, func(s string) bool { return strings.EqualFold(s, status) })
	if idx < 0 {
		return Record{}, fmt.Errorf("%w: %q for %s", ErrUnknownStatus, status, kind)
	}
	return Record{
		ID:     NewID(),
		Name:   name,
		Status: known[idx],
		Kind:   kind,
	}, nil
}

func mapSlice[T any](in []T, fn func(T) Record) []Record {
	out := make([]Record, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
