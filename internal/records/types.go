// Package records defines the list items listctl browses: WhatsApp broadcast
// groups and WhatsApp flow definitions, plus the normalized Record the
// pagination controller works on.
package records

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rshade/listctl/internal/pagination"
)

// Kind identifies a list view.
type Kind string

// Supported kinds.
const (
	KindGroups Kind = "groups"
	KindFlows  Kind = "flows"
)

// Broadcast group statuses.
const (
	GroupActive   = "active"
	GroupArchived = "archived"
	GroupDraft    = "draft"
)

// Flow statuses, as reported by the WhatsApp Business flows API.
const (
	FlowDraft      = "DRAFT"
	FlowPublished  = "PUBLISHED"
	FlowDeprecated = "DEPRECATED"
	FlowBlocked    = "BLOCKED"
	FlowThrottled  = "THROTTLED"
)

// Common record errors.
var (
	ErrUnknownKind   = errors.New("unknown record kind")
	ErrDuplicateID   = errors.New("duplicate record id")
	ErrUnknownFormat = errors.New("unknown data format")
	ErrEmptyName     = errors.New("record name cannot be empty")
	ErrUnknownStatus = errors.New("unknown status")
)

// ParseKind parses "groups" or "flows". Singular forms are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "groups", "group", "broadcast-groups":
		return KindGroups, nil
	case "flows", "flow":
		return KindFlows, nil
	default:
		return "", fmt.Errorf("%w: %q (want groups or flows)", ErrUnknownKind, s)
	}
}

// KnownStatuses returns the status values of kind in display order.
func KnownStatuses(kind Kind) []string {
	switch kind {
	case KindGroups:
		return []string{GroupActive, GroupArchived, GroupDraft}
	case KindFlows:
		return []string{FlowDraft, FlowPublished, FlowDeprecated, FlowBlocked, FlowThrottled}
	default:
		return nil
	}
}

// BroadcastGroup is a named set of contacts a message can be broadcast to.
type BroadcastGroup struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Status    string    `json:"status" yaml:"status"`
	Members   int       `json:"members" yaml:"members"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Flow is a WhatsApp flow definition.
type Flow struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Status     string    `json:"status" yaml:"status"`
	Categories []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Record is the kind-independent view of a list item.
type Record struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Kind    Kind      `json:"kind"`
	Detail  string    `json:"detail,omitempty"`
	Updated time.Time `json:"updated,omitempty"`
}

// FromGroup normalizes a broadcast group.
func FromGroup(g BroadcastGroup) Record {
	return Record{
		ID:      g.ID,
		Name:    g.Name,
		Status:  strings.ToLower(g.Status),
		Kind:    KindGroups,
		Detail:  fmt.Sprintf("%d members", g.Members),
		Updated: g.CreatedAt,
	}
}

// FromFlow normalizes a flow definition.
func FromFlow(f Flow) Record {
	return Record{
		ID:      f.ID,
		Name:    f.Name,
		Status:  strings.ToUpper(f.Status),
		Kind:    KindFlows,
		Detail:  strings.Join(f.Categories, ", "),
		Updated: f.UpdatedAt,
	}
}

// Accessors returns the field accessors the pagination controller filters on:
// the ID is the key, the name is searchable, and the status is filterable.
func Accessors() pagination.Accessors[Record] {
	return pagination.Accessors[Record]{
		Key:    func(r Record) string { return r.ID },
		Text:   func(r Record) string { return r.Name },
		Status: func(r Record) string { return r.Status },
	}
}
