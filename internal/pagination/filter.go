package pagination

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Accessors exposes the record fields the controller reads.
// Key must be stable and unique within a dataset.
type Accessors[T any] struct {
	Key    func(T) string
	Text   func(T) string
	Status func(T) string
}

// FilterState holds the active search and status criteria.
// An empty Search or an empty Statuses set matches every record.
type FilterState struct {
	Search   string
	Statuses map[string]struct{}
}

// Active reports whether any criterion narrows the dataset.
func (f FilterState) Active() bool {
	return f.Search != "" || len(f.Statuses) > 0
}

// StatusList returns the selected statuses in sorted order.
func (f FilterState) StatusList() []string {
	out := make([]string, 0, len(f.Statuses))
	for s := range f.Statuses {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (f FilterState) clone() FilterState {
	c := FilterState{Search: f.Search}
	if len(f.Statuses) > 0 {
		c.Statuses = make(map[string]struct{}, len(f.Statuses))
		for s := range f.Statuses {
			c.Statuses[s] = struct{}{}
		}
	}
	return c
}

// matcher evaluates a FilterState against records.
// It keeps its own lower-caser because cases.Caser is stateful.
type matcher[T any] struct {
	acc   Accessors[T]
	lower cases.Caser
}

func newMatcher[T any](acc Accessors[T]) *matcher[T] {
	return &matcher[T]{acc: acc, lower: cases.Lower(language.Und)}
}

func (m *matcher[T]) normalize(term string) string {
	return m.lower.String(term)
}

func (m *matcher[T]) match(f FilterState, r T) bool {
	if len(f.Statuses) > 0 {
		if m.acc.Status == nil {
			return false
		}
		if _, ok := f.Statuses[m.acc.Status(r)]; !ok {
			return false
		}
	}
	if f.Search != "" {
		if m.acc.Text == nil {
			return false
		}
		if !strings.Contains(m.lower.String(m.acc.Text(r)), f.Search) {
			return false
		}
	}
	return true
}

// apply returns the records of dataset matching f, in dataset order.
// The result never aliases dataset when a criterion is active.
func (m *matcher[T]) apply(f FilterState, dataset []T) []T {
	if !f.Active() {
		out := make([]T, len(dataset))
		copy(out, dataset)
		return out
	}
	out := make([]T, 0, len(dataset))
	for _, r := range dataset {
		if m.match(f, r) {
			out = append(out, r)
		}
	}
	return out
}

// Filter applies f to dataset using acc and returns the matching records in
// dataset order. It is the stateless form of the controller's filtering.
func Filter[T any](acc Accessors[T], f FilterState, dataset []T) []T {
	m := newMatcher(acc)
	f = f.clone()
	f.Search = m.normalize(f.Search)
	return m.apply(f, dataset)
}
