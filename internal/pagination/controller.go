package pagination

import (
	"github.com/rs/zerolog"
)

// Controller defaults.
const (
	DefaultPageSize     = 15
	DefaultVisiblePages = 5
	MinVisiblePages     = 5
	MaxVisiblePages     = 25
	MinPageSize         = 1
	MaxPageSize         = 1000
)

// ResetPolicy decides what a filter change does to the current page.
type ResetPolicy int

const (
	// PageResetKeep leaves the current page untouched when the filter changes.
	// Narrowing the results can leave the current page past the last page; the
	// page slice is then empty until the user navigates.
	PageResetKeep ResetPolicy = iota
	// PageResetFirst moves back to page 1 on every filter change.
	PageResetFirst
)

// String implements fmt.Stringer.
func (p ResetPolicy) String() string {
	if p == PageResetFirst {
		return "first"
	}
	return "keep"
}

// Option configures a Controller.
type Option func(*settings)

type settings struct {
	pageSize     int
	visiblePages int
	policy       ResetPolicy
	log          zerolog.Logger
}

// WithPageSize sets the number of records per page. Values < 1 keep the default.
func WithPageSize(n int) Option {
	return func(s *settings) {
		if n >= MinPageSize {
			s.pageSize = n
		}
	}
}

// WithVisiblePages sets the page window size, clamped to
// [MinVisiblePages, MaxVisiblePages]. Values < 1 keep the default.
func WithVisiblePages(n int) Option {
	return func(s *settings) {
		if n >= 1 {
			s.visiblePages = min(max(n, MinVisiblePages), MaxVisiblePages)
		}
	}
}

// WithResetPolicy selects the page behavior on filter changes.
func WithResetPolicy(p ResetPolicy) Option {
	return func(s *settings) { s.policy = p }
}

// WithLogger attaches a logger for debug tracing of state changes.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// Controller narrows a dataset with a search/status filter and slices the
// result into fixed-size pages.
//
// The dataset is the source of truth; the filtered dataset is recomputed from
// it on every filter or dataset change and always preserves dataset order.
// All read methods are total and never panic.
type Controller[T any] struct {
	acc     Accessors[T]
	matcher *matcher[T]

	// dataset holds all records in load order
	dataset []T

	// filtered is the subsequence of dataset matching filter
	filtered []T

	filter FilterState

	// page is the 1-based current page
	page int

	pageSize     int
	visiblePages int
	policy       ResetPolicy
	log          zerolog.Logger
}

// NewController creates an empty controller positioned on page 1.
func NewController[T any](acc Accessors[T], opts ...Option) *Controller[T] {
	s := settings{
		pageSize:     DefaultPageSize,
		visiblePages: DefaultVisiblePages,
		policy:       PageResetKeep,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &Controller[T]{
		acc:          acc,
		matcher:      newMatcher(acc),
		dataset:      []T{},
		filtered:     []T{},
		page:         1,
		pageSize:     s.pageSize,
		visiblePages: s.visiblePages,
		policy:       s.policy,
		log:          s.log.With().Str("component", "pagination").Logger(),
	}
}

// Load replaces the dataset, clears the filter and returns to page 1.
// The controller keeps its own copy of records.
func (c *Controller[T]) Load(records []T) {
	c.dataset = make([]T, len(records))
	copy(c.dataset, records)
	c.filter = FilterState{}
	c.filtered = c.matcher.apply(c.filter, c.dataset)
	c.page = 1

	c.log.Debug().
		Str("operation", "load").
		Int("records", len(c.dataset)).
		Int("total_pages", c.TotalPages()).
		Msg("dataset loaded")
}

// SetSearchTerm filters by case-insensitive substring match on the text field.
// An empty term clears the search criterion.
func (c *Controller[T]) SetSearchTerm(term string) {
	c.filter.Search = c.matcher.normalize(term)
	c.refilter("set_search")
}

// SetStatusFilter filters by membership of the status field in statuses.
// An empty slice clears the status criterion.
func (c *Controller[T]) SetStatusFilter(statuses []string) {
	if len(statuses) == 0 {
		c.filter.Statuses = nil
	} else {
		c.filter.Statuses = make(map[string]struct{}, len(statuses))
		for _, s := range statuses {
			c.filter.Statuses[s] = struct{}{}
		}
	}
	c.refilter("set_status")
}

// ClearFilter removes every criterion.
func (c *Controller[T]) ClearFilter() {
	c.filter = FilterState{}
	c.refilter("clear_filter")
}

func (c *Controller[T]) refilter(op string) {
	before := len(c.filtered)
	c.filtered = c.matcher.apply(c.filter, c.dataset)
	if c.policy == PageResetFirst {
		c.page = 1
	}

	c.log.Debug().
		Str("operation", op).
		Str("search", c.filter.Search).
		Strs("statuses", c.filter.StatusList()).
		Int("before", before).
		Int("after", len(c.filtered)).
		Int("page", c.page).
		Msg("applied filter")
}

// GoToPage moves to page n. Values outside [1, TotalPages] are clamped.
func (c *Controller[T]) GoToPage(n int) {
	if n == c.page {
		return
	}
	c.page = clampPage(n, c.TotalPages())
}

// NextPage advances one page unless already on the last page.
func (c *Controller[T]) NextPage() {
	total := c.TotalPages()
	if total == 0 || c.page >= total {
		return
	}
	c.page++
}

// PreviousPage goes back one page unless already on page 1. From a page past
// the end it still steps back by one, it does not jump to the last page.
func (c *Controller[T]) PreviousPage() {
	if c.page <= 1 {
		return
	}
	c.page--
}

// FirstPage moves to page 1.
func (c *Controller[T]) FirstPage() {
	c.page = 1
}

// LastPage moves to the last page, or page 1 when nothing matches.
func (c *Controller[T]) LastPage() {
	c.page = clampPage(c.TotalPages(), c.TotalPages())
}

// RemoveRecord deletes the record with key from the dataset and the filtered
// dataset. The current page is clamped to the new last page. It reports
// whether a record was removed; an unknown key is a no-op.
func (c *Controller[T]) RemoveRecord(key string) bool {
	idx := c.indexOf(c.dataset, key)
	if idx < 0 {
		c.log.Debug().Str("operation", "remove").Str("key", key).Msg("stale removal ignored")
		return false
	}
	c.dataset = append(c.dataset[:idx], c.dataset[idx+1:]...)
	if fidx := c.indexOf(c.filtered, key); fidx >= 0 {
		c.filtered = append(c.filtered[:fidx], c.filtered[fidx+1:]...)
	}
	c.page = clampPage(c.page, c.TotalPages())

	c.log.Debug().
		Str("operation", "remove").
		Str("key", key).
		Int("records", len(c.dataset)).
		Int("page", c.page).
		Msg("record removed")
	return true
}

// InsertRecord adds r to the end of the dataset, or replaces the record with
// the same key in place. The filtered dataset is recomputed and the current
// page clamped.
func (c *Controller[T]) InsertRecord(r T) {
	key := c.key(r)
	if idx := c.indexOf(c.dataset, key); idx >= 0 {
		c.dataset[idx] = r
	} else {
		c.dataset = append(c.dataset, r)
	}
	c.filtered = c.matcher.apply(c.filter, c.dataset)
	c.page = clampPage(c.page, c.TotalPages())

	c.log.Debug().
		Str("operation", "insert").
		Str("key", key).
		Int("records", len(c.dataset)).
		Msg("record inserted")
}

// Lookup returns the record with key.
func (c *Controller[T]) Lookup(key string) (T, bool) {
	if idx := c.indexOf(c.dataset, key); idx >= 0 {
		return c.dataset[idx], true
	}
	var zero T
	return zero, false
}

// PageSlice returns the records of the current page. It is empty when the
// current page lies past the end of the filtered dataset.
func (c *Controller[T]) PageSlice() []T {
	start := (c.page - 1) * c.pageSize
	if start < 0 || start >= len(c.filtered) {
		return []T{}
	}
	end := min(start+c.pageSize, len(c.filtered))
	out := make([]T, end-start)
	copy(out, c.filtered[start:end])
	return out
}

// PageWindow returns the navigation strip for the current page.
func (c *Controller[T]) PageWindow() []WindowEntry {
	return Window(c.page, c.TotalPages(), c.visiblePages)
}

// TotalPages returns ceil(filtered/pageSize), or 0 when nothing matches.
func (c *Controller[T]) TotalPages() int {
	n := len(c.filtered)
	if n == 0 {
		return 0
	}
	return (n + c.pageSize - 1) / c.pageSize
}

// CurrentPage returns the 1-based current page.
func (c *Controller[T]) CurrentPage() int { return c.page }

// PageSize returns the number of records per page.
func (c *Controller[T]) PageSize() int { return c.pageSize }

// VisiblePages returns the page window size.
func (c *Controller[T]) VisiblePages() int { return c.visiblePages }

// Policy returns the filter page policy.
func (c *Controller[T]) Policy() ResetPolicy { return c.policy }

// Empty reports whether the filtered dataset is empty.
func (c *Controller[T]) Empty() bool { return len(c.filtered) == 0 }

// NoRecords reports whether the dataset itself is empty.
func (c *Controller[T]) NoRecords() bool { return len(c.dataset) == 0 }

// Len returns the size of the dataset.
func (c *Controller[T]) Len() int { return len(c.dataset) }

// FilteredLen returns the size of the filtered dataset.
func (c *Controller[T]) FilteredLen() int { return len(c.filtered) }

// Filtered returns a copy of the filtered dataset.
func (c *Controller[T]) Filtered() []T {
	out := make([]T, len(c.filtered))
	copy(out, c.filtered)
	return out
}

// Filter returns a copy of the active criteria.
func (c *Controller[T]) Filter() FilterState { return c.filter.clone() }

// Meta returns page metadata for renderers.
func (c *Controller[T]) Meta() Meta {
	return NewMeta(c.page, c.pageSize, len(c.filtered))
}

func (c *Controller[T]) key(r T) string {
	if c.acc.Key == nil {
		return ""
	}
	return c.acc.Key(r)
}

func (c *Controller[T]) indexOf(items []T, key string) int {
	if c.acc.Key == nil {
		return -1
	}
	for i, r := range items {
		if c.acc.Key(r) == key {
			return i
		}
	}
	return -1
}

// clampPage bounds page to [1, max(total, 1)].
func clampPage(page, total int) int {
	hi := max(total, 1)
	switch {
	case page < 1:
		return 1
	case page > hi:
		return hi
	default:
		return page
	}
}
