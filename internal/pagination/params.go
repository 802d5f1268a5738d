package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Default page requested by one-shot rendering.
const DefaultPage = 1

// Common validation errors.
var (
	ErrInvalidPage         = errors.New("page must be >= 1")
	ErrInvalidPageSize     = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidVisiblePages = fmt.Errorf("visible-pages must be between %d and %d", MinVisiblePages, MaxVisiblePages)
)

// Params holds CLI pagination and filter flags for rendering a single page.
type Params struct {
	// Page is the 1-based page to render.
	Page int

	// PageSize is the number of records per page.
	PageSize int

	// VisiblePages is the width of the page window.
	VisiblePages int

	// Search is the case-insensitive substring filter on record names.
	Search string

	// Statuses restricts records to these status values.
	Statuses []string

	// ResetOnFilter selects PageResetFirst when true.
	ResetOnFilter bool
}

// NewParams creates Params with default values.
func NewParams() *Params {
	return &Params{
		Page:         DefaultPage,
		PageSize:     DefaultPageSize,
		VisiblePages: DefaultVisiblePages,
	}
}

// Validate checks that the parameters are within bounds.
func (p Params) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.VisiblePages < MinVisiblePages || p.VisiblePages > MaxVisiblePages {
		return fmt.Errorf("%w: got %d", ErrInvalidVisiblePages, p.VisiblePages)
	}
	for _, s := range p.Statuses {
		if strings.TrimSpace(s) == "" {
			return errors.New("status values cannot be empty")
		}
	}
	return nil
}

// Policy returns the filter page policy selected by the params.
func (p Params) Policy() ResetPolicy {
	if p.ResetOnFilter {
		return PageResetFirst
	}
	return PageResetKeep
}

// Options returns the controller options matching the params.
func (p Params) Options() []Option {
	return []Option{
		WithPageSize(p.PageSize),
		WithVisiblePages(p.VisiblePages),
		WithResetPolicy(p.Policy()),
	}
}

// Apply replays the filter and page onto a loaded controller, in the order a
// user would: status filter, search, then page jump.
func Apply[T any](p Params, c *Controller[T]) {
	if len(p.Statuses) > 0 {
		c.SetStatusFilter(p.Statuses)
	}
	if p.Search != "" {
		c.SetSearchTerm(p.Search)
	}
	c.GoToPage(p.Page)
}
