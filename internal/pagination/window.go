package pagination

import (
	"strconv"
	"strings"
)

// leadingEllipsisAfter is the highest current page that still shows pages
// 1..current+1 without a gap after page 1.
const leadingEllipsisAfter = 3

// trailingEllipsisGap is the distance from the last page below which the
// trailing gap before the last page disappears.
const trailingEllipsisGap = 2

// WindowEntry is one element of the page navigation strip.
// An ellipsis entry has Page == 0 and Active == false.
type WindowEntry struct {
	Page     int  `json:"page,omitempty"     yaml:"page,omitempty"`
	Active   bool `json:"active,omitempty"   yaml:"active,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty" yaml:"ellipsis,omitempty"`
}

// Window computes the page navigation strip for current out of total pages.
//
// When total fits within visible every page is listed. Otherwise the strip
// keeps the first page, the last page and the neighbours of current, with an
// ellipsis marker standing in for each skipped run. A visible below
// MinVisiblePages is raised to it, so the result never holds more than
// visible+2 entries. It is empty when total is 0. A current page outside
// [1, total] marks no entry active.
func Window(current, total, visible int) []WindowEntry {
	if total <= 0 {
		return []WindowEntry{}
	}
	if visible < 1 {
		visible = DefaultVisiblePages
	}
	visible = max(visible, MinVisiblePages)

	if total <= visible {
		entries := make([]WindowEntry, 0, total)
		for p := 1; p <= total; p++ {
			entries = append(entries, WindowEntry{Page: p, Active: p == current})
		}
		return entries
	}

	entries := make([]WindowEntry, 0, visible+2)
	entries = append(entries, WindowEntry{Page: 1, Active: current == 1})

	if current > leadingEllipsisAfter {
		entries = append(entries, WindowEntry{Ellipsis: true})
	}

	start := max(2, current-1)
	end := min(current+1, total-1)
	for p := start; p <= end; p++ {
		entries = append(entries, WindowEntry{Page: p, Active: p == current})
	}

	if current < total-trailingEllipsisGap {
		entries = append(entries, WindowEntry{Ellipsis: true})
	}

	entries = append(entries, WindowEntry{Page: total, Active: current == total})
	return entries
}

// Pages returns the page numbers of a window, skipping ellipsis markers.
func Pages(entries []WindowEntry) []int {
	pages := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.Ellipsis {
			pages = append(pages, e.Page)
		}
	}
	return pages
}

// FormatWindow renders a window as plain text, e.g. "1 … 9 [10] 11 … 20".
func FormatWindow(entries []WindowEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Ellipsis:
			parts = append(parts, "…")
		case e.Active:
			parts = append(parts, "["+strconv.Itoa(e.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(e.Page))
		}
	}
	return strings.Join(parts, " ")
}
