package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/listctl/internal/pagination"
	"github.com/rshade/listctl/internal/records"
)

// Column widths of the record table.
const (
	colName    = 32
	colStatus  = 12
	colDetail  = 36
	colUpdated = 16
)

const updatedLayout = "2006-01-02 15:04"

func recordHeader() string {
	return fmt.Sprintf("  %-*s %-*s %-*s %s",
		colName, "NAME", colStatus, "STATUS", colDetail, "DETAIL", "UPDATED")
}

// renderRecord renders one table row.
func renderRecord(r records.Record, selected bool) string {
	updated := ""
	if !r.Updated.IsZero() {
		updated = r.Updated.Format(updatedLayout)
	}
	line := fmt.Sprintf("%-*s %-*s %-*s %-*s",
		colName, truncate(r.Name, colName),
		colStatus, truncate(r.Status, colStatus),
		colDetail, truncate(r.Detail, colDetail),
		colUpdated, updated)
	if selected {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 || len(r) <= 1 {
		return string(r[:min(width, len(r))])
	}
	return string(r[:width-1]) + "…"
}

// RenderPageStrip renders the navigation strip, for example
// "‹ 1 … 9 [10] 11 … 20 ›". The arrows dim at the first and last page.
func RenderPageStrip(window []pagination.WindowEntry, current, total int) string {
	if total == 0 {
		return subtleStyle.Render("‹ ›")
	}

	parts := make([]string, 0, len(window)+2)
	parts = append(parts, arrow("‹", current > 1))
	for _, e := range window {
		switch {
		case e.Ellipsis:
			parts = append(parts, subtleStyle.Render("…"))
		case e.Active:
			parts = append(parts, activePage.Render(fmt.Sprintf("[%d]", e.Page)))
		default:
			parts = append(parts, fmt.Sprintf("%d", e.Page))
		}
	}
	parts = append(parts, arrow("›", current < total))
	return strings.Join(parts, " ")
}

func arrow(s string, enabled bool) string {
	if enabled {
		return s
	}
	return subtleStyle.Render(s)
}
