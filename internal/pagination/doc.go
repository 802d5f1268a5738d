// Package pagination provides the in-memory list controller shared by every
// listctl list view.
//
// The package contains:
//   - Controller: owns a dataset, the active search/status filter and the page
//     position, and derives the filtered dataset, the page slice and the page
//     window after every operation
//   - Window: the compressed page-number strip with ellipsis markers
//   - Params: CLI flag parsing and validation for one-shot page rendering
//   - Meta: response metadata for a rendered page
//
// A Controller is not safe for concurrent use. Each list view owns exactly one
// and drives it from a single goroutine (the Bubble Tea update loop or a CLI
// command).
package pagination
