// Package listview provides a row cursor for Bubble Tea views that show one
// page of records at a time.
//
// The cursor tracks the selected row, keeps it inside the viewport, and
// renders only the rows that fit. Replacing the rows (after a page change or
// a filter change) keeps the selection at the same index when it still
// exists.
package listview
