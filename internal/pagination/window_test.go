package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ell is shorthand for an ellipsis entry in expectations.
var ell = WindowEntry{Ellipsis: true} //nolint:gochecknoglobals // Test fixture.

func pg(n int, active bool) WindowEntry {
	return WindowEntry{Page: n, Active: active}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		visible int
		want    []WindowEntry
	}{
		{
			name:    "no pages",
			current: 1,
			total:   0,
			visible: 5,
			want:    []WindowEntry{},
		},
		{
			name:    "single page",
			current: 1,
			total:   1,
			visible: 5,
			want:    []WindowEntry{pg(1, true)},
		},
		{
			name:    "three pages fit the window",
			current: 1,
			total:   3,
			visible: 5,
			want:    []WindowEntry{pg(1, true), pg(2, false), pg(3, false)},
		},
		{
			name:    "exactly visible pages",
			current: 4,
			total:   5,
			visible: 5,
			want:    []WindowEntry{pg(1, false), pg(2, false), pg(3, false), pg(4, true), pg(5, false)},
		},
		{
			name:    "first of twenty",
			current: 1,
			total:   20,
			visible: 5,
			want:    []WindowEntry{pg(1, true), pg(2, false), ell, pg(20, false)},
		},
		{
			name:    "middle of twenty",
			current: 10,
			total:   20,
			visible: 5,
			want: []WindowEntry{
				pg(1, false), ell, pg(9, false), pg(10, true), pg(11, false), ell, pg(20, false),
			},
		},
		{
			name:    "third page has no leading gap",
			current: 3,
			total:   20,
			visible: 5,
			want:    []WindowEntry{pg(1, false), pg(2, false), pg(3, true), pg(4, false), ell, pg(20, false)},
		},
		{
			name:    "fourth page opens the leading gap",
			current: 4,
			total:   20,
			visible: 5,
			want: []WindowEntry{
				pg(1, false), ell, pg(3, false), pg(4, true), pg(5, false), ell, pg(20, false),
			},
		},
		{
			name:    "third from last closes the trailing gap",
			current: 18,
			total:   20,
			visible: 5,
			want:    []WindowEntry{pg(1, false), ell, pg(17, false), pg(18, true), pg(19, false), pg(20, false)},
		},
		{
			name:    "last of twenty",
			current: 20,
			total:   20,
			visible: 5,
			want:    []WindowEntry{pg(1, false), ell, pg(19, false), pg(20, true)},
		},
		{
			name:    "current past the end marks nothing active",
			current: 25,
			total:   20,
			visible: 5,
			want:    []WindowEntry{pg(1, false), ell, pg(20, false)},
		},
		{
			name:    "zero visible falls back to default",
			current: 2,
			total:   4,
			visible: 0,
			want:    []WindowEntry{pg(1, false), pg(2, true), pg(3, false), pg(4, false)},
		},
		{
			name:    "small visible is raised to the minimum",
			current: 2,
			total:   4,
			visible: 3,
			want:    []WindowEntry{pg(1, false), pg(2, true), pg(3, false), pg(4, false)},
		},
		{
			name:    "small visible behaves like the minimum",
			current: 10,
			total:   20,
			visible: 3,
			want: []WindowEntry{
				pg(1, false), ell, pg(9, false), pg(10, true), pg(11, false), ell, pg(20, false),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Window(tt.current, tt.total, tt.visible))
		})
	}
}

// TestWindow_Properties checks the structural guarantees of the strip for
// every reachable (current, total) pair up to a generous total.
func TestWindow_Properties(t *testing.T) {
	for _, visible := range []int{5, 7, 9} {
		for total := 1; total <= 60; total++ {
			for current := 1; current <= total; current++ {
				w := Window(current, total, visible)

				require.LessOrEqual(t, len(w), visible+2,
					"visible=%d total=%d current=%d", visible, total, current)

				pages := Pages(w)
				require.NotEmpty(t, pages)
				assert.Equal(t, 1, pages[0])
				assert.Equal(t, total, pages[len(pages)-1])

				for i := 1; i < len(pages); i++ {
					require.Greater(t, pages[i], pages[i-1], "pages must strictly increase: %v", pages)
				}

				ellipses, active := 0, 0
				for _, e := range w {
					if e.Ellipsis {
						ellipses++
						assert.Zero(t, e.Page)
						assert.False(t, e.Active)
						continue
					}
					assert.GreaterOrEqual(t, e.Page, 1)
					assert.LessOrEqual(t, e.Page, total)
					if e.Active {
						active++
						assert.Equal(t, current, e.Page)
					}
				}
				assert.LessOrEqual(t, ellipses, 2)
				assert.Equal(t, 1, active, "exactly one active page")
			}
		}
	}
}

func TestFormatWindow(t *testing.T) {
	assert.Equal(t, "1 … 9 [10] 11 … 20", FormatWindow(Window(10, 20, 5)))
	assert.Equal(t, "[1] 2 3", FormatWindow(Window(1, 3, 5)))
	assert.Empty(t, FormatWindow(Window(1, 0, 5)))
}
