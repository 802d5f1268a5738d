package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// halfViewportDivisor is used to center the selected row.
const halfViewportDivisor = 2

// RenderFunc renders one row. selected is true for the row under the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// KeyMap holds the cursor bindings.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding
}

// DefaultKeyMap binds arrows and vim keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	}
}

// Model is a cursor over a short list of rows.
type Model[T any] struct {
	items      []T
	renderFunc RenderFunc[T]
	keys       KeyMap

	// selected is the row under the cursor (0-based)
	selected int

	// visibleFrom and visibleTo bound the rendered rows (to is exclusive)
	visibleFrom int
	visibleTo   int

	height int
	width  int
}

// New creates a cursor over items with a viewport of height rows.
func New[T any](items []T, height, width int, renderFunc RenderFunc[T]) *Model[T] {
	m := &Model[T]{
		items:      items,
		renderFunc: renderFunc,
		keys:       DefaultKeyMap(),
		height:     max(height, 1),
		width:      width,
	}
	m.updateVisibleRange()
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update moves the cursor on key presses and resizes on window changes.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.SetSelected(m.selected - 1)
		case key.Matches(msg, m.keys.Down):
			m.SetSelected(m.selected + 1)
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Height, msg.Width)
	}
	return m, nil
}

// SetItems replaces the rows. The cursor keeps its index, clamped to the
// new rows.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetSize changes the viewport.
func (m *Model[T]) SetSize(height, width int) {
	m.height = max(height, 1)
	m.width = width
	m.updateVisibleRange()
}

// SetSelected moves the cursor, capping to valid bounds.
func (m *Model[T]) SetSelected(index int) {
	switch {
	case len(m.items) == 0 || index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.updateVisibleRange()
}

// updateVisibleRange keeps the selected row inside the viewport, centered
// where possible.
func (m *Model[T]) updateVisibleRange() {
	if len(m.items) == 0 {
		m.visibleFrom, m.visibleTo = 0, 0
		return
	}

	from := m.selected - m.height/halfViewportDivisor
	if from < 0 {
		from = 0
	}
	to := from + m.height
	if to > len(m.items) {
		to = len(m.items)
		from = max(to-m.height, 0)
	}
	m.visibleFrom, m.visibleTo = from, to
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := m.visibleFrom; i < m.visibleTo; i++ {
		if i > m.visibleFrom {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.renderFunc(m.items[i], i == m.selected))
	}
	return sb.String()
}

// ItemCount returns the number of rows.
func (m *Model[T]) ItemCount() int { return len(m.items) }

// Selected returns the row index under the cursor.
func (m *Model[T]) Selected() int { return m.selected }

// VisibleFrom returns the first rendered row (inclusive).
func (m *Model[T]) VisibleFrom() int { return m.visibleFrom }

// VisibleTo returns the last rendered row (exclusive).
func (m *Model[T]) VisibleTo() int { return m.visibleTo }

// Height returns the viewport height.
func (m *Model[T]) Height() int { return m.height }

// Width returns the viewport width.
func (m *Model[T]) Width() int { return m.width }

// SelectedItem returns the row under the cursor, or nil when empty.
func (m *Model[T]) SelectedItem() *T {
	if len(m.items) == 0 || m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}

// Keys returns the cursor bindings, for help rendering.
func (m *Model[T]) Keys() KeyMap { return m.keys }
