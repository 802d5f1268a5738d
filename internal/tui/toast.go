package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastTTL is how long a toast stays on screen.
const ToastTTL = 3 * time.Second

// ToastLevel selects the toast color.
type ToastLevel int

// Toast levels.
const (
	ToastInfo ToastLevel = iota
	ToastError
)

// Toast is a transient status message.
type Toast struct {
	Level ToastLevel
	Text  string
}

// View renders the toast.
func (t Toast) View() string {
	if t.Level == ToastError {
		return errorStyle.Render("✗ " + t.Text)
	}
	return infoStyle.Render("✓ " + t.Text)
}

// toastExpiredMsg clears the toast with the same id. Newer toasts have a
// higher id and survive the expiry of older ones.
type toastExpiredMsg struct {
	id int
}

func expireToast(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
