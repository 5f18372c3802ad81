package modal

import (
	"github.com/charmbracelet/lipgloss"
)

// renderMessage renders the controller-owned status/error line used by the
// input modals. Returns "" when there is nothing to show so callers can
// concatenate it unconditionally.
func renderMessage(message Message, width int) string {
	if message.Text == "" {
		return "\n"
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Width(width)
	if message.Error {
		style = style.Foreground(lipgloss.Color("#FF5555")).Bold(true)
	}

	return style.Render(message.Text) + "\n\n"
}
