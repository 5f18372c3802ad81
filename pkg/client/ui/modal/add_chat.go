package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AddChatModal confirms a composed chat: the user pastes the recipient's
// session id or public key block. Validation and the add-chat command are the
// session controller's job.
type AddChatModal struct {
	recipient string

	onAdd    func(recipient string) tea.Cmd
	onCancel func() tea.Cmd
}

// NewAddChatModal creates a new add chat modal
func NewAddChatModal(onAdd func(recipient string) tea.Cmd, onCancel func() tea.Cmd) *AddChatModal {
	return &AddChatModal{
		onAdd:    onAdd,
		onCancel: onCancel,
	}
}

// Type returns the modal type
func (m *AddChatModal) Type() ModalType {
	return ModalAddChat
}

// HandleKey processes keyboard input
func (m *AddChatModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "esc":
		var cmd tea.Cmd
		if m.onCancel != nil {
			cmd = m.onCancel()
		}
		return true, nil, cmd

	case "enter":
		return true, m, m.onAdd(m.recipient)

	case "backspace":
		if len(m.recipient) > 0 {
			m.recipient = m.recipient[:len(m.recipient)-1]
		}
		return true, m, nil

	default:
		if msg.Type == tea.KeyRunes {
			m.recipient += string(msg.Runes)
		}
		return true, m, nil
	}
}

// Render returns the modal content
func (m *AddChatModal) Render(width, height int, message Message) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	fieldStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(0, 1).
		Width(50)

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(1, 2).
		Width(58)

	title := titleStyle.Render("New Chat")

	// Key blocks are long; show the tail so the END marker stays visible
	preview := m.recipient
	lines := strings.Split(preview, "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
		preview = strings.Join(lines, "\n")
	}
	if m.recipient == "" {
		preview = hintStyle.Render("Session ID or PGP public key...")
	}
	preview += "█"

	content := title + "\n" +
		labelStyle.Render("Recipient") + "\n" +
		fieldStyle.Render(preview) + "\n" +
		renderMessage(message, 54) +
		hintStyle.Render("[Enter] Start chat  [Esc] Cancel")

	box := modalStyle.Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// IsBlockingInput returns true (this modal blocks all input)
func (m *AddChatModal) IsBlockingInput() bool {
	return true
}
