package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChatInfoModal shows details of the active chat and offers the copy-key and
// delete actions.
type ChatInfoModal struct {
	chatName string
	chatID   string

	onCopy   func() tea.Cmd
	onDelete func() tea.Cmd
}

// NewChatInfoModal creates a new chat info modal
func NewChatInfoModal(chatName, chatID string, onCopy, onDelete func() tea.Cmd) *ChatInfoModal {
	return &ChatInfoModal{
		chatName: chatName,
		chatID:   chatID,
		onCopy:   onCopy,
		onDelete: onDelete,
	}
}

// Type returns the modal type
func (m *ChatInfoModal) Type() ModalType {
	return ModalChatInfo
}

// HandleKey processes keyboard input
func (m *ChatInfoModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return true, nil, nil

	case "c":
		// Copy closes the modal as part of the action
		return true, nil, m.onCopy()

	case "d":
		return true, nil, m.onDelete()

	default:
		return true, m, nil
	}
}

// Render returns the modal content
func (m *ChatInfoModal) Render(width, height int, message Message) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(1, 2).
		Width(58)

	content := titleStyle.Render("Chat Info") + "\n" +
		labelStyle.Render("Name ") + valueStyle.Render(m.chatName) + "\n" +
		labelStyle.Render("ID   ") + valueStyle.Render(m.chatID) + "\n\n" +
		hintStyle.Render("[c] Copy their key  [d] Delete chat  [Esc] Close")

	box := modalStyle.Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// IsBlockingInput returns true (this modal blocks all input)
func (m *ChatInfoModal) IsBlockingInput() bool {
	return true
}
