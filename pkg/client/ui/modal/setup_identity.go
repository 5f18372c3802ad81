package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SetupIdentityModal is the entry point shown when no identity exists yet.
// It only branches: import an existing PGP identity or create a new one.
type SetupIdentityModal struct {
	cursor   int
	onImport func() Modal
	onCreate func() Modal
}

// NewSetupIdentityModal creates a new setup identity modal. The callbacks
// build the follow-up modal; the transition itself still runs through the
// Controller.
func NewSetupIdentityModal(onImport, onCreate func() Modal) *SetupIdentityModal {
	return &SetupIdentityModal{
		onImport: onImport,
		onCreate: onCreate,
	}
}

// Type returns the modal type
func (m *SetupIdentityModal) Type() ModalType {
	return ModalSetupIdentity
}

// HandleKey processes keyboard input
func (m *SetupIdentityModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j", "tab":
		m.cursor = 1 - m.cursor
		return true, m, nil

	case "enter":
		if m.cursor == 0 {
			return true, m.onImport(), nil
		}
		return true, m.onCreate(), nil

	case "i":
		return true, m.onImport(), nil

	case "c":
		return true, m.onCreate(), nil

	default:
		// There is nothing to fall back to without an identity; stay open
		// until the host confirms one exists.
		return true, m, nil
	}
}

// Render returns the modal content
func (m *SetupIdentityModal) Render(width, height int, message Message) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(1, 2).
		Width(54)

	title := titleStyle.Render("Welcome to Ciphora")

	desc := normalStyle.Render("You need a PGP identity before you can chat.") + "\n" +
		mutedStyle.Render("Your keys never leave this machine unencrypted.")

	options := []struct {
		label string
		desc  string
	}{
		{"Import existing identity", "Paste your armored PGP key pair"},
		{"Create new identity", "Generate a fresh key pair"},
	}

	var optionLines string
	for i, opt := range options {
		prefix := "  "
		style := normalStyle
		if i == m.cursor {
			prefix = "> "
			style = selectedStyle
		}
		optionLines += prefix + style.Render(opt.label) + "\n"
		optionLines += "    " + mutedStyle.Render(opt.desc) + "\n"
	}

	help := mutedStyle.Render("[↑/↓] Navigate  [Enter] Select")

	content := title + "\n" + desc + "\n\n" + optionLines + "\n" + help

	box := modalStyle.Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// IsBlockingInput returns true (this modal blocks all input)
func (m *SetupIdentityModal) IsBlockingInput() bool {
	return true
}
