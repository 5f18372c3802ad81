package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	importFocusKeys = iota
	importFocusPassphrase
)

// ImportPGPModal takes a pasted armored key pair and a passphrase. Both key
// blocks are extracted and validated by the session controller before any
// host call happens.
type ImportPGPModal struct {
	keys       string
	passphrase string
	focus      int

	onImport func(keys, passphrase string) tea.Cmd
	onBack   func() Modal
}

// NewImportPGPModal creates a new import modal. onBack builds the setup
// modal shown when the user backs out.
func NewImportPGPModal(onImport func(keys, passphrase string) tea.Cmd, onBack func() Modal) *ImportPGPModal {
	return &ImportPGPModal{
		onImport: onImport,
		onBack:   onBack,
	}
}

// Type returns the modal type
func (m *ImportPGPModal) Type() ModalType {
	return ModalImportPGP
}

// HandleKey processes keyboard input
func (m *ImportPGPModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Explicit transition back to setup, never an automatic fallback
		return true, m.onBack(), nil

	case "tab", "shift+tab":
		m.focus = 1 - m.focus
		return true, m, nil

	case "enter":
		if m.focus == importFocusKeys {
			// Armored blocks span lines; Enter stays literal here
			m.keys += "\n"
			return true, m, nil
		}
		return true, m, m.onImport(m.keys, m.passphrase)

	case "backspace":
		switch m.focus {
		case importFocusKeys:
			if len(m.keys) > 0 {
				m.keys = m.keys[:len(m.keys)-1]
			}
		case importFocusPassphrase:
			if len(m.passphrase) > 0 {
				m.passphrase = m.passphrase[:len(m.passphrase)-1]
			}
		}
		return true, m, nil

	default:
		if msg.Type == tea.KeyRunes {
			switch m.focus {
			case importFocusKeys:
				m.keys += string(msg.Runes)
			case importFocusPassphrase:
				m.passphrase += string(msg.Runes)
			}
		}
		return true, m, nil
	}
}

// Render returns the modal content
func (m *ImportPGPModal) Render(width, height int, message Message) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	focusedField := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(0, 1).
		Width(50)

	blurredField := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
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

	title := titleStyle.Render("Import PGP Identity")

	// Show the tail of the paste area so the END marker stays visible
	keysPreview := m.keys
	lines := strings.Split(keysPreview, "\n")
	if len(lines) > 6 {
		lines = lines[len(lines)-6:]
		keysPreview = strings.Join(lines, "\n")
	}
	if m.keys == "" {
		keysPreview = hintStyle.Render("Paste your public and private key blocks...")
	}
	if m.focus == importFocusKeys {
		keysPreview += "█"
	}

	keysField := blurredField.Render(keysPreview)
	if m.focus == importFocusKeys {
		keysField = focusedField.Render(keysPreview)
	}

	masked := strings.Repeat("•", len(m.passphrase))
	if m.focus == importFocusPassphrase {
		masked += "█"
	}
	passField := blurredField.Render(masked)
	if m.focus == importFocusPassphrase {
		passField = focusedField.Render(masked)
	}

	content := title + "\n" +
		labelStyle.Render("Key blocks") + "\n" + keysField + "\n" +
		labelStyle.Render("Passphrase") + "\n" + passField + "\n" +
		renderMessage(message, 54) +
		hintStyle.Render("[Tab] Switch field  [Enter] Import  [Esc] Back")

	box := modalStyle.Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// IsBlockingInput returns true (this modal blocks all input)
func (m *ImportPGPModal) IsBlockingInput() bool {
	return true
}
