package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	createFocusName = iota
	createFocusEmail
	createFocusPassphrase
	createFocusAlgo
	createFieldCount
)

// Algorithms the host can generate keys for.
var createAlgos = []string{"rsa", "ecc"}

// CreatePGPParams carries the user's choices to the session controller.
// Email is optional and omitted from the host request when empty.
type CreatePGPParams struct {
	Name       string
	Email      string
	Passphrase string
	Algo       string
}

// CreatePGPModal collects the details for generating a new identity. After a
// successful generation the controller sets a long message holding both
// armored key blocks; the modal then only offers explicit dismissal, since
// the user must read or copy the keys.
type CreatePGPModal struct {
	name       string
	email      string
	passphrase string
	algoIndex  int
	focus      int

	onCreate func(params CreatePGPParams) tea.Cmd
	onDone   func() tea.Cmd
	onBack   func() Modal
}

// NewCreatePGPModal creates a new create identity modal
func NewCreatePGPModal(onCreate func(params CreatePGPParams) tea.Cmd, onDone func() tea.Cmd, onBack func() Modal) *CreatePGPModal {
	return &CreatePGPModal{
		onCreate: onCreate,
		onDone:   onDone,
		onBack:   onBack,
	}
}

// Type returns the modal type
func (m *CreatePGPModal) Type() ModalType {
	return ModalCreatePGP
}

// HandleKey processes keyboard input
func (m *CreatePGPModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return true, m.onBack(), nil

	case "tab", "down":
		m.focus = (m.focus + 1) % createFieldCount
		return true, m, nil

	case "shift+tab", "up":
		m.focus = (m.focus + createFieldCount - 1) % createFieldCount
		return true, m, nil

	case "left", "right":
		if m.focus == createFocusAlgo {
			m.algoIndex = 1 - m.algoIndex
		}
		return true, m, nil

	case "enter":
		return true, m, m.onCreate(CreatePGPParams{
			Name:       m.name,
			Email:      m.email,
			Passphrase: m.passphrase,
			Algo:       createAlgos[m.algoIndex],
		})

	case "backspace":
		switch m.focus {
		case createFocusName:
			m.name = trimLastChar(m.name)
		case createFocusEmail:
			m.email = trimLastChar(m.email)
		case createFocusPassphrase:
			m.passphrase = trimLastChar(m.passphrase)
		}
		return true, m, nil

	default:
		if msg.Type == tea.KeyRunes {
			switch m.focus {
			case createFocusName:
				m.name += string(msg.Runes)
			case createFocusEmail:
				m.email += string(msg.Runes)
			case createFocusPassphrase:
				m.passphrase += string(msg.Runes)
			}
		}
		return true, m, nil
	}
}

// HandleKeyWithMessage lets the session controller route keys differently
// once generated keys are on screen: any dismissal key completes the flow.
func (m *CreatePGPModal) HandleKeyWithMessage(msg tea.KeyMsg, message Message) (bool, Modal, tea.Cmd) {
	if message.LongText != "" {
		switch msg.String() {
		case "enter", "esc", "q":
			return true, m, m.onDone()
		}
		return true, m, nil
	}
	return m.HandleKey(msg)
}

func trimLastChar(s string) string {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

// Render returns the modal content
func (m *CreatePGPModal) Render(width, height int, message Message) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("205")).
		Padding(1, 2).
		Width(58)

	// Generated keys view: the user has to dismiss this explicitly
	if message.LongText != "" {
		keyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(52).
			MaxHeight(height - 10)

		content := titleStyle.Render("Your new identity") + "\n" +
			keyStyle.Render(message.LongText) + "\n\n" +
			hintStyle.Render("Save these keys somewhere safe, then press [Enter]")

		box := modalStyle.Render(content)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}

	title := titleStyle.Render("Create PGP Identity")

	fields := []struct {
		label  string
		value  string
		masked bool
	}{
		{"Name", m.name, false},
		{"Email (optional)", m.email, false},
		{"Passphrase", m.passphrase, true},
	}

	var body string
	for i, f := range fields {
		value := f.value
		if f.masked {
			value = strings.Repeat("•", len(f.value))
		}
		body += renderField(f.label, value, m.focus == i) + "\n"
	}

	// Algorithm selector
	algoLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Render("Algorithm")
	var algoParts []string
	for i, algo := range createAlgos {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		if i == m.algoIndex {
			style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
		}
		algoParts = append(algoParts, style.Render(algo))
	}
	algoLine := "  " + strings.Join(algoParts, "   ")
	if m.focus == createFocusAlgo {
		algoLine = "> " + strings.Join(algoParts, "   ")
	}
	body += algoLabel + "\n" + algoLine + "\n\n"

	help := hintStyle.Render("[Tab] Next field  [←/→] Algorithm  [Enter] Generate  [Esc] Back")

	content := title + "\n" + body + renderMessage(message, 54) + help

	box := modalStyle.Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func renderField(label, value string, focused bool) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	fieldStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(50)
	if focused {
		fieldStyle = fieldStyle.BorderForeground(lipgloss.Color("205"))
		value += "█"
	}

	return labelStyle.Render(label) + "\n" + fieldStyle.Render(value)
}

// IsBlockingInput returns true (this modal blocks all input)
func (m *CreatePGPModal) IsBlockingInput() bool {
	return true
}
