package ui

import (
	"io"
	"log"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aeolun/ciphora/pkg/client"
	"github.com/aeolun/ciphora/pkg/client/roster"
	"github.com/aeolun/ciphora/pkg/client/ui/modal"
)

// Model represents the application state
type Model struct {
	// Host gateway and persistence
	host   client.HostInterface
	state  client.StateInterface
	logger *log.Logger

	// Conversation and modal state
	roster *roster.Store
	modals modal.Controller

	// callGen is bumped on every modal open/close. In-flight call results
	// carry the generation they were issued under; a mismatch means the
	// user has moved on and the result must not touch the current modal.
	callGen uint64

	// Last active chat restored from state, applied on the first roster
	// snapshot that does not name an active chat itself.
	restoredActiveID string

	// UI state
	width        int
	height       int
	messageInput textarea.Model
	chatViewport viewport.Model
	ready        bool

	notifyDesktop  bool
	currentVersion string
	errorMessage   string
}

// NewModel creates a new application model
func NewModel(host client.HostInterface, state client.StateInterface, currentVersion string, notifyDesktop bool, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	// Create textarea for message input
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetWidth(80) // Will be resized dynamically
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false) // Enter sends the message
	ta.FocusedStyle.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1)
	ta.BlurredStyle.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Padding(0, 1)
	ta.Focus()

	m := Model{
		host:             host,
		state:            state,
		logger:           logger,
		roster:           roster.NewStore(),
		restoredActiveID: state.GetLastActiveChat(),
		messageInput:     ta,
		notifyDesktop:    notifyDesktop,
		currentVersion:   currentVersion,
	}

	// Until the host confirms an identity exists, setup is the only way in.
	// Subsequent runs rely on the host pushing open-modal when needed.
	if state.GetFirstRun() {
		m.modals.Open(newSetupModal())
	}

	return m
}

// Init returns the initial command
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, listenForHostEvents(m.host))
}

// openModal routes every modal transition through the controller and
// invalidates in-flight call results.
func (m *Model) openModal(mod modal.Modal) {
	m.callGen++
	m.modals.Open(mod)
}

// closeModal dismisses whatever is open and invalidates in-flight calls.
func (m *Model) closeModal() {
	m.callGen++
	m.modals.Close()
}

// Modal constructors. Submissions surface as intent messages so the Update
// loop owns all state transitions.

func newSetupModal() modal.Modal {
	return modal.NewSetupIdentityModal(newImportModal, newCreateModal)
}

func newImportModal() modal.Modal {
	return modal.NewImportPGPModal(
		func(keys, passphrase string) tea.Cmd {
			return func() tea.Msg {
				return ImportSubmittedMsg{Keys: keys, Passphrase: passphrase}
			}
		},
		newSetupModal,
	)
}

func newCreateModal() modal.Modal {
	return modal.NewCreatePGPModal(
		func(params modal.CreatePGPParams) tea.Cmd {
			return func() tea.Msg {
				return CreateSubmittedMsg{Params: params}
			}
		},
		func() tea.Cmd {
			return func() tea.Msg {
				return CreateDoneMsg{}
			}
		},
		newSetupModal,
	)
}

func newAddModal() modal.Modal {
	return modal.NewAddChatModal(
		func(recipient string) tea.Cmd {
			return func() tea.Msg {
				return AddSubmittedMsg{Recipient: recipient}
			}
		},
		nil,
	)
}

func newChatInfoModal(chat roster.Chat) modal.Modal {
	chatID := chat.ID
	return modal.NewChatInfoModal(
		chat.Name,
		chat.ID,
		func() tea.Cmd {
			return func() tea.Msg {
				return CopyRequestedMsg{}
			}
		},
		func() tea.Cmd {
			return func() tea.Msg {
				return DeleteRequestedMsg{ChatID: chatID}
			}
		},
	)
}

// modalForType builds the modal the host asked for via open-modal
func (m *Model) modalForType(t modal.ModalType) (modal.Modal, bool) {
	switch t {
	case modal.ModalSetupIdentity:
		return newSetupModal(), true
	case modal.ModalImportPGP:
		return newImportModal(), true
	case modal.ModalCreatePGP:
		return newCreateModal(), true
	case modal.ModalAddChat:
		return newAddModal(), true
	case modal.ModalChatInfo:
		chat, ok := m.roster.Active()
		if !ok {
			return nil, false
		}
		return newChatInfoModal(chat), true
	default:
		return nil, false
	}
}
