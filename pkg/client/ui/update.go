package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/gen2brain/beeep"

	"github.com/aeolun/ciphora/pkg/client"
	"github.com/aeolun/ciphora/pkg/client/roster"
	"github.com/aeolun/ciphora/pkg/client/ui/modal"
	"github.com/aeolun/ciphora/pkg/client/validate"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := m.width - m.sidebarWidth() - 6
		chatHeight := m.height - 9 // Header, input area, footer
		if chatWidth < 20 {
			chatWidth = 20
		}
		if chatHeight < 5 {
			chatHeight = 5
		}

		if !m.ready {
			m.chatViewport = viewport.New(chatWidth, chatHeight)
			m.ready = true
		} else {
			m.chatViewport.Width = chatWidth
			m.chatViewport.Height = chatHeight
		}
		m.refreshChatViewport()

		m.messageInput.SetWidth(chatWidth)
		return m, nil

	case HostEventMsg:
		return m.handleHostEvent(msg.Event)

	case HostErrorMsg:
		m.errorMessage = msg.Err.Error()
		return m, listenForHostEvents(m.host)

	case ImportSubmittedMsg:
		return m.handleImportSubmitted(msg)

	case CreateSubmittedMsg:
		return m.handleCreateSubmitted(msg)

	case CreateDoneMsg:
		m.closeModal()
		return m, nil

	case AddSubmittedMsg:
		return m.handleAddSubmitted(msg)

	case CopyRequestedMsg:
		// The chat info modal already closed itself; complete the action
		m.closeModal()
		m.sendCommand(client.CommandCopyPGP, client.ChatIDCommand{ChatID: m.roster.ActiveID()})
		return m, nil

	case DeleteRequestedMsg:
		m.closeModal()
		m.roster.Remove(msg.ChatID)
		m.refreshChatViewport()
		return m, nil

	case ImportPGPResultMsg:
		return m.handleImportResult(msg)

	case CreatePGPResultMsg:
		return m.handleCreateResult(msg)
	}

	return m, nil
}

// handleKeyPress routes keys to the open modal first, then to the main view
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.saveAndQuit()
	}

	if m.modals.IsOpen() {
		return m.handleModalKey(msg)
	}

	switch msg.String() {
	case "ctrl+t":
		// Begin composition. BeginCompose is idempotent, so mashing the
		// key cannot create a second placeholder.
		m.roster.BeginCompose()
		m.openModal(newAddModal())
		m.refreshChatViewport()
		return m, nil

	case "ctrl+n":
		m.activateNeighbor(1)
		return m, nil

	case "ctrl+p":
		m.activateNeighbor(-1)
		return m, nil

	case "ctrl+o":
		if chat, ok := m.roster.Active(); ok {
			m.openModal(newChatInfoModal(chat))
		}
		return m, nil

	case "ctrl+d":
		m.roster.Remove(m.roster.ActiveID())
		m.refreshChatViewport()
		return m, nil

	case "enter":
		return m.sendMessage(m.messageInput.Value())

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatViewport, cmd = m.chatViewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.messageInput, cmd = m.messageInput.Update(msg)
	return m, cmd
}

// handleModalKey feeds a key to the active modal and applies the resulting
// transition through the controller.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.modals.Active()

	var next modal.Modal
	var cmd tea.Cmd
	if create, ok := active.(*modal.CreatePGPModal); ok {
		_, next, cmd = create.HandleKeyWithMessage(msg, m.modals.Message())
	} else {
		_, next, cmd = active.HandleKey(msg)
	}

	if next == nil {
		m.closeModal()
	} else if next != active {
		m.openModal(next)
	}

	return m, cmd
}

// saveAndQuit persists session state and exits
func (m Model) saveAndQuit() (tea.Model, tea.Cmd) {
	activeID := m.roster.ActiveID()
	if activeID != roster.ComposeChatID {
		if err := m.state.SetLastActiveChat(activeID); err != nil {
			m.logger.Printf("Failed to save active chat: %v", err)
		}
	}
	return m, tea.Quit
}

// handleHostEvent applies a push event and re-arms the listener
func (m Model) handleHostEvent(ev client.Event) (tea.Model, tea.Cmd) {
	relisten := listenForHostEvents(m.host)

	switch ev.Name {
	case client.EventUpdateChats:
		var payload client.UpdateChatsEvent
		if err := ev.Decode(&payload); err != nil {
			m.logger.Printf("Dropping malformed update-chats event: %v", err)
			return m, relisten
		}
		return m.applyRosterUpdate(payload), relisten

	case client.EventOpenModal:
		var payload client.OpenModalEvent
		if err := ev.Decode(&payload); err != nil {
			m.logger.Printf("Dropping malformed open-modal event: %v", err)
			return m, relisten
		}
		t, ok := modal.TypeFromName(payload.Modal)
		if !ok {
			m.logger.Printf("Host requested unknown modal %q", payload.Modal)
			return m, relisten
		}
		if mod, ok := m.modalForType(t); ok {
			m.openModal(mod)
		}
		return m, relisten

	case client.EventModalError:
		var payload client.ModalErrorEvent
		if err := ev.Decode(&payload); err != nil {
			m.logger.Printf("Dropping malformed modal-error event: %v", err)
			return m, relisten
		}
		m.modals.SetMessage(payload.Text, true)
		return m, relisten

	case client.EventLog:
		var payload client.LogEvent
		if err := ev.Decode(&payload); err == nil {
			m.logger.Printf("[host] %s", payload.Line)
		}
		return m, relisten

	default:
		m.logger.Printf("Ignoring unknown host event %q", ev.Name)
		return m, relisten
	}
}

// applyRosterUpdate reconciles a host roster snapshot with local state. This
// is the single merge point: whatever the host says, goes.
func (m Model) applyRosterUpdate(payload client.UpdateChatsEvent) Model {
	if payload.CloseModal {
		m.closeModal()
	}

	// Remember per-chat message counts to detect background activity
	before := make(map[string]int, m.roster.Len())
	for _, c := range m.roster.Chats() {
		before[c.ID] = len(c.Messages)
	}
	hadChats := m.roster.Len() > 0

	activeID := payload.ActiveChatID
	if activeID == "" && m.restoredActiveID != "" {
		activeID = m.restoredActiveID
	}
	m.restoredActiveID = ""

	m.roster.ReplaceAll(payload.Chats, activeID)

	if m.notifyDesktop && hadChats {
		for _, c := range m.roster.Chats() {
			if c.ID == m.roster.ActiveID() {
				continue
			}
			if len(c.Messages) > before[c.ID] {
				m.sendNotification(c.Name, c.Messages[len(c.Messages)-1].Content)
			}
		}
	}

	m.refreshChatViewport()
	return m
}

// handleImportSubmitted validates the pasted key pair and, only when both
// blocks are present, issues the import-pgp call.
func (m Model) handleImportSubmitted(msg ImportSubmittedMsg) (tea.Model, tea.Cmd) {
	pub, okPub := validate.ExtractPublicKey(msg.Keys)
	priv, okPriv := validate.ExtractPrivateKey(msg.Keys)

	if !okPub || !okPriv {
		m.modals.SetMessage("Missing or invalid details", true)
		return m, nil
	}

	gen := m.callGen
	host := m.host
	req := client.ImportPGPRequest{
		Passphrase:        msg.Passphrase,
		PublicKeyArmored:  pub,
		PrivateKeyArmored: priv,
	}
	return m, func() tea.Msg {
		err := host.Invoke(client.MethodImportPGP, req, nil)
		return ImportPGPResultMsg{Gen: gen, Err: err}
	}
}

// handleCreateSubmitted validates the form and issues the create-pgp call
func (m Model) handleCreateSubmitted(msg CreateSubmittedMsg) (tea.Model, tea.Cmd) {
	params := msg.Params
	if params.Name == "" || params.Passphrase == "" || params.Algo == "" {
		m.modals.SetMessage("Missing details", true)
		return m, nil
	}

	m.modals.SetMessage("Generating keys...", false)

	gen := m.callGen
	host := m.host
	req := client.CreatePGPRequest{
		Name:       params.Name,
		Passphrase: params.Passphrase,
		Algo:       params.Algo,
		Email:      params.Email, // omitted from the wire when empty
	}
	return m, func() tea.Msg {
		var keys client.CreatePGPResponse
		err := host.Invoke(client.MethodCreatePGP, req, &keys)
		return CreatePGPResultMsg{Gen: gen, Keys: keys, Err: err}
	}
}

// handleAddSubmitted confirms the composed chat
func (m Model) handleAddSubmitted(msg AddSubmittedMsg) (tea.Model, tea.Cmd) {
	pub, hasKey := validate.ExtractPublicKey(msg.Recipient)
	if !hasKey && !validate.ValidSessionID(strings.TrimSpace(msg.Recipient)) {
		m.modals.SetMessage("Invalid session ID or PGP key", true)
		return m, nil
	}

	m.modals.SetMessage("Composing chat...", false)

	// The add-chat contract takes the key block form only. A bare session
	// id passes validation but cannot be forwarded until the host learns
	// to resolve ids to keys.
	if hasKey {
		m.sendCommand(client.CommandAddChat, client.AddChatCommand{PublicKeyArmored: pub})
	}
	return m, nil
}

// handleImportResult applies the outcome of an import-pgp call
func (m Model) handleImportResult(msg ImportPGPResultMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.callGen {
		m.logger.Printf("Dropping stale import-pgp result (gen %d, current %d)", msg.Gen, m.callGen)
		return m, nil
	}

	if msg.Err != nil {
		m.modals.SetMessage(client.FriendlyDiagnostic(msg.Err.Error()), true)
		return m, nil
	}

	m.closeModal()
	if err := m.state.SetFirstRunComplete(); err != nil {
		m.logger.Printf("Failed to mark first run complete: %v", err)
	}
	return m, nil
}

// handleCreateResult applies the outcome of a create-pgp call. Success keeps
// the modal open showing both key blocks; the user dismisses it explicitly.
func (m Model) handleCreateResult(msg CreatePGPResultMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.callGen {
		m.logger.Printf("Dropping stale create-pgp result (gen %d, current %d)", msg.Gen, m.callGen)
		return m, nil
	}

	if msg.Err != nil {
		m.modals.SetMessage(client.FriendlyDiagnostic(msg.Err.Error()), true)
		return m, nil
	}

	m.modals.SetLongMessage(msg.Keys.PublicKeyArmored + "\n" + msg.Keys.PrivateKeyArmored)
	if err := m.state.SetFirstRunComplete(); err != nil {
		m.logger.Printf("Failed to mark first run complete: %v", err)
	}
	return m, nil
}

// sendMessage issues send-message for non-empty text. Whitespace-only input
// is dropped silently; that is a guard, not an error.
func (m Model) sendMessage(text string) (tea.Model, tea.Cmd) {
	if !validate.HasContent(text) {
		return m, nil
	}
	activeID := m.roster.ActiveID()
	if activeID == "" {
		return m, nil
	}

	m.sendCommand(client.CommandSendMessage, client.SendMessageCommand{
		ChatID:  activeID,
		Content: text,
	})
	m.messageInput.Reset()
	return m, nil
}

// activateChat switches chats and announces the switch to the host
func (m *Model) activateChat(chatID string) {
	if !m.roster.Activate(chatID) {
		return
	}
	m.sendCommand(client.CommandActivateChat, client.ChatIDCommand{ChatID: chatID})
	if chatID != roster.ComposeChatID {
		if err := m.state.SetLastActiveChat(chatID); err != nil {
			m.logger.Printf("Failed to save active chat: %v", err)
		}
	}
	m.refreshChatViewport()
}

// activateNeighbor moves the active chat up or down the roster
func (m *Model) activateNeighbor(delta int) {
	chats := m.roster.Chats()
	if len(chats) == 0 {
		return
	}

	idx := 0
	for i, c := range chats {
		if c.ID == m.roster.ActiveID() {
			idx = i + delta
			break
		}
	}
	if idx < 0 || idx >= len(chats) {
		return
	}
	m.activateChat(chats[idx].ID)
}

// sendCommand fires a gateway command; a local write failure only surfaces
// in the footer.
func (m *Model) sendCommand(command string, payload interface{}) {
	if err := m.host.Send(command, payload); err != nil {
		m.errorMessage = err.Error()
		m.logger.Printf("Failed to send %s: %v", command, err)
	}
}

// sendNotification shows a desktop notification for background activity
func (m *Model) sendNotification(title, body string) {
	if err := beeep.Notify(title, body, ""); err != nil {
		m.logger.Printf("Failed to send desktop notification: %v", err)
	}
}

func (m *Model) refreshChatViewport() {
	if !m.ready {
		return
	}
	m.chatViewport.SetContent(m.buildChatMessages())
	m.chatViewport.GotoBottom()
}
