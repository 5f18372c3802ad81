package ui

import (
	"io"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/aeolun/ciphora/pkg/client"
	"github.com/aeolun/ciphora/pkg/client/roster"
)

// NewTestModel creates a Model with mock dependencies for testing
func NewTestModel() (Model, *client.MockHost, *client.MockState) {
	host := client.NewMockHost("ws://localhost:6470/gateway")
	host.Connect()
	state := client.NewMockState()
	state.SetFirstRunComplete() // Most tests start past the setup flow
	logger := log.New(io.Discard, "", 0) // Discard logs in tests

	m := NewModel(host, state, "0.0.0-test", false, logger)
	return m, host, state
}

// SetupTestModelWithDimensions creates a test model with window dimensions set
func SetupTestModelWithDimensions(width, height int) (Model, *client.MockHost, *client.MockState) {
	m, host, state := NewTestModel()
	m.width = width
	m.height = height
	m.chatViewport = viewport.New(width-m.sidebarWidth()-6, height-9)
	m.ready = true
	return m, host, state
}

// CreateTestChat creates a chat with the given number of messages
func CreateTestChat(id, name string, msgCount int) roster.Chat {
	chat := roster.Chat{ID: id, Name: name}
	for i := 0; i < msgCount; i++ {
		chat.Messages = append(chat.Messages, roster.Message{
			ID:        id + "-msg",
			Sender:    name,
			Content:   "hello",
			Timestamp: time.Now(),
		})
	}
	return chat
}

// updateModel runs a message through Update and returns the concrete Model
func updateModel(m Model, msg tea.Msg) (Model, tea.Cmd) {
	newModel, cmd := m.Update(msg)
	return newModel.(Model), cmd
}

// drainCmd executes a command and feeds resulting messages back through
// Update until the command chain settles.
func drainCmd(m Model, cmd tea.Cmd) Model {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				m = drainCmd(m, c)
			}
			return m
		}
		m, cmd = updateModel(m, msg)
	}
	return m
}

// keyMsg builds a KeyMsg for a string like "ctrl+t" or a single rune
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// typeString feeds a string rune by rune, as a terminal would deliver it
func typeString(m Model, s string) Model {
	for _, r := range s {
		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}
