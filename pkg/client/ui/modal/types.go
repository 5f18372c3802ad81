package modal

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ModalType uniquely identifies each modal type
type ModalType int

const (
	ModalNone ModalType = iota // Special value: no modal active
	ModalSetupIdentity
	ModalImportPGP
	ModalCreatePGP
	ModalAddChat
	ModalChatInfo
)

// String returns the string representation of the modal type
func (m ModalType) String() string {
	switch m {
	case ModalNone:
		return "None"
	case ModalSetupIdentity:
		return "SetupIdentity"
	case ModalImportPGP:
		return "ImportPGP"
	case ModalCreatePGP:
		return "CreatePGP"
	case ModalAddChat:
		return "AddChat"
	case ModalChatInfo:
		return "ChatInfo"
	default:
		return "Unknown"
	}
}

// TypeFromName maps the wire name used by the host's open-modal push event to
// a modal type.
func TypeFromName(name string) (ModalType, bool) {
	switch name {
	case "setupIdentity":
		return ModalSetupIdentity, true
	case "importPGP":
		return ModalImportPGP, true
	case "createPGP":
		return ModalCreatePGP, true
	case "add":
		return ModalAddChat, true
	case "chatInfo":
		return ModalChatInfo, true
	default:
		return ModalNone, false
	}
}

// Message is the status or error text shown inside the open modal. LongText
// carries large content (generated key blocks) rendered in its own area.
type Message struct {
	Text     string
	LongText string
	Error    bool
}

// Modal represents a modal dialog
type Modal interface {
	// Type returns the modal type identifier
	Type() ModalType

	// HandleKey processes keyboard input when this modal is active
	// Returns (handled, newModal, cmd)
	// - handled: true if the key was consumed by this modal
	// - newModal: nil to close modal, same modal to stay open, different modal to replace
	// - cmd: bubbletea command to execute
	HandleKey(msg tea.KeyMsg) (handled bool, newModal Modal, cmd tea.Cmd)

	// Render returns the modal content to be overlaid. The current message
	// belongs to the Controller, so it is passed in.
	Render(width, height int, message Message) string

	// IsBlockingInput returns true if this modal blocks all input to underlying views
	IsBlockingInput() bool
}

// Controller enforces modal exclusivity: at most one modal is visible, and
// opening or closing one always resets the message. All transitions go
// through Open and Close; a modal never falls through to another on its own.
type Controller struct {
	active  Modal
	message Message
}

// Open shows m, replacing whatever was open. The previous modal's message is
// cleared atomically with the switch.
func (c *Controller) Open(m Modal) {
	c.active = m
	c.message = Message{}
}

// Close dismisses the open modal and clears the message.
func (c *Controller) Close() {
	c.active = nil
	c.message = Message{}
}

// SetMessage replaces the message of the open modal context. Visibility is
// untouched.
func (c *Controller) SetMessage(text string, isError bool) {
	c.message = Message{Text: text, Error: isError}
}

// SetLongMessage replaces the message with long-form, non-error content.
func (c *Controller) SetLongMessage(longText string) {
	c.message = Message{LongText: longText}
}

// Active returns the open modal, or nil
func (c *Controller) Active() Modal {
	return c.active
}

// ActiveType returns the type of the open modal, or ModalNone
func (c *Controller) ActiveType() ModalType {
	if c.active == nil {
		return ModalNone
	}
	return c.active.Type()
}

// Message returns the current message
func (c *Controller) Message() Message {
	return c.message
}

// IsOpen reports whether any modal is visible
func (c *Controller) IsOpen() bool {
	return c.active != nil
}
