package client

import (
	"encoding/json"
	"strings"

	"github.com/aeolun/ciphora/pkg/client/roster"
)

// Gateway commands (client → host, fire-and-forget).
const (
	CommandAddChat      = "add-chat"
	CommandSendMessage  = "send-message"
	CommandActivateChat = "activate-chat"
	CommandCopyPGP      = "copy-pgp"
)

// Gateway calls (client → host, request/response).
const (
	MethodImportPGP = "import-pgp"
	MethodCreatePGP = "create-pgp"
)

// Push event names (host → client).
const (
	EventUpdateChats = "update-chats"
	EventOpenModal   = "open-modal"
	EventModalError  = "modal-error"
	EventLog         = "log"
)

// Event is a host-initiated push notification.
type Event struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v interface{}) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}

// UpdateChatsEvent replaces the roster with an authoritative host snapshot.
type UpdateChatsEvent struct {
	Chats        []roster.Chat `json:"chats"`
	ActiveChatID string        `json:"activeChatId,omitempty"`
	CloseModal   bool          `json:"closeModal,omitempty"`
}

// OpenModalEvent asks the client to open a named modal.
type OpenModalEvent struct {
	Modal string `json:"modal"`
}

// ModalErrorEvent surfaces error text for the currently open modal.
type ModalErrorEvent struct {
	Text string `json:"text"`
}

// LogEvent carries a host-side log line for the client log.
type LogEvent struct {
	Line string `json:"line"`
}

// ImportPGPRequest is the import-pgp call payload.
type ImportPGPRequest struct {
	Passphrase        string `json:"passphrase"`
	PublicKeyArmored  string `json:"publicKeyArmored"`
	PrivateKeyArmored string `json:"privateKeyArmored"`
}

// CreatePGPRequest is the create-pgp call payload. Email is omitted from the
// wire entirely when not supplied.
type CreatePGPRequest struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
	Algo       string `json:"algo"`
	Email      string `json:"email,omitempty"`
}

// CreatePGPResponse carries the generated key pair back to the client.
type CreatePGPResponse struct {
	PublicKeyArmored  string `json:"publicKeyArmored"`
	PrivateKeyArmored string `json:"privateKeyArmored"`
}

// AddChatCommand is the add-chat command payload.
type AddChatCommand struct {
	PublicKeyArmored string `json:"publicKeyArmored"`
}

// SendMessageCommand is the send-message command payload.
type SendMessageCommand struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

// ChatIDCommand is the payload for commands that only name a chat
// (activate-chat, copy-pgp).
type ChatIDCommand struct {
	ChatID string `json:"chatId"`
}

// FriendlyDiagnostic trims a host call diagnostic down to the part a user can
// act on. Host errors tend to embed stack context before the actual message;
// everything from the last "Error" marker onward is the useful part. Text
// without the marker is returned unchanged.
func FriendlyDiagnostic(diag string) string {
	idx := strings.LastIndex(diag, "Error")
	if idx < 0 {
		return diag
	}
	return diag[idx:]
}
