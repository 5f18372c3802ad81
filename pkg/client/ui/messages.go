package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aeolun/ciphora/pkg/client"
	"github.com/aeolun/ciphora/pkg/client/ui/modal"
)

// HostEventMsg wraps a push event from the host process
type HostEventMsg struct {
	Event client.Event
}

// HostErrorMsg wraps an error surfaced by the gateway
type HostErrorMsg struct {
	Err error
}

// ImportPGPResultMsg is the resolution of an import-pgp call. Gen ties the
// result to the modal context it was issued under; stale results are dropped.
type ImportPGPResultMsg struct {
	Gen uint64
	Err error
}

// CreatePGPResultMsg is the resolution of a create-pgp call
type CreatePGPResultMsg struct {
	Gen  uint64
	Keys client.CreatePGPResponse
	Err  error
}

// ImportSubmittedMsg carries the import form contents to the controller
type ImportSubmittedMsg struct {
	Keys       string
	Passphrase string
}

// CreateSubmittedMsg carries the create form contents to the controller
type CreateSubmittedMsg struct {
	Params modal.CreatePGPParams
}

// CreateDoneMsg is sent when the user dismisses the generated-keys view
type CreateDoneMsg struct{}

// AddSubmittedMsg carries the recipient entered in the add chat modal
type AddSubmittedMsg struct {
	Recipient string
}

// CopyRequestedMsg asks for the active contact's key to be copied host-side
type CopyRequestedMsg struct{}

// DeleteRequestedMsg asks for a chat to be deleted
type DeleteRequestedMsg struct {
	ChatID string
}

// listenForHostEvents waits for the next push event or gateway error. The
// subscription lives for the whole session: every handled message re-issues
// this command.
func listenForHostEvents(host client.HostInterface) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-host.Events():
			if !ok {
				return nil
			}
			return HostEventMsg{Event: ev}
		case err, ok := <-host.Errors():
			if !ok {
				return nil
			}
			return HostErrorMsg{Err: err}
		}
	}
}
