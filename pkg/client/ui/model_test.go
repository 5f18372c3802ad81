package ui

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeolun/ciphora/pkg/client"
	"github.com/aeolun/ciphora/pkg/client/roster"
	"github.com/aeolun/ciphora/pkg/client/ui/modal"
)

func TestNewModel(t *testing.T) {
	m, _, _ := NewTestModel()

	assert.False(t, m.modals.IsOpen())
	assert.Equal(t, 0, m.roster.Len())
	assert.Equal(t, "0.0.0-test", m.currentVersion)
}

func TestNewModelFirstRun(t *testing.T) {
	host := client.NewMockHost("ws://localhost:6470/gateway")
	host.Connect()
	state := client.NewMockState()
	state.SetFirstRun(true)

	m := NewModel(host, state, "0.0.0-test", false, log.New(io.Discard, "", 0))

	assert.Equal(t, modal.ModalSetupIdentity, m.modals.ActiveType())
}

func TestNewModelRestoresLastActiveChat(t *testing.T) {
	host := client.NewMockHost("ws://localhost:6470/gateway")
	host.Connect()
	state := client.NewMockState()
	state.SetFirstRunComplete()
	require.NoError(t, state.SetLastActiveChat("chat-7"))

	m := NewModel(host, state, "0.0.0-test", false, log.New(io.Discard, "", 0))

	assert.Equal(t, "chat-7", m.restoredActiveID)
}

func TestOpenAndCloseModalBumpGeneration(t *testing.T) {
	m, _, _ := NewTestModel()

	gen := m.callGen
	m.openModal(newSetupModal())
	assert.Equal(t, gen+1, m.callGen)

	m.closeModal()
	assert.Equal(t, gen+2, m.callGen)
	assert.False(t, m.modals.IsOpen())
}

func TestModalForType(t *testing.T) {
	m, _, _ := NewTestModel()

	for _, typ := range []modal.ModalType{
		modal.ModalSetupIdentity,
		modal.ModalImportPGP,
		modal.ModalCreatePGP,
		modal.ModalAddChat,
	} {
		mod, ok := m.modalForType(typ)
		require.True(t, ok, typ.String())
		assert.Equal(t, typ, mod.Type())
	}

	// Chat info needs an active chat to describe
	_, ok := m.modalForType(modal.ModalChatInfo)
	assert.False(t, ok)

	m.roster.ReplaceAll([]roster.Chat{CreateTestChat("chat-1", "Alice", 0)}, "chat-1")
	mod, ok := m.modalForType(modal.ModalChatInfo)
	require.True(t, ok)
	assert.Equal(t, modal.ModalChatInfo, mod.Type())
}
