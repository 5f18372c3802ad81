package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestSetup() *SetupIdentityModal {
	return NewSetupIdentityModal(
		func() Modal { return NewImportPGPModal(nil, nil) },
		func() Modal { return NewCreatePGPModal(nil, nil, nil) },
	)
}

func TestControllerExclusivity(t *testing.T) {
	var c Controller

	assert.False(t, c.IsOpen())
	assert.Equal(t, ModalNone, c.ActiveType())

	c.Open(newTestSetup())
	assert.Equal(t, ModalSetupIdentity, c.ActiveType())

	// Opening another modal replaces the first; only one ever shows
	c.Open(NewAddChatModal(nil, nil))
	assert.Equal(t, ModalAddChat, c.ActiveType())
	assert.True(t, c.IsOpen())
}

func TestControllerOpenClearsMessage(t *testing.T) {
	var c Controller

	c.Open(NewAddChatModal(nil, nil))
	c.SetMessage("Invalid session ID or PGP key", true)
	assert.True(t, c.Message().Error)

	c.Open(newTestSetup())
	assert.Equal(t, Message{}, c.Message())
}

func TestControllerCloseClearsEverything(t *testing.T) {
	var c Controller

	c.Open(newTestSetup())
	c.SetMessage("Generating keys...", false)

	c.Close()
	assert.False(t, c.IsOpen())
	assert.Equal(t, ModalNone, c.ActiveType())
	assert.Equal(t, Message{}, c.Message())
}

func TestSetMessageDoesNotTouchVisibility(t *testing.T) {
	var c Controller

	c.Open(NewAddChatModal(nil, nil))
	c.SetMessage("Composing chat...", false)

	assert.Equal(t, ModalAddChat, c.ActiveType())
	assert.Equal(t, "Composing chat...", c.Message().Text)
	assert.False(t, c.Message().Error)
}

func TestSetLongMessage(t *testing.T) {
	var c Controller

	c.Open(NewCreatePGPModal(nil, nil, nil))
	c.SetMessage("Generating keys...", false)

	c.SetLongMessage("PUB\nPRIV")
	assert.Equal(t, Message{LongText: "PUB\nPRIV"}, c.Message())
}

func TestTypeFromName(t *testing.T) {
	tests := []struct {
		name string
		want ModalType
		ok   bool
	}{
		{"setupIdentity", ModalSetupIdentity, true},
		{"importPGP", ModalImportPGP, true},
		{"createPGP", ModalCreatePGP, true},
		{"add", ModalAddChat, true},
		{"chatInfo", ModalChatInfo, true},
		{"bogus", ModalNone, false},
	}

	for _, tt := range tests {
		got, ok := TypeFromName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}
