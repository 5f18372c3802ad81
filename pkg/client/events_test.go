package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeolun/ciphora/pkg/client/roster"
)

func TestFriendlyDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		diag string
		want string
	}{
		{
			"trims preamble before last marker",
			"openpgp: decryption stack\nat foo.go:12\nError: bad passphrase",
			"Error: bad passphrase",
		},
		{
			"keeps last marker when repeated",
			"Error: outer wrapper: Error: key not found",
			"Error: key not found",
		},
		{
			"no marker returns input unchanged",
			"connection refused",
			"connection refused",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FriendlyDiagnostic(tt.diag))
		})
	}
}

func TestEventDecode(t *testing.T) {
	payload, err := json.Marshal(UpdateChatsEvent{
		Chats: []roster.Chat{
			{ID: "aaa", Name: "Alice"},
		},
		ActiveChatID: "aaa",
		CloseModal:   true,
	})
	require.NoError(t, err)

	ev := Event{Name: EventUpdateChats, Payload: payload}

	var decoded UpdateChatsEvent
	require.NoError(t, ev.Decode(&decoded))
	require.Len(t, decoded.Chats, 1)
	assert.Equal(t, "aaa", decoded.Chats[0].ID)
	assert.Equal(t, "aaa", decoded.ActiveChatID)
	assert.True(t, decoded.CloseModal)
}

func TestEventDecodeEmptyPayload(t *testing.T) {
	ev := Event{Name: EventOpenModal}

	var decoded OpenModalEvent
	assert.NoError(t, ev.Decode(&decoded))
	assert.Equal(t, "", decoded.Modal)
}

func TestCreatePGPRequestOmitsEmptyEmail(t *testing.T) {
	raw, err := json.Marshal(CreatePGPRequest{
		Name:       "A",
		Passphrase: "p",
		Algo:       "rsa",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "email")

	raw, err = json.Marshal(CreatePGPRequest{
		Name:       "A",
		Passphrase: "p",
		Algo:       "rsa",
		Email:      "a@example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"email":"a@example.com"`)
}
