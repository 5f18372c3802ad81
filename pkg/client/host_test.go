package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGateway is a minimal host-side endpoint for exercising the websocket
// gateway: it records commands, answers calls via a handler and can push
// events.
type testGateway struct {
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conn     *websocket.Conn
	commands []frame

	onCall func(f frame) frame
}

func newTestGateway(onCall func(f frame) frame) *testGateway {
	return &testGateway{onCall: onCall}
}

func (g *testGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	g.mu.Lock()
	g.conn = conn
	g.mu.Unlock()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}
		switch f.Kind {
		case frameCommand:
			g.mu.Lock()
			g.commands = append(g.commands, f)
			g.mu.Unlock()
		case frameCall:
			if g.onCall != nil {
				resp := g.onCall(f)
				resp.Kind = frameResult
				resp.ID = f.ID
				conn.WriteJSON(resp)
			}
		}
	}
}

func (g *testGateway) pushEvent(name string, payload interface{}) {
	raw, _ := json.Marshal(payload)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conn.WriteJSON(frame{Kind: frameEvent, Name: name, Payload: raw})
}

func (g *testGateway) commandCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.commands)
}

func dialTestHost(t *testing.T, gw *testGateway) *Host {
	t.Helper()

	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)

	host := NewHost("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, host.Connect())
	t.Cleanup(host.Close)

	return host
}

func TestHostSendCommand(t *testing.T) {
	gw := newTestGateway(nil)
	host := dialTestHost(t, gw)

	require.NoError(t, host.Send(CommandSendMessage, SendMessageCommand{
		ChatID:  "aaa",
		Content: "hi",
	}))

	require.Eventually(t, func() bool {
		return gw.commandCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	gw.mu.Lock()
	defer gw.mu.Unlock()
	assert.Equal(t, CommandSendMessage, gw.commands[0].Name)

	var payload SendMessageCommand
	require.NoError(t, json.Unmarshal(gw.commands[0].Payload, &payload))
	assert.Equal(t, "hi", payload.Content)
	assert.Equal(t, "aaa", payload.ChatID)
}

func TestHostInvokeSuccess(t *testing.T) {
	gw := newTestGateway(func(f frame) frame {
		raw, _ := json.Marshal(CreatePGPResponse{
			PublicKeyArmored:  "PUB",
			PrivateKeyArmored: "PRIV",
		})
		return frame{Payload: raw}
	})
	host := dialTestHost(t, gw)

	var result CreatePGPResponse
	require.NoError(t, host.Invoke(MethodCreatePGP, CreatePGPRequest{
		Name:       "A",
		Passphrase: "p",
		Algo:       "rsa",
	}, &result))

	assert.Equal(t, "PUB", result.PublicKeyArmored)
	assert.Equal(t, "PRIV", result.PrivateKeyArmored)
}

func TestHostInvokeFailure(t *testing.T) {
	gw := newTestGateway(func(f frame) frame {
		return frame{Error: "openpgp stack\nError: bad passphrase"}
	})
	host := dialTestHost(t, gw)

	err := host.Invoke(MethodImportPGP, ImportPGPRequest{}, nil)
	require.Error(t, err)
	assert.Equal(t, "Error: bad passphrase", FriendlyDiagnostic(err.Error()))
}

func TestHostReceivesEvents(t *testing.T) {
	gw := newTestGateway(nil)
	host := dialTestHost(t, gw)

	// Make sure the server side has the connection before pushing
	require.Eventually(t, func() bool {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		return gw.conn != nil
	}, 2*time.Second, 10*time.Millisecond)

	gw.pushEvent(EventModalError, ModalErrorEvent{Text: "Error: nope"})

	select {
	case ev := <-host.Events():
		assert.Equal(t, EventModalError, ev.Name)
		var payload ModalErrorEvent
		require.NoError(t, ev.Decode(&payload))
		assert.Equal(t, "Error: nope", payload.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pushed event")
	}
}

func TestHostInvokeNotConnected(t *testing.T) {
	host := NewHost("ws://127.0.0.1:1/gateway", nil)

	err := host.Invoke(MethodImportPGP, nil, nil)
	assert.Error(t, err)
	assert.Error(t, host.Send(CommandActivateChat, nil))
}
