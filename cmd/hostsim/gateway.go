package main

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	"golang.org/x/crypto/openpgp/packet"

	"github.com/aeolun/ciphora/pkg/client"
	"github.com/aeolun/ciphora/pkg/client/roster"
)

// frame mirrors the gateway wire envelope
type frame struct {
	Kind    string          `json:"kind"`
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

var cannedReplies = []string{
	"Interesting, tell me more.",
	"Ha, good one!",
	"I was just thinking about that.",
	"Sounds good to me.",
	"Can this wait until tomorrow?",
	"👍",
}

// session is one connected client. All roster mutation happens under mu
// because canned replies arrive from timer goroutines.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	store   *identityStore

	mu       sync.Mutex
	identity *openpgp.Entity
	chats    []roster.Chat
	activeID string
}

func newSession(conn *websocket.Conn, store *identityStore, seed bool) *session {
	s := &session{conn: conn, store: store}
	if seed {
		s.chats = []roster.Chat{
			seedChat("Alice", "Hey, are you on Ciphora now?"),
			seedChat("Bob", "Did you get my key?"),
		}
		s.activeID = s.chats[0].ID
	}
	return s
}

func seedChat(name, firstMessage string) roster.Chat {
	sum := sha1.Sum([]byte(name))
	id := hex.EncodeToString(sum[:])
	return roster.Chat{
		ID:   id,
		Name: name,
		Messages: []roster.Message{{
			ID:        id + "-1",
			Sender:    name,
			Content:   firstMessage,
			Timestamp: time.Now().Add(-10 * time.Minute),
		}},
	}
}

func (s *session) run() {
	defer s.conn.Close()
	log.Printf("Client connected from %s", s.conn.RemoteAddr())

	// Tell a fresh client what we know. A stored identity counts even when
	// it has not been unlocked yet.
	s.mu.Lock()
	hasIdentity := s.identity != nil || s.store.Exists()
	s.pushRosterLocked(false)
	s.mu.Unlock()
	if !hasIdentity {
		s.pushEvent(client.EventOpenModal, client.OpenModalEvent{Modal: "setupIdentity"})
	}

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			log.Printf("Client disconnected: %v", err)
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			log.Printf("Dropping malformed frame: %v", err)
			continue
		}
		framesReceived.WithLabelValues(f.Kind, f.Name).Inc()

		switch f.Kind {
		case "command":
			s.handleCommand(f.Name, f.Payload)
		case "call":
			s.handleCall(f.ID, f.Name, f.Payload)
		default:
			log.Printf("Dropping frame of unexpected kind %q", f.Kind)
		}
	}
}

func (s *session) handleCall(id, method string, payload json.RawMessage) {
	var result interface{}
	var err error

	switch method {
	case client.MethodImportPGP:
		var req client.ImportPGPRequest
		if err = json.Unmarshal(payload, &req); err == nil {
			err = s.importIdentity(req)
		}

	case client.MethodCreatePGP:
		var req client.CreatePGPRequest
		if err = json.Unmarshal(payload, &req); err == nil {
			result, err = s.createIdentity(req)
		}

	default:
		err = fmt.Errorf("Error: unknown method %s", method)
	}

	if err != nil {
		callErrors.WithLabelValues(method).Inc()
		s.writeFrame(frame{Kind: "result", ID: id, Error: err.Error()})
		return
	}

	raw, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		s.writeFrame(frame{Kind: "result", ID: id, Error: "Error: internal encoding failure"})
		return
	}
	if result == nil {
		raw = nil
	}
	s.writeFrame(frame{Kind: "result", ID: id, Payload: raw})
}

func (s *session) handleCommand(name string, payload json.RawMessage) {
	switch name {
	case client.CommandAddChat:
		var cmd client.AddChatCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			log.Printf("Bad add-chat payload: %v", err)
			return
		}
		s.addChat(cmd.PublicKeyArmored)

	case client.CommandSendMessage:
		var cmd client.SendMessageCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			log.Printf("Bad send-message payload: %v", err)
			return
		}
		s.appendMessage(cmd.ChatID, cmd.Content)

	case client.CommandActivateChat:
		var cmd client.ChatIDCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return
		}
		s.mu.Lock()
		s.activeID = cmd.ChatID
		s.mu.Unlock()

	case client.CommandCopyPGP:
		// A real host would put the contact's key on the clipboard; here the
		// log is the clipboard.
		var cmd client.ChatIDCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return
		}
		log.Printf("copy-pgp requested for chat %s", cmd.ChatID)
		s.pushEvent(client.EventLog, client.LogEvent{Line: "Key copied to clipboard"})

	default:
		log.Printf("Ignoring unknown command %q", name)
	}
}

// importIdentity validates and adopts a pasted key pair
func (s *session) importIdentity(req client.ImportPGPRequest) error {
	combined := req.PublicKeyArmored + "\n" + req.PrivateKeyArmored
	ring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(combined))
	if err != nil {
		return fmt.Errorf("Error: could not read key ring: %v", err)
	}

	var entity *openpgp.Entity
	for _, e := range ring {
		if e.PrivateKey != nil {
			entity = e
			break
		}
	}
	if entity == nil {
		return fmt.Errorf("Error: no private key in keyring")
	}

	if entity.PrivateKey.Encrypted {
		if err := entity.PrivateKey.Decrypt([]byte(req.Passphrase)); err != nil {
			return fmt.Errorf("Error: bad passphrase")
		}
	}

	s.mu.Lock()
	s.identity = entity
	s.mu.Unlock()

	if err := s.store.Save(storedIdentity{
		PublicKeyArmored:  req.PublicKeyArmored,
		PrivateKeyArmored: req.PrivateKeyArmored,
	}, req.Passphrase); err != nil {
		log.Printf("Could not persist imported identity: %v", err)
	}

	log.Printf("Identity imported: %s", hex.EncodeToString(entity.PrimaryKey.Fingerprint[:]))
	return nil
}

// createIdentity generates a fresh key pair. The passphrase is required by
// the contract but the generated private key is kept unencrypted in memory;
// the frozen openpgp package cannot encrypt keys on serialization.
func (s *session) createIdentity(req client.CreatePGPRequest) (client.CreatePGPResponse, error) {
	if req.Name == "" || req.Passphrase == "" {
		return client.CreatePGPResponse{}, fmt.Errorf("Error: missing name or passphrase")
	}

	cfg := &packet.Config{RSABits: 4096}
	if req.Algo != "rsa" {
		// No curve generation available; smaller RSA stands in for ecc
		cfg.RSABits = 2048
	}

	entity, err := openpgp.NewEntity(req.Name, "", req.Email, cfg)
	if err != nil {
		return client.CreatePGPResponse{}, fmt.Errorf("Error: key generation failed: %v", err)
	}

	priv, err := armorEntity(entity, openpgp.PrivateKeyType)
	if err != nil {
		return client.CreatePGPResponse{}, fmt.Errorf("Error: could not armor private key: %v", err)
	}
	pub, err := armorEntity(entity, openpgp.PublicKeyType)
	if err != nil {
		return client.CreatePGPResponse{}, fmt.Errorf("Error: could not armor public key: %v", err)
	}

	s.mu.Lock()
	s.identity = entity
	s.mu.Unlock()

	if err := s.store.Save(storedIdentity{
		PublicKeyArmored:  pub,
		PrivateKeyArmored: priv,
	}, req.Passphrase); err != nil {
		log.Printf("Could not persist created identity: %v", err)
	}

	log.Printf("Identity created: %s", hex.EncodeToString(entity.PrimaryKey.Fingerprint[:]))

	return client.CreatePGPResponse{
		PublicKeyArmored:  pub,
		PrivateKeyArmored: priv,
	}, nil
}

func armorEntity(entity *openpgp.Entity, blockType string) (string, error) {
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, blockType, nil)
	if err != nil {
		return "", err
	}
	if blockType == openpgp.PrivateKeyType {
		err = entity.SerializePrivate(w, nil)
	} else {
		err = entity.Serialize(w)
	}
	if err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// addChat confirms a composed chat from the contact's public key
func (s *session) addChat(pubArmored string) {
	ring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(pubArmored))
	if err != nil || len(ring) == 0 {
		s.pushEvent(client.EventModalError, client.ModalErrorEvent{Text: "Could not read that key"})
		return
	}

	contact := ring[0]
	id := hex.EncodeToString(contact.PrimaryKey.Fingerprint[:])
	name := id[:8]
	for _, ident := range contact.Identities {
		name = ident.UserId.Name
		break
	}

	s.mu.Lock()
	for _, c := range s.chats {
		if c.ID == id {
			s.mu.Unlock()
			s.pushEvent(client.EventModalError, client.ModalErrorEvent{Text: "Chat already exists"})
			return
		}
	}
	s.chats = append([]roster.Chat{{ID: id, Name: name, Messages: []roster.Message{}}}, s.chats...)
	s.activeID = id
	chatsActive.Set(float64(len(s.chats)))
	s.pushRosterLocked(true)
	s.mu.Unlock()

	log.Printf("Chat added: %s (%s)", name, id)
}

// appendMessage records an outgoing message and schedules a canned reply
func (s *session) appendMessage(chatID, content string) {
	s.mu.Lock()
	idx := -1
	for i, c := range s.chats {
		if c.ID == chatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		log.Printf("send-message for unknown chat %s", chatID)
		return
	}

	now := time.Now()
	s.chats[idx].Messages = append(s.chats[idx].Messages, roster.Message{
		ID:        fmt.Sprintf("%s-%d", chatID, now.UnixNano()),
		Sender:    "me",
		Content:   content,
		Timestamp: now,
		Mine:      true,
	})
	s.pushRosterLocked(false)
	s.mu.Unlock()

	// The contact types for a bit, then answers
	delay := time.Duration(1+rand.Intn(3)) * time.Second
	time.AfterFunc(delay, func() { s.reply(chatID) })
}

func (s *session) reply(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.chats {
		if c.ID != chatID {
			continue
		}
		now := time.Now()
		s.chats[i].Messages = append(s.chats[i].Messages, roster.Message{
			ID:        fmt.Sprintf("%s-%d", chatID, now.UnixNano()),
			Sender:    c.Name,
			Content:   cannedReplies[rand.Intn(len(cannedReplies))],
			Timestamp: now,
		})
		s.pushRosterLocked(false)
		return
	}
}

// pushRosterLocked pushes the authoritative roster snapshot. Callers hold mu.
func (s *session) pushRosterLocked(closeModal bool) {
	s.pushEvent(client.EventUpdateChats, client.UpdateChatsEvent{
		Chats:        s.chats,
		ActiveChatID: s.activeID,
		CloseModal:   closeModal,
	})
}

func (s *session) pushEvent(name string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Could not encode %s event: %v", name, err)
		return
	}
	s.writeFrame(frame{Kind: "event", Name: name, Payload: raw})
}

func (s *session) writeFrame(f frame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := s.conn.WriteJSON(f); err != nil {
		log.Printf("Write failed: %v", err)
		return
	}
	framesSent.WithLabelValues(f.Kind, f.Name).Inc()
}
