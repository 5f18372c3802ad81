package client

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// frame is the JSON envelope exchanged with the host process.
//
// Kinds: "command" (one-way, client → host), "call" (client → host, expects a
// "result" with the same id), "result" (host → client), "event" (host →
// client push). Payload stays raw until the receiver knows its shape.
type frame struct {
	Kind    string          `json:"kind"`
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

const (
	frameCommand = "command"
	frameCall    = "call"
	frameResult  = "result"
	frameEvent   = "event"
)

type callResult struct {
	payload json.RawMessage
	err     error
}

// Host is the websocket implementation of HostInterface.
type Host struct {
	addr string
	mu   sync.RWMutex
	conn *websocket.Conn

	connected bool
	closed    bool

	// Pending calls keyed by correlation id
	pending map[string]chan callResult

	// Channels for communication
	events   chan Event
	errors   chan error
	outgoing chan frame

	writeTimeout time.Duration

	logger *log.Logger

	// Shutdown
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewHost creates a gateway that will dial the host process at addr
// (a ws:// or wss:// URL).
func NewHost(addr string, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Host{
		addr:         addr,
		pending:      make(map[string]chan callResult),
		events:       make(chan Event, 100),
		errors:       make(chan error, 10),
		outgoing:     make(chan frame, 100),
		writeTimeout: 10 * time.Second,
		logger:       logger,
		shutdown:     make(chan struct{}),
	}
}

// Connect dials the host and starts the read and write loops.
func (h *Host) Connect() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connected {
		return nil
	}
	if h.closed {
		return fmt.Errorf("host gateway is closed")
	}

	conn, _, err := websocket.DefaultDialer.Dial(h.addr, nil)
	if err != nil {
		return fmt.Errorf("failed to dial host at %s: %w", h.addr, err)
	}

	h.conn = conn
	h.connected = true

	h.wg.Add(2)
	go h.readLoop(conn)
	go h.writeLoop(conn)

	return nil
}

// Close tears the gateway down. Pending calls fail, loops exit.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.connected = false
	close(h.shutdown)
	conn := h.conn
	h.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	h.wg.Wait()
	h.failPending(fmt.Errorf("host gateway closed"))
}

// IsConnected returns the connection status.
func (h *Host) IsConnected() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connected
}

// GetAddress returns the host URL.
func (h *Host) GetAddress() string {
	return h.addr
}

// Send issues a fire-and-forget command.
func (h *Host) Send(command string, payload interface{}) error {
	raw, err := marshalPayload(payload)
	if err != nil {
		return err
	}
	return h.enqueue(frame{Kind: frameCommand, Name: command, Payload: raw})
}

// Invoke issues a call and blocks until the matching result frame arrives or
// the gateway shuts down.
func (h *Host) Invoke(method string, payload interface{}, result interface{}) error {
	raw, err := marshalPayload(payload)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	ch := make(chan callResult, 1)

	h.mu.Lock()
	if !h.connected {
		h.mu.Unlock()
		return fmt.Errorf("not connected to host")
	}
	h.pending[id] = ch
	h.mu.Unlock()

	if err := h.enqueue(frame{Kind: frameCall, ID: id, Name: method, Payload: raw}); err != nil {
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
		return err
	}

	select {
	case res := <-ch:
		if res.err != nil {
			return res.err
		}
		if result != nil && len(res.payload) > 0 {
			if err := json.Unmarshal(res.payload, result); err != nil {
				return fmt.Errorf("failed to decode %s result: %w", method, err)
			}
		}
		return nil
	case <-h.shutdown:
		return fmt.Errorf("host gateway closed")
	}
}

// Events returns the push event channel. Subscribed once, for the whole
// session.
func (h *Host) Events() <-chan Event {
	return h.events
}

// Errors returns the error channel.
func (h *Host) Errors() <-chan error {
	return h.errors
}

func (h *Host) enqueue(f frame) error {
	h.mu.RLock()
	connected := h.connected
	h.mu.RUnlock()
	if !connected {
		return fmt.Errorf("not connected to host")
	}

	select {
	case h.outgoing <- f:
		return nil
	case <-h.shutdown:
		return fmt.Errorf("host gateway closed")
	}
}

func (h *Host) readLoop(conn *websocket.Conn) {
	defer h.wg.Done()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.mu.Lock()
			wasConnected := h.connected
			h.connected = false
			h.mu.Unlock()

			if wasConnected {
				h.logger.Printf("Host connection lost: %v", err)
				select {
				case h.errors <- fmt.Errorf("disconnected from host: %w", err):
				default:
				}
				h.failPending(fmt.Errorf("disconnected from host"))
			}
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			h.logger.Printf("Dropping malformed frame from host: %v", err)
			continue
		}

		switch f.Kind {
		case frameResult:
			h.mu.Lock()
			ch, ok := h.pending[f.ID]
			delete(h.pending, f.ID)
			h.mu.Unlock()
			if !ok {
				h.logger.Printf("Result for unknown call %s dropped", f.ID)
				continue
			}
			if f.Error != "" {
				ch <- callResult{err: fmt.Errorf("%s", f.Error)}
			} else {
				ch <- callResult{payload: f.Payload}
			}

		case frameEvent:
			select {
			case h.events <- Event{Name: f.Name, Payload: f.Payload}:
			case <-h.shutdown:
				return
			}

		default:
			h.logger.Printf("Dropping frame of unexpected kind %q", f.Kind)
		}
	}
}

func (h *Host) writeLoop(conn *websocket.Conn) {
	defer h.wg.Done()

	for {
		select {
		case f := <-h.outgoing:
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteJSON(f); err != nil {
				h.logger.Printf("Write to host failed: %v", err)
				select {
				case h.errors <- fmt.Errorf("write to host failed: %w", err):
				default:
				}
				return
			}
		case <-h.shutdown:
			return
		}
	}
}

func (h *Host) failPending(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.pending {
		ch <- callResult{err: err}
		delete(h.pending, id)
	}
}

func marshalPayload(payload interface{}) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return raw, nil
}
