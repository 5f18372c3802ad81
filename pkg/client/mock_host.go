package client

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MockHost is a test implementation of HostInterface
type MockHost struct {
	mu sync.RWMutex

	// State
	connected  bool
	address    string
	connectErr error
	sendErr    error

	// Scripted Invoke outcomes keyed by method name
	invokeResults map[string]mockInvokeResult

	// Channels for communication
	events chan Event
	errors chan error

	// Sent commands and calls for verification
	SentCommands []MockSentCommand
	Invocations  []MockInvocation
}

type mockInvokeResult struct {
	payload interface{}
	err     error
}

// MockSentCommand tracks commands sent via Send
type MockSentCommand struct {
	Command string
	Payload interface{}
}

// MockInvocation tracks calls made via Invoke
type MockInvocation struct {
	Method  string
	Payload interface{}
}

// NewMockHost creates a new mock host gateway
func NewMockHost(address string) *MockHost {
	return &MockHost{
		address:       address,
		invokeResults: make(map[string]mockInvokeResult),
		events:        make(chan Event, 100),
		errors:        make(chan error, 10),
		SentCommands:  make([]MockSentCommand, 0),
		Invocations:   make([]MockInvocation, 0),
	}
}

// Connect simulates connecting to the host
func (m *MockHost) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connectErr != nil {
		return m.connectErr
	}

	m.connected = true
	return nil
}

// Close closes the mock host
func (m *MockHost) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	close(m.events)
	close(m.errors)
}

// IsConnected returns the connection status
func (m *MockHost) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// GetAddress returns the mock address
func (m *MockHost) GetAddress() string {
	return m.address
}

// Send records the command for verification
func (m *MockHost) Send(command string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}

	m.SentCommands = append(m.SentCommands, MockSentCommand{
		Command: command,
		Payload: payload,
	})
	return nil
}

// Invoke records the call and returns the scripted outcome. With nothing
// scripted the call succeeds with an empty payload.
func (m *MockHost) Invoke(method string, payload interface{}, result interface{}) error {
	m.mu.Lock()
	m.Invocations = append(m.Invocations, MockInvocation{
		Method:  method,
		Payload: payload,
	})
	res, ok := m.invokeResults[method]
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if res.err != nil {
		return res.err
	}
	if result != nil && res.payload != nil {
		// Round-trip through JSON so the mock behaves like the wire
		raw, err := json.Marshal(res.payload)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, result)
	}
	return nil
}

// Events returns the push event channel
func (m *MockHost) Events() <-chan Event {
	return m.events
}

// Errors returns the error channel
func (m *MockHost) Errors() <-chan error {
	return m.errors
}

// Test helpers

// SetConnectError sets an error to return from Connect()
func (m *MockHost) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectErr = err
}

// SetSendError sets an error to return from Send()
func (m *MockHost) SetSendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// SetInvokeResult scripts a successful Invoke outcome for a method
func (m *MockHost) SetInvokeResult(method string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invokeResults[method] = mockInvokeResult{payload: payload}
}

// SetInvokeError scripts a failing Invoke outcome for a method
func (m *MockHost) SetInvokeError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invokeResults[method] = mockInvokeResult{err: err}
}

// SimulateEvent pushes an event as if the host sent it
func (m *MockHost) SimulateEvent(name string, payload interface{}) {
	raw, _ := json.Marshal(payload)
	m.events <- Event{Name: name, Payload: raw}
}

// SimulateError pushes an error as if the gateway surfaced it
func (m *MockHost) SimulateError(err error) {
	m.errors <- err
}

// CommandCount returns how many commands with the given name were sent
func (m *MockHost) CommandCount(command string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, c := range m.SentCommands {
		if c.Command == command {
			n++
		}
	}
	return n
}

// LastSentCommand returns the last command sent, or an error if none
func (m *MockHost) LastSentCommand() (MockSentCommand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.SentCommands) == 0 {
		return MockSentCommand{}, fmt.Errorf("no commands sent")
	}
	return m.SentCommands[len(m.SentCommands)-1], nil
}

// ClearSent clears the recorded commands and invocations
func (m *MockHost) ClearSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentCommands = make([]MockSentCommand, 0)
	m.Invocations = make([]MockInvocation, 0)
}
