package client

import (
	"sync"
)

// MockState is an in-memory test implementation of StateInterface
type MockState struct {
	mu sync.RWMutex

	// In-memory storage
	config map[string]string

	// Error injection
	getConfigErr error
	setConfigErr error
}

// NewMockState creates a new mock state
func NewMockState() *MockState {
	return &MockState{
		config: make(map[string]string),
	}
}

// GetConfig retrieves a configuration value
func (s *MockState) GetConfig(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getConfigErr != nil {
		return "", s.getConfigErr
	}

	return s.config[key], nil
}

// SetConfig stores a configuration value
func (s *MockState) SetConfig(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setConfigErr != nil {
		return s.setConfigErr
	}

	s.config[key] = value
	return nil
}

// GetLastActiveChat returns the chat that was active when the client last ran
func (s *MockState) GetLastActiveChat() string {
	chatID, _ := s.GetConfig("last_active_chat")
	return chatID
}

// SetLastActiveChat stores the currently active chat
func (s *MockState) SetLastActiveChat(chatID string) error {
	return s.SetConfig("last_active_chat", chatID)
}

// GetFirstRun checks if this is the first time running the client
func (s *MockState) GetFirstRun() bool {
	val, _ := s.GetConfig("first_run_complete")
	return val != "true"
}

// SetFirstRunComplete marks first run as complete
func (s *MockState) SetFirstRunComplete() error {
	return s.SetConfig("first_run_complete", "true")
}

// Close closes the mock state (no-op for in-memory)
func (s *MockState) Close() error {
	return nil
}

// Test helpers

// SetGetConfigError sets an error to return from GetConfig()
func (s *MockState) SetGetConfigError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getConfigErr = err
}

// SetSetConfigError sets an error to return from SetConfig()
func (s *MockState) SetSetConfigError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setConfigErr = err
}

// SetFirstRun sets the first run state
func (s *MockState) SetFirstRun(firstRun bool) {
	if firstRun {
		s.SetConfig("first_run_complete", "")
		return
	}
	s.SetConfig("first_run_complete", "true")
}
