package client

// HostInterface defines the gateway to the host process. The host performs
// all cryptography, persistence and networking; the client only ever talks to
// it through this surface. This allows for mocking in tests while the real
// Host implements all these methods.
type HostInterface interface {
	// Connection management
	Connect() error
	Close()
	IsConnected() bool
	GetAddress() string

	// Send issues a fire-and-forget command (add-chat, send-message,
	// activate-chat, copy-pgp). Failures past the local write are the
	// host's to log; nothing comes back.
	Send(command string, payload interface{}) error

	// Invoke issues a request/response call (import-pgp, create-pgp) and
	// blocks until the host answers. Callers run it inside a tea.Cmd so the
	// outcome arrives as a later event. A non-nil error carries the host's
	// raw diagnostic; see FriendlyDiagnostic.
	Invoke(method string, payload interface{}, result interface{}) error

	// Channels for receiving data
	Events() <-chan Event
	Errors() <-chan error
}

// StateInterface defines the interface for client state persistence.
// This allows for mocking in tests while the real State implements all
// these methods.
type StateInterface interface {
	// Configuration
	GetConfig(key string) (string, error)
	SetConfig(key, value string) error

	// Active chat tracking
	GetLastActiveChat() string
	SetLastActiveChat(chatID string) error

	// First run tracking
	GetFirstRun() bool
	SetFirstRunComplete() error

	// Close the state
	Close() error
}
