// Package roster owns the client-side conversation state: the ordered set of
// chats, the active chat and the transient compose placeholder. All mutation
// goes through named operations so the invariants hold between events:
// the compose placeholder exists iff composing is set (and sits first), and a
// non-empty active id always refers to a present chat.
package roster

import "time"

// ComposeChatID is the reserved identifier of the compose placeholder. It
// never leaves the client; confirmed chats arrive from the host with real ids.
const ComposeChatID = "compose"

// composeChatName is the display label of the placeholder.
const composeChatName = "New Chat"

// Message is a single message inside a chat.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Mine      bool      `json:"mine"`
}

// Chat is one conversation with a contact.
type Chat struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// Store holds the conversation state. Insertion order is display order.
type Store struct {
	order     []string
	chats     map[string]Chat
	activeID  string
	composing bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		chats: make(map[string]Chat),
	}
}

// ReplaceAll swaps in an authoritative roster snapshot from the host. When
// newActiveID is non-empty it also moves the active chat; otherwise the
// current active chat is kept if it survived the snapshot. This is the single
// merge point between optimistic local state and host state.
func (s *Store) ReplaceAll(chats []Chat, newActiveID string) {
	s.order = s.order[:0]
	s.chats = make(map[string]Chat, len(chats))
	for _, c := range chats {
		if _, dup := s.chats[c.ID]; dup {
			continue
		}
		s.order = append(s.order, c.ID)
		s.chats[c.ID] = c
	}

	// The placeholder only exists client-side; a snapshot carrying it would
	// have to come from a confused host, but honor it either way.
	_, s.composing = s.chats[ComposeChatID]

	if newActiveID != "" {
		s.activeID = newActiveID
	}
	if _, ok := s.chats[s.activeID]; !ok {
		s.activeID = s.firstID()
	}
}

// BeginCompose inserts the compose placeholder at the front of the roster and
// activates it. Idempotent: a second call while composing changes nothing.
func (s *Store) BeginCompose() {
	if s.composing {
		return
	}
	s.order = append([]string{ComposeChatID}, s.order...)
	s.chats[ComposeChatID] = Chat{
		ID:       ComposeChatID,
		Name:     composeChatName,
		Messages: []Message{},
	}
	s.composing = true
	s.activeID = ComposeChatID
}

// CancelCompose discards the compose placeholder. The active chat becomes the
// first remaining chat, or empty when the roster is empty.
func (s *Store) CancelCompose() {
	if !s.composing {
		return
	}
	delete(s.chats, ComposeChatID)
	for i, id := range s.order {
		if id == ComposeChatID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.composing = false
	s.activeID = s.firstID()
}

// Activate switches the active chat and reports whether anything changed.
// Switching away from the compose placeholder discards it: an unconfirmed
// chat has no meaning once the user moves on.
func (s *Store) Activate(id string) bool {
	if id == s.activeID {
		return false
	}
	if _, ok := s.chats[id]; !ok {
		return false
	}
	if s.activeID == ComposeChatID {
		s.CancelCompose()
	}
	s.activeID = id
	return true
}

// Remove deletes a chat. The compose placeholder goes through CancelCompose;
// confirmed chats are left alone until the host supports deletion.
func (s *Store) Remove(id string) {
	if id == ComposeChatID {
		s.CancelCompose()
	}
	// Deleting a confirmed chat needs host-side support that does not exist
	// yet; the delete command is intentionally not issued.
}

// Chats returns the chats in display order.
func (s *Store) Chats() []Chat {
	out := make([]Chat, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.chats[id])
	}
	return out
}

// Get returns the chat with the given id.
func (s *Store) Get(id string) (Chat, bool) {
	c, ok := s.chats[id]
	return c, ok
}

// Active returns the active chat, if any.
func (s *Store) Active() (Chat, bool) {
	if s.activeID == "" {
		return Chat{}, false
	}
	return s.Get(s.activeID)
}

// ActiveID returns the id of the active chat, or "" when none is active.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Composing reports whether the compose placeholder is present.
func (s *Store) Composing() bool {
	return s.composing
}

// Len returns the number of chats, the compose placeholder included.
func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) firstID() string {
	if len(s.order) == 0 {
		return ""
	}
	return s.order[0]
}
