package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoChats() []Chat {
	return []Chat{
		{ID: "aaa", Name: "Alice", Messages: []Message{}},
		{ID: "bbb", Name: "Bob", Messages: []Message{}},
	}
}

func TestReplaceAll(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(twoChats(), "bbb")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "bbb", s.ActiveID())

	chats := s.Chats()
	require.Len(t, chats, 2)
	assert.Equal(t, "aaa", chats[0].ID)
	assert.Equal(t, "bbb", chats[1].ID)
}

func TestReplaceAllKeepsActiveWhenNotSupplied(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(twoChats(), "bbb")

	s.ReplaceAll(twoChats(), "")
	assert.Equal(t, "bbb", s.ActiveID())
}

func TestReplaceAllDropsVanishedActive(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(twoChats(), "bbb")

	s.ReplaceAll([]Chat{{ID: "aaa", Name: "Alice"}}, "")
	assert.Equal(t, "aaa", s.ActiveID())

	s.ReplaceAll(nil, "")
	assert.Equal(t, "", s.ActiveID())
}

func TestReplaceAllClearsStaleCompose(t *testing.T) {
	s := NewStore()
	s.BeginCompose()

	// Host snapshot without the placeholder confirms (or supersedes) the
	// composed chat; composing must not survive it.
	s.ReplaceAll(twoChats(), "aaa")
	assert.False(t, s.Composing())
	_, ok := s.Get(ComposeChatID)
	assert.False(t, ok)
}

func TestBeginComposeIdempotent(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(twoChats(), "aaa")

	s.BeginCompose()
	s.BeginCompose()

	assert.True(t, s.Composing())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, ComposeChatID, s.ActiveID())
	assert.Equal(t, ComposeChatID, s.Chats()[0].ID, "placeholder must be first")
}

func TestCancelCompose(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(twoChats(), "bbb")
	s.BeginCompose()

	s.CancelCompose()

	assert.False(t, s.Composing())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "aaa", s.ActiveID(), "first remaining chat becomes active")
}

func TestCancelComposeEmptyRoster(t *testing.T) {
	s := NewStore()
	s.BeginCompose()
	s.CancelCompose()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.ActiveID())
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestActivate(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(twoChats(), "aaa")

	assert.False(t, s.Activate("aaa"), "already active")
	assert.False(t, s.Activate("missing"), "unknown id")
	assert.True(t, s.Activate("bbb"))
	assert.Equal(t, "bbb", s.ActiveID())
}

func TestActivateAwayFromComposeDiscardsIt(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(twoChats(), "aaa")
	s.BeginCompose()

	assert.True(t, s.Activate("bbb"))
	assert.False(t, s.Composing())
	assert.Equal(t, "bbb", s.ActiveID())
	assert.Equal(t, 2, s.Len())
}

func TestRemove(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(twoChats(), "aaa")
	s.BeginCompose()

	s.Remove(ComposeChatID)
	assert.False(t, s.Composing())
	assert.Equal(t, 2, s.Len())

	// Confirmed chats are not deletable yet
	s.Remove("aaa")
	assert.Equal(t, 2, s.Len())
}
