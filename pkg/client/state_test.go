package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestState(t *testing.T) *State {
	t.Helper()

	state, err := OpenState(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { state.Close() })

	return state
}

func TestStateConfigRoundTrip(t *testing.T) {
	state := openTestState(t)

	val, err := state.GetConfig("missing")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	require.NoError(t, state.SetConfig("key", "value"))
	val, err = state.GetConfig("key")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	// Overwrite
	require.NoError(t, state.SetConfig("key", "other"))
	val, err = state.GetConfig("key")
	require.NoError(t, err)
	assert.Equal(t, "other", val)
}

func TestStateLastActiveChat(t *testing.T) {
	state := openTestState(t)

	assert.Equal(t, "", state.GetLastActiveChat())
	require.NoError(t, state.SetLastActiveChat("0123456789abcdef0123456789abcdef01234567"))
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", state.GetLastActiveChat())
}

func TestStateFirstRun(t *testing.T) {
	state := openTestState(t)

	assert.True(t, state.GetFirstRun())
	require.NoError(t, state.SetFirstRunComplete())
	assert.False(t, state.GetFirstRun())
}

func TestStateReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	state, err := OpenState(path)
	require.NoError(t, err)
	require.NoError(t, state.SetLastActiveChat("aaa"))
	require.NoError(t, state.Close())

	state, err = OpenState(path)
	require.NoError(t, err)
	defer state.Close()
	assert.Equal(t, "aaa", state.GetLastActiveChat())
}
