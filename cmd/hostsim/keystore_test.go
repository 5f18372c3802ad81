package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityStoreRoundTrip(t *testing.T) {
	store := newIdentityStore(t.TempDir())

	id := storedIdentity{
		PublicKeyArmored:  "PUB",
		PrivateKeyArmored: "PRIV",
	}
	require.NoError(t, store.Save(id, "correct horse"))
	assert.True(t, store.Exists())

	loaded, err := store.Load("correct horse")
	require.NoError(t, err)
	assert.Equal(t, id, loaded)
}

func TestIdentityStoreWrongPassphrase(t *testing.T) {
	store := newIdentityStore(t.TempDir())
	require.NoError(t, store.Save(storedIdentity{PublicKeyArmored: "PUB"}, "right"))

	_, err := store.Load("wrong")
	assert.ErrorIs(t, err, ErrBadPassphrase)
}

func TestIdentityStoreMissing(t *testing.T) {
	store := newIdentityStore(t.TempDir())

	assert.False(t, store.Exists())
	_, err := store.Load("anything")
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestIdentityStoreDelete(t *testing.T) {
	store := newIdentityStore(t.TempDir())
	require.NoError(t, store.Save(storedIdentity{PublicKeyArmored: "PUB"}, "pw"))

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())

	// Deleting again is fine
	require.NoError(t, store.Delete())
}
