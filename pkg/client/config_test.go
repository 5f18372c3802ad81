package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Host.Address, config.Host.Address)
	assert.True(t, config.Notifications.Desktop)

	// Default file should have been written
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[host]
address = "ws://example.org:9999/gateway"
state_path = "/tmp/ciphora/state.db"
log_path = "/tmp/ciphora/client.log"

[notifications]
desktop = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://example.org:9999/gateway", config.Host.Address)
	assert.Equal(t, "/tmp/ciphora/state.db", config.Host.StatePath)
	assert.False(t, config.Notifications.Desktop)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CIPHORA_HOST_ADDRESS", "ws://override:1234/gateway")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://override:1234/gateway", config.Host.Address)
}

func TestLoadConfigRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
