package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the structure of the client config file
type Config struct {
	Host          HostSection          `toml:"host"`
	Notifications NotificationsSection `toml:"notifications"`
}

type HostSection struct {
	// Address is the websocket URL of the host process gateway
	Address   string `toml:"address"`
	StatePath string `toml:"state_path"`
	LogPath   string `toml:"log_path"`
}

type NotificationsSection struct {
	// Desktop notifications for messages arriving in background chats
	Desktop bool `toml:"desktop"`
}

// DefaultConfig returns the default client configuration
func DefaultConfig() Config {
	return Config{
		Host: HostSection{
			Address:   "ws://127.0.0.1:6470/gateway",
			StatePath: "~/.local/share/ciphora/state.db",
			LogPath:   "~/.local/share/ciphora/client.log",
		},
		Notifications: NotificationsSection{
			Desktop: true,
		},
	}
}

// LoadConfig loads configuration from a TOML file, creates a default file if
// not found, and applies environment variable overrides
func LoadConfig(path string) (Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return Config{}, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, create default config
		config := DefaultConfig()
		if err := writeDefaultConfig(path, config); err != nil {
			// If we can't write, just return defaults without error
			// (might be a permissions issue, but we can still run)
			return applyEnvOverrides(config), nil
		}
		return applyEnvOverrides(config), nil
	}

	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return applyEnvOverrides(config), nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Variables follow the pattern CIPHORA_SECTION_KEY, e.g. CIPHORA_HOST_ADDRESS.
func applyEnvOverrides(config Config) Config {
	if val := os.Getenv("CIPHORA_HOST_ADDRESS"); val != "" {
		config.Host.Address = val
	}
	if val := os.Getenv("CIPHORA_HOST_STATE_PATH"); val != "" {
		config.Host.StatePath = val
	}
	if val := os.Getenv("CIPHORA_HOST_LOG_PATH"); val != "" {
		config.Host.LogPath = val
	}
	if val := os.Getenv("CIPHORA_NOTIFICATIONS_DESKTOP"); val != "" {
		config.Notifications.Desktop = val == "true" || val == "1"
	}
	return config
}

func writeDefaultConfig(path string, config Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(config)
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}
