// Command ciphora is the terminal client for the Ciphora encrypted chat host.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aeolun/ciphora/pkg/client"
	"github.com/aeolun/ciphora/pkg/client/ui"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	configPath := flag.String("config", "~/.config/ciphora/config.toml", "Path to config file")
	hostAddr := flag.String("host", "", "Host gateway URL (overrides config)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ciphora %s\n", Version)
		os.Exit(0)
	}

	config, err := client.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *hostAddr != "" {
		config.Host.Address = *hostAddr
	}

	logger, logFile := setupLogger(config.Host.LogPath)
	if logFile != nil {
		defer logFile.Close()
	}

	statePath, err := client.ExpandPath(config.Host.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve state path: %v\n", err)
		os.Exit(1)
	}
	state, err := client.OpenState(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open state database: %v\n", err)
		os.Exit(1)
	}
	defer state.Close()

	host := client.NewHost(config.Host.Address, logger)
	if err := host.Connect(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to host at %s: %v\n", config.Host.Address, err)
		fmt.Fprintf(os.Stderr, "Is the host process running?\n")
		os.Exit(1)
	}
	defer host.Close()

	model := ui.NewModel(host, state, Version, config.Notifications.Desktop, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running client: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger opens the client log file. Logging degrades to discard when the
// file cannot be opened; a chat client should not die over a log path.
func setupLogger(logPath string) (*log.Logger, *os.File) {
	path, err := client.ExpandPath(logPath)
	if err != nil {
		return log.New(os.Stderr, "", log.LstdFlags), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return log.New(os.Stderr, "", log.LstdFlags), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return log.New(os.Stderr, "", log.LstdFlags), nil
	}
	return log.New(f, "", log.LstdFlags), f
}
