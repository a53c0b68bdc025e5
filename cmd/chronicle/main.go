package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/chronicle-tui/internal/api"
	"github.com/nhle/chronicle-tui/internal/app"
	"github.com/nhle/chronicle-tui/internal/credential"
	"github.com/nhle/chronicle-tui/internal/model"
	"github.com/nhle/chronicle-tui/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chronicle: %v\n", err)
		os.Exit(1)
	}

	if os.Getenv("CHRONICLE_DEBUG") != "" {
		f, err := tea.LogToFile("chronicle-debug.log", "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "chronicle: opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	client := api.NewClient(
		cfg.Server.BaseURL,
		loadToken(),
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
	)

	// The snapshot cache is optional; without it the board just waits
	// for the first fetch.
	var cache app.SnapshotCache
	if s, err := store.NewSnapshotStore(cfg.CachePath); err == nil {
		cache = s
		defer s.Close()
	}

	p := tea.NewProgram(app.New(cfg, client, cache), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "chronicle: %v\n", err)
		os.Exit(1)
	}
}

// loadToken resolves the optional API token: the environment variable
// wins, then the system keyring; absence means an unauthenticated server.
func loadToken() string {
	if token := os.Getenv("CHRONICLE_API_TOKEN"); token != "" {
		return token
	}
	token, err := credential.Get(credential.TokenKey)
	if err != nil {
		return ""
	}
	return token
}
