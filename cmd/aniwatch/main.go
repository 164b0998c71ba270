package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/tsukino/aniwatch/internal/adapter"
	"github.com/tsukino/aniwatch/internal/adapter/source/jikan"
	"github.com/tsukino/aniwatch/internal/progress"
	"github.com/tsukino/aniwatch/internal/service"
	"github.com/tsukino/aniwatch/internal/store"
	"github.com/tsukino/aniwatch/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("aniwatch %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env is optional; absence is not an error
	_ = godotenv.Load()

	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting aniwatch", "version", Version)

	st, err := store.New(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer st.Close()

	client := jikan.NewClient(cfg.Catalogue.BaseURL, logger)
	client.SetRetryPolicy(cfg.Catalogue.MaxRetries, cfg.Catalogue.BackoffBase())

	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, cfg.Player.StartFlag, logger)

	tracker := progress.NewTracker(st, logger)
	catalogueSvc := service.NewCatalogueService(client, cfg.Catalogue.StaleAfter(), logger)
	watchlistSvc := service.NewWatchlistService(st, cfg.Profile.Name, logger)
	commentsSvc := service.NewCommentsService(st, logger)

	model := tui.New(catalogueSvc, tracker, watchlistSvc, commentsSvc, launcher, cfg.Profile.Name, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
