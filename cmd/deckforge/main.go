// Package main runs the DeckForge API server: a retrieval-augmented
// deck-building assistant backed by a local card catalog and LLM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramonehamilton/deckforge/internal/api"
	"github.com/ramonehamilton/deckforge/internal/api/handlers"
	"github.com/ramonehamilton/deckforge/internal/cardlookup"
	"github.com/ramonehamilton/deckforge/internal/cards/scryfall"
	"github.com/ramonehamilton/deckforge/internal/config"
	"github.com/ramonehamilton/deckforge/internal/deck"
	"github.com/ramonehamilton/deckforge/internal/llm"
	"github.com/ramonehamilton/deckforge/internal/storage"
	"github.com/ramonehamilton/deckforge/internal/synergy"
)

var (
	configPath = flag.String("config", "", "Config file path (default: ~/.deckforge/config.toml)")
	port       = flag.Int("port", 0, "API server port (overrides config)")
	dbPath     = flag.String("db-path", "", "Catalog database path (overrides config)")
	offline    = flag.Bool("offline", false, "Disable Scryfall and LLM access")

	backup            = flag.Bool("backup", false, "Create a catalog backup and exit")
	restore           = flag.String("restore", "", "Restore the catalog from a backup file and exit")
	listBackups       = flag.Bool("list-backups", false, "List catalog backups and exit")
	backupDir         = flag.String("backup-dir", "", "Backup directory (default: backups/ next to the database)")
	backupPasswordEnv = flag.String("backup-password-env", "", "Environment variable holding the backup encryption password")

	refreshInterval = flag.Duration("refresh-interval", 24*time.Hour, "Interval between stale catalog refresh passes (0 disables)")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Catalog database.
	catalogPath, err := cfg.DatabasePath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}

	// Backup commands run against the database file directly, before the
	// connection pool opens.
	if *backup || *restore != "" || *listBackups {
		if err := runBackupCommand(catalogPath); err != nil {
			log.Fatalf("Backup command failed: %v", err)
		}
		return
	}

	dbConfig := storage.DefaultConfig(catalogPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	store := storage.NewService(db)
	log.Printf("[Main] Catalog database: %s", catalogPath)

	// Card lookup: catalog first, Scryfall on misses.
	var scryfallClient cardlookup.ScryfallClient
	if !*offline {
		scryfallClient = scryfall.NewClient()
	}
	staleAfter, err := cfg.GetStaleAfter()
	if err != nil {
		log.Fatalf("Invalid stale_after: %v", err)
	}
	lookup := cardlookup.NewService(store, scryfallClient, staleAfter)

	// Periodic catalog refresh keeps cached cards from going stale.
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	if scryfallClient != nil && *refreshInterval > 0 {
		go refreshLoop(refreshCtx, lookup, *refreshInterval)
	}

	// LLM collaborators.
	var (
		ollamaClient *llm.OllamaClient
		extractor    handlers.ParameterExtractor
		explainer    handlers.Explainer
		advisor      handlers.ReplacementAdvisor
		scorer       deck.SynergyScorer
		checker      handlers.AvailabilityChecker
	)
	if cfg.Ollama.Enabled && !*offline {
		inferenceTimeout, err := cfg.GetInferenceTimeout()
		if err != nil {
			log.Fatalf("Invalid inference_timeout: %v", err)
		}
		ollamaConfig := llm.DefaultOllamaConfig()
		ollamaConfig.BaseURL = cfg.Ollama.BaseURL
		ollamaConfig.Model = cfg.Ollama.Model
		ollamaConfig.InferenceTimeout = inferenceTimeout

		ollamaClient = llm.NewOllamaClient(ollamaConfig)
		extractor = llm.NewParameterExtractor(ollamaClient)
		explainer = llm.NewExplanationGenerator(ollamaClient)
		advisor = llm.NewReplacementAdvisor(ollamaClient)
		scorer = synergy.NewCachingScorer(synergy.NewLLMScorer(ollamaClient), synergy.NewCache())
		checker = ollamaClient
		log.Printf("[Main] LLM backend: %s (%s)", cfg.Ollama.BaseURL, cfg.Ollama.Model)
	} else {
		log.Printf("[Main] LLM disabled, running with explicit parameters only")
	}

	// Deck construction engine.
	planner := deck.NewPlanner(nil)
	if cfg.Deck.WeightsFile != "" {
		weights, err := deck.LoadWeights(cfg.Deck.WeightsFile)
		if err != nil {
			log.Fatalf("Failed to load weights file: %v", err)
		}
		planner.SetWeights(weights)
		log.Printf("[Main] Strategy weights loaded from %s", cfg.Deck.WeightsFile)

		if cfg.Deck.WatchFile {
			watcher, err := deck.WatchWeights(cfg.Deck.WeightsFile, planner)
			if err != nil {
				log.Printf("[Main] Weights file watching unavailable: %v", err)
			} else {
				defer func() { _ = watcher.Close() }()
			}
		}
	}
	assembler := deck.NewAssembler(planner, lookup, scorer)

	// API server.
	serverConfig := &api.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if *port != 0 {
		serverConfig.Port = *port
	}

	server := api.NewServer(serverConfig, &api.Handlers{
		Deck:   handlers.NewDeckHandler(assembler, lookup, extractor, explainer, advisor),
		Card:   handlers.NewCardHandler(lookup, store),
		System: handlers.NewSystemHandler(store, checker),
	})
	server.Start()

	fmt.Printf("DeckForge running at http://%s:%d\n", serverConfig.Host, server.Port())
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("DeckForge stopped.")
}

// runBackupCommand handles the -backup, -restore, and -list-backups
// flags. The encryption password, when needed, comes from the
// environment variable named by -backup-password-env.
func runBackupCommand(catalogPath string) error {
	manager := storage.NewBackupManager(catalogPath)

	password := ""
	if *backupPasswordEnv != "" {
		password = os.Getenv(*backupPasswordEnv)
		if password == "" {
			return fmt.Errorf("environment variable %s is empty", *backupPasswordEnv)
		}
	}

	switch {
	case *listBackups:
		backups, err := manager.ListBackups(*backupDir)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups found.")
			return nil
		}
		for _, b := range backups {
			marker := ""
			if b.Encrypted {
				marker = " (encrypted)"
			}
			fmt.Printf("%s  %d bytes  %s%s\n", b.Name, b.Size, b.ModTime.Format(time.RFC3339), marker)
		}
		return nil

	case *restore != "":
		if err := manager.Restore(*restore, password); err != nil {
			return err
		}
		fmt.Printf("Catalog restored from %s\n", *restore)
		return nil

	default:
		backupConfig := storage.DefaultBackupConfig()
		backupConfig.BackupDir = *backupDir
		backupConfig.Password = password
		path, err := manager.Backup(backupConfig)
		if err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", path)
		return nil
	}
}

// refreshLoop periodically refetches stale catalog entries.
func refreshLoop(ctx context.Context, lookup *cardlookup.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := lookup.RefreshStale(ctx); err != nil {
				log.Printf("[Main] Catalog refresh pass failed: %v", err)
			}
		}
	}
}

// loadConfig loads configuration, applying command-line overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
