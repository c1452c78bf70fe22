package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/voxarena/voxarena/internal/avatar"
	"github.com/voxarena/voxarena/internal/config"
	"github.com/voxarena/voxarena/internal/debate"
	"github.com/voxarena/voxarena/internal/persona"
	"github.com/voxarena/voxarena/internal/seed"
	"github.com/voxarena/voxarena/internal/storage"
	"github.com/voxarena/voxarena/internal/taxonomy"
	"github.com/voxarena/voxarena/web/handlers"
)

func main() {
	port := flag.Int("port", 0, "Server port (default: from config)")
	dbPath := flag.String("db", "", "Database path (default: ~/.voxarena/voxarena.db)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	noSeed := flag.Bool("no-seed", false, "Skip seeding the built-in taxonomy")
	flag.Parse()

	// Initialize slog
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if *debug {
		opts.Level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	slog.Info("Initializing storage", "path", cfg.Database.Path)
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	if !*noSeed {
		if err := seed.Run(store); err != nil {
			slog.Warn("Taxonomy seeding failed", "error", err)
		}
	}

	// Avatar pipeline is optional and only active with an API key
	var generator avatar.Generator
	var avatarStore avatar.Store
	if cfg.Avatar.Enabled && cfg.Avatar.APIKey != "" {
		gen := avatar.NewOpenAIGenerator(cfg.Avatar.APIKey, cfg.Avatar.Model, cfg.Avatar.Size)
		fileStore, err := avatar.NewFileStore(cfg.Avatar.Dir)
		if err != nil {
			slog.Warn("Failed to initialize avatar store", "error", err)
		} else {
			generator = gen
			avatarStore = fileStore
			slog.Info("Avatar generation enabled", "model", gen.Model, "dir", cfg.Avatar.Dir)
		}
	}

	debates := debate.NewServiceWithDefaults(store, cfg.Defaults.Format, cfg.Defaults.Status)
	personas := persona.NewService(store, generator, avatarStore)
	tax := taxonomy.NewService(store)

	h := handlers.New(debates, personas, tax, cfg.Avatar.Dir)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}

	// Handle shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("Shutting down...")
		server.Close()
	}()

	slog.Info("Starting voxarena server", "url", fmt.Sprintf("http://localhost%s", addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
