package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/void2byte/voice2text/internal/annotation"
	"github.com/void2byte/voice2text/internal/audio"
	"github.com/void2byte/voice2text/internal/config"
	"github.com/void2byte/voice2text/internal/deliver"
	"github.com/void2byte/voice2text/internal/logging"
	"github.com/void2byte/voice2text/internal/permissions"
	"github.com/void2byte/voice2text/internal/recognizer"
	"github.com/void2byte/voice2text/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	// macOS requires explicit microphone approval before capture works
	if err := permissions.EnsurePermissions(); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize audio capture
	source, err := audio.NewPortAudio()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer source.Close()

	// Build the recognizer. A bad configuration is not fatal: the engine
	// starts without an adapter and a working provider can still be
	// selected from the tray.
	adapter, err := recognizer.New(cfg.Recognizer, log)
	if err != nil {
		log.Error().Err(err).Str("provider", cfg.Recognizer.Provider).Msg("Recognizer unavailable, select another provider from the tray")
		adapter = nil
	}

	engine := annotation.New(annotation.Config{
		Source:     source,
		Adapter:    adapter,
		Recognizer: cfg.Recognizer,
		Audio:      cfg.Audio,
		DumpDir:    cfg.DumpDir,
		Logger:     log,
	})
	defer engine.Close()

	// Finalized annotations land on the clipboard.
	engine.Subscribe(deliver.NewClipboard(log))

	trayUI := tray.New(engine, &cfg, Version, Commit, log)
	engine.Subscribe(trayUI)

	log.Info().Str("version", Version).Str("provider", cfg.Recognizer.Provider).Msg("voice2text starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		engine.Close()
		source.Close()
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
