package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/catalog"
	"github.com/lawnchairsociety/idlerpg/internal/config"
	"github.com/lawnchairsociety/idlerpg/internal/database"
	"github.com/lawnchairsociety/idlerpg/internal/engine"
	"github.com/lawnchairsociety/idlerpg/internal/gametime"
	"github.com/lawnchairsociety/idlerpg/internal/logger"
	"github.com/lawnchairsociety/idlerpg/internal/save"
	"github.com/lawnchairsociety/idlerpg/internal/scheduler"
	"github.com/lawnchairsociety/idlerpg/internal/server"
	"github.com/lawnchairsociety/idlerpg/internal/tui"
)

func main() {
	configFile := flag.String("config", "data/game.yaml", "Path to game config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	catalogDir := flag.String("catalog", "", "Directory of catalog YAML overrides (default: from config)")
	slot := flag.String("slot", "", "Save slot to play (default: from config)")
	terminal := flag.Bool("tui", false, "Play in the terminal instead of serving websocket clients")
	fresh := flag.Bool("new", false, "Ignore the stored save and start a new game")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if *terminal {
		// The terminal belongs to the game screen.
		logConfig.ConsoleEnabled = false
		logConfig.FileEnabled = logConfig.FilePath != ""
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *catalogDir != "" {
		cfg.Data.CatalogDir = *catalogDir
	}
	if *slot != "" {
		cfg.Save.Slot = *slot
	}

	logger.Info("Starting Idle RPG", "driver", cfg.Database.Driver, "slot", cfg.Save.Slot)

	cat, err := catalog.LoadDir(cfg.Data.CatalogDir)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	gateway := save.NewGateway(db, cfg.Save.Slot)
	clock := gametime.RealClock{}
	eng := engine.New(engine.Options{
		Catalog: cat,
		Clock:   clock,
		Timing: &engine.Timing{
			CounterAttackDelay: cfg.Combat.CounterAttackDelay,
			RespawnDelay:       cfg.Combat.RespawnDelay,
			RaidRespawnDelay:   cfg.Combat.RaidRespawnDelay,
		},
	})

	if !*fresh {
		restore(eng, gateway)
	}

	sched := scheduler.New(eng, clock, scheduler.Config{
		Tick:       cfg.Scheduler.Tick,
		AutoAttack: cfg.Scheduler.AutoAttack,
		Regen:      cfg.Scheduler.Regen,
		ResetCheck: cfg.Scheduler.ResetCheck,
		PlayTime:   cfg.Scheduler.PlayTime,
		Autosave:   cfg.Save.Autosave,
	}, gateway)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run(ctx) }()

	if *terminal {
		if err := tui.Run(eng, sched); err != nil {
			logger.Error("Terminal client failed", "error", err)
		}
	} else {
		serve(ctx, cfg.Server, eng, gateway)
	}
	stop()

	if err := <-schedDone; err != nil {
		logger.Error("Game was not saved on exit", "error", err)
		db.Close()
		os.Exit(1)
	}
	logger.Info("Idle RPG stopped")
}

// restore loads the stored game into eng. A missing or unreadable save
// leaves the new game in place.
func restore(eng *engine.Engine, gateway *save.Gateway) {
	snap, err := gateway.Load()
	switch {
	case errors.Is(err, save.ErrNoSaveData):
		logger.Info("No saved game, starting fresh", "slot", gateway.Slot())
	case err != nil:
		logger.Warning("Failed to load saved game, starting fresh", "slot", gateway.Slot(), "error", err)
	default:
		eng.Restore(snap)
	}
}

// serve runs the websocket bridge until ctx is cancelled.
func serve(ctx context.Context, cfg config.ServerConfig, eng *engine.Engine, gateway *save.Gateway) {
	if len(cfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(cfg.WebSocket.AllowedOrigins) == 1 && cfg.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.WebSocket.AllowedOrigins)
	}

	srv := server.New(cfg, eng, gateway)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Info("Press Ctrl+C to shutdown")
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("WebSocket server error", "error", err)
		}
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warning("Server shutdown incomplete", "error", err)
	}
}
