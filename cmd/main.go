package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-modkeeper/internal/audit"
	"go-modkeeper/internal/bot"
	"go-modkeeper/internal/commands"
	"go-modkeeper/internal/config"
	"go-modkeeper/internal/ledger"
	"go-modkeeper/internal/lockdown"
	"go-modkeeper/internal/notifier"
	"go-modkeeper/internal/perms"
	"go-modkeeper/internal/store"
)

func main() {
	// .env is optional; real deployments use the process environment.
	_ = godotenv.Load()

	cfg, err := config.Load("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log.Dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		return err
	}

	journal, err := audit.Open(cfg.Storage.AuditDBPath)
	if err != nil {
		return err
	}
	defer journal.Close()

	session, err := bot.New(cfg.Bot.Token, log)
	if err != nil {
		return err
	}

	notify := notifier.New(session.Discord(), journal, cfg.Channels.ModLogID, cfg.Channels.GeneralID, log)
	led := ledger.New(st, log)

	backend := perms.NewRestBackend(cfg.Bot.Token, 4)
	lockdowns := lockdown.NewManager(st, backend, notify, cfg.Channels.StaffIDs, cfg.Channels.GeneralID, log)
	defer lockdowns.Close()

	if err := session.Open(); err != nil {
		return err
	}
	defer session.Close()

	if _, err := commands.Register(session, led, lockdowns, notify, log); err != nil {
		return err
	}

	// Timed lockdowns persisted before the last shutdown get their
	// auto-restore timers back.
	if err := lockdowns.ResumeTimers(); err != nil {
		log.Warn("could not resume lockdown timers", zap.Error(err))
	}

	log.Info("modkeeper running")
	waitForShutdown(log)
	return nil
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func waitForShutdown(log *zap.Logger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info("shutting down", zap.String("signal", s.String()))
}
