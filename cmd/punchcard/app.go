package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/punchcard/internal/config"
	"github.com/rpggio/punchcard/internal/domain/entry"
	"github.com/rpggio/punchcard/internal/domain/tracking"
	"github.com/rpggio/punchcard/internal/filestore"
	"github.com/rpggio/punchcard/internal/sqlite"
)

// app wires configuration, logging and the storage backend for one command
// invocation.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	tracking *tracking.Service
	ledger   *entry.Service
	lock     *filestore.Lock // nil for the sqlite backend
	closeFn  func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	a := &app{cfg: cfg, logger: logger, closeFn: func() error { return nil }}

	opts := []tracking.Option{
		tracking.WithIdleThreshold(cfg.Idle.ThresholdMinutes),
		tracking.WithBusinessHours(tracking.BusinessHours{
			StartHour: cfg.Idle.BusinessStartHour,
			EndHour:   cfg.Idle.BusinessEndHour,
		}),
	}

	switch cfg.Storage.Backend {
	case "file", "":
		store, err := filestore.Open(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		a.lock = store.Lock
		a.ledger = entry.NewService(store.Entries, logger)
		a.tracking = tracking.NewService(store.Sessions, store.Idle, store.Entries, logger, opts...)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		db, err := sqlite.New(cfg.Storage.DBPath)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		a.closeFn = db.Close
		entries := sqlite.NewEntryRepository(db)
		a.ledger = entry.NewService(entries, logger)
		a.tracking = tracking.NewService(sqlite.NewSessionRepository(db), sqlite.NewIdleRepository(db), entries, logger, opts...)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return a, nil
}

// withLock runs fn while holding the advisory store lock. The sqlite backend
// serializes through the database and takes no file lock.
func (a *app) withLock(fn func() error) error {
	if a.lock == nil {
		return fn()
	}
	if err := a.lock.Acquire(time.Now()); err != nil {
		return err
	}
	defer a.lock.Release()
	return fn()
}

func (a *app) Close() error {
	return a.closeFn()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
