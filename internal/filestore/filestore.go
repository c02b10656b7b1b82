// Package filestore provides the default file-backed stores: a CSV entry
// ledger, JSON single-slot records for the active and idle-pending sessions,
// and an advisory lock file for multi-process callers.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpggio/punchcard/internal/domain/tracking"
)

const (
	ledgerFile = "time-entries.csv"
	activeFile = "active-tracking.json"
	idleFile   = "idle-state.json"
	lockFile   = ".punchcard.lock"
)

// Store bundles the file-backed repositories rooted at one data directory.
type Store struct {
	Entries  *Ledger
	Sessions *Slot[tracking.ActiveSession]
	Idle     *Slot[tracking.IdleState]
	Lock     *Lock
}

// Open prepares the data directory and its stores. The ledger file is seeded
// with its header row on first use.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	ledger, err := NewLedger(filepath.Join(dir, ledgerFile))
	if err != nil {
		return nil, err
	}
	return &Store{
		Entries:  ledger,
		Sessions: NewSlot[tracking.ActiveSession](filepath.Join(dir, activeFile)),
		Idle:     NewSlot[tracking.IdleState](filepath.Join(dir, idleFile)),
		Lock:     NewLock(filepath.Join(dir, lockFile), DefaultLockTTL),
	}, nil
}

// atomicWrite replaces path with data via a temp file in the same directory,
// so readers never observe a partially written file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
