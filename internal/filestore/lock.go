package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed process can hold the store.
const DefaultLockTTL = 30 * time.Second

// ErrLocked is returned when another live process holds the store.
var ErrLocked = errors.New("store is locked by another process")

// LockRecord is written to the lock file while a command holds the store.
type LockRecord struct {
	HolderNonce string    `json:"holder_nonce"`
	PID         int       `json:"pid"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsExpired reports whether the lock lease has lapsed.
func (r LockRecord) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Lock is an advisory file lock serializing store mutations across
// processes. The design is single-actor; the lock only guards against a
// second copy of the tool running concurrently.
type Lock struct {
	path  string
	ttl   time.Duration
	nonce string
}

// NewLock creates a lock at path with the given lease duration.
func NewLock(path string, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Lock{path: path, ttl: ttl}
}

// Acquire takes the lock, breaking a stale or unreadable one. It returns
// ErrLocked while another process holds a live lease.
func (l *Lock) Acquire(now time.Time) error {
	record := LockRecord{
		HolderNonce: uuid.NewString(),
		PID:         os.Getpid(),
		AcquiredAt:  now,
		ExpiresAt:   now.Add(l.ttl),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lock: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrExist) {
		existing, readErr := l.read()
		if readErr == nil && !existing.IsExpired(now) {
			return ErrLocked
		}
		if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("breaking stale lock: %w", err)
		}
		f, err = os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	}
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing lock: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing lock: %w", err)
	}
	l.nonce = record.HolderNonce
	return nil
}

// Release removes the lock if this holder still owns it. Releasing a lock
// taken over by another process is a no-op.
func (l *Lock) Release() error {
	existing, err := l.read()
	if err != nil {
		return nil
	}
	if existing.HolderNonce != l.nonce {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

func (l *Lock) read() (*LockRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var record LockRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
