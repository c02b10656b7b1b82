package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rpggio/punchcard/internal/repository"
)

// Slot is a JSON-backed single-record store. A missing or corrupt file reads
// as absent, so a damaged slot behaves like no session rather than an error.
type Slot[T any] struct {
	path string
	mu   sync.Mutex
}

// NewSlot creates a slot store at path.
func NewSlot[T any](path string) *Slot[T] {
	return &Slot[T]{path: path}
}

// Get returns the stored record, or repository.ErrNotFound when the slot is
// absent or cannot be decoded.
func (s *Slot[T]) Get(ctx context.Context) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("reading slot: %w", err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, repository.ErrNotFound
	}
	return &value, nil
}

// Set durably overwrites the slot.
func (s *Slot[T]) Set(ctx context.Context, value *T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding slot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return atomicWrite(s.path, append(data, '\n'))
}

// Clear removes the slot. Clearing an absent slot is not an error.
func (s *Slot[T]) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing slot: %w", err)
	}
	return nil
}
