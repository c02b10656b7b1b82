package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/punchcard/internal/domain/entry"
	"github.com/rpggio/punchcard/internal/domain/tracking"
)

// EntryRepository is a mock for repository.EntryRepository.
type EntryRepository struct {
	mock.Mock
}

func (m *EntryRepository) Append(ctx context.Context, e entry.TimeEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EntryRepository) All(ctx context.Context) ([]entry.TimeEntry, error) {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]entry.TimeEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) ReplaceAll(ctx context.Context, entries []entry.TimeEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

// SessionRepository is a mock for the active-session slot.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Get(ctx context.Context) (*tracking.ActiveSession, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*tracking.ActiveSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Set(ctx context.Context, s *tracking.ActiveSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// IdleRepository is a mock for the idle-pending slot.
type IdleRepository struct {
	mock.Mock
}

func (m *IdleRepository) Get(ctx context.Context) (*tracking.IdleState, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*tracking.IdleState); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdleRepository) Set(ctx context.Context, s *tracking.IdleState) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *IdleRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
