package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/punchcard/internal/domain/entry"
	"github.com/rpggio/punchcard/internal/repository"
)

// Service orchestrates the active-session and idle-pending slots against the
// entry ledger. At most one of the two slots is populated at any time.
type Service struct {
	sessions      SessionRepository
	idle          IdleRepository
	ledger        Ledger
	idleThreshold int
	hours         BusinessHours
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIdleThreshold overrides the idle minutes that trigger an automatic pause.
func WithIdleThreshold(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.idleThreshold = minutes
		}
	}
}

// WithBusinessHours overrides the weekday window for idle detection.
func WithBusinessHours(hours BusinessHours) Option {
	return func(s *Service) {
		if hours.StartHour >= 0 && hours.EndHour > hours.StartHour {
			s.hours = hours
		}
	}
}

// NewService creates a new tracking service.
func NewService(sessions SessionRepository, idle IdleRepository, ledger Ledger, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		sessions:      sessions,
		idle:          idle,
		ledger:        ledger,
		idleThreshold: DefaultIdleThresholdMinutes,
		hours:         BusinessHours{StartHour: 9, EndHour: 18},
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Active returns the running session, or nil when nothing is tracked.
func (s *Service) Active(ctx context.Context) (*ActiveSession, error) {
	active, err := s.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading active session: %w", err)
	}
	// Older records predate activity tracking.
	if active.LastActivityTime.IsZero() {
		active.LastActivityTime = active.StartTime
	}
	return active, nil
}

// Idle returns the pending idle state, or nil when none is pending.
func (s *Service) Idle(ctx context.Context) (*IdleState, error) {
	state, err := s.idle.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading idle state: %w", err)
	}
	return state, nil
}

// Start begins tracking for client at now. A running session is finalized
// into the ledger first; the result reports which client was displaced. A
// pending idle confirmation must be resolved before a new session starts.
func (s *Service) Start(ctx context.Context, client string, now time.Time) (*StartResult, error) {
	if client == "" {
		return nil, ErrInvalidClient
	}
	pending, err := s.Idle(ctx)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrIdlePending
	}

	active, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}

	result := &StartResult{Client: client, StartTime: now}
	if active != nil {
		if _, err := s.finalize(ctx, active, now); err != nil {
			return nil, err
		}
		result.PreviousClient = active.Client
	}

	next := &ActiveSession{Client: client, StartTime: now, LastActivityTime: now}
	if err := s.sessions.Set(ctx, next); err != nil {
		return nil, fmt.Errorf("saving active session: %w", err)
	}
	s.logger.Info("tracking started", "client", client, "switched_from", result.PreviousClient)
	return result, nil
}

// Stop finalizes the active session at now. It returns nil when nothing is
// being tracked.
func (s *Service) Stop(ctx context.Context, now time.Time) (*entry.TimeEntry, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}
	return s.finalize(ctx, active, now)
}

// StopAt finalizes the active session at an explicit end time, used by the
// long-session resolutions. The end time must fall after the session start.
func (s *Service) StopAt(ctx context.Context, end time.Time) (*entry.TimeEntry, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}
	if !end.After(active.StartTime) {
		return nil, ErrInvalidEndTime
	}
	return s.finalize(ctx, active, end)
}

// StopCappedAtHour finalizes the active session at exactly one hour after
// its start, the first long-session resolution.
func (s *Service) StopCappedAtHour(ctx context.Context) (*entry.TimeEntry, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}
	return s.finalize(ctx, active, active.StartTime.Add(time.Hour))
}

// Discard abandons the active session without recording an entry.
func (s *Service) Discard(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clearing active session: %w", err)
	}
	s.logger.Info("tracking discarded")
	return nil
}

// UpdateActivity refreshes the last-activity timestamp of the running
// session. It is a no-op when nothing is tracked.
func (s *Service) UpdateActivity(ctx context.Context, now time.Time) error {
	active, err := s.Active(ctx)
	if err != nil || active == nil {
		return err
	}
	active.LastActivityTime = now
	if err := s.sessions.Set(ctx, active); err != nil {
		return fmt.Errorf("saving active session: %w", err)
	}
	return nil
}

// IdleMinutes returns whole minutes since the last confirmed activity, or 0
// when nothing is tracked.
func (s *Service) IdleMinutes(ctx context.Context, now time.Time) (int, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return 0, err
	}
	if active == nil {
		return 0, nil
	}
	idle := now.Sub(active.LastActivityTime)
	if idle < 0 {
		return 0, nil
	}
	return int(idle / time.Minute), nil
}

// IsBusinessHours reports whether now falls on a weekday inside the
// configured local window.
func (s *Service) IsBusinessHours(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	hour := now.Hour()
	return hour >= s.hours.StartHour && hour < s.hours.EndHour
}

// PauseForIdle moves the running session into the idle-pending slot.
func (s *Service) PauseForIdle(ctx context.Context, now time.Time) (*IdleState, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActiveSession
	}
	pending, err := s.Idle(ctx)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrIdlePending
	}

	state := &IdleState{
		PauseTime:         now,
		Client:            active.Client,
		OriginalStartTime: active.StartTime,
		LastActivityTime:  active.LastActivityTime,
	}
	if err := s.idle.Set(ctx, state); err != nil {
		return nil, fmt.Errorf("saving idle state: %w", err)
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing active session: %w", err)
	}
	s.logger.Info("tracking paused for idle", "client", state.Client)
	return state, nil
}

// ResumeFromIdle confirms the user worked through the idle gap. It records
// two entries, [originalStart, pause] and [pause, now], each rounded
// independently, then reopens tracking for the same client from now.
func (s *Service) ResumeFromIdle(ctx context.Context, state *IdleState, now time.Time) error {
	if _, err := s.record(ctx, state.Client, state.OriginalStartTime, state.PauseTime); err != nil {
		return err
	}
	if _, err := s.record(ctx, state.Client, state.PauseTime, now); err != nil {
		return err
	}

	next := &ActiveSession{Client: state.Client, StartTime: now, LastActivityTime: now}
	if err := s.sessions.Set(ctx, next); err != nil {
		return fmt.Errorf("saving active session: %w", err)
	}
	if err := s.idle.Clear(ctx); err != nil {
		return fmt.Errorf("clearing idle state: %w", err)
	}
	s.logger.Info("tracking resumed after idle", "client", state.Client)
	return nil
}

// StopFromIdle declines the idle gap: only the confirmed interval
// [originalStart, pause] is recorded, the gap is dropped, and tracking
// stays stopped.
func (s *Service) StopFromIdle(ctx context.Context, state *IdleState) (*entry.TimeEntry, error) {
	e, err := s.record(ctx, state.Client, state.OriginalStartTime, state.PauseTime)
	if err != nil {
		return nil, err
	}
	if err := s.idle.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing idle state: %w", err)
	}
	s.logger.Info("tracking stopped from idle", "client", state.Client, "minutes", e.DurationMinutes)
	return e, nil
}

// CheckIdle runs the periodic idle check: an active session idle for longer
// than the threshold during business hours is paused pending confirmation.
// The short-circuit order is part of the contract: no session, then outside
// business hours, then already pending, then still active.
func (s *Service) CheckIdle(ctx context.Context, now time.Time) (*CheckIdleResult, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return &CheckIdleResult{Status: IdleCheckNoSession}, nil
	}
	if !s.IsBusinessHours(now) {
		return &CheckIdleResult{Status: IdleCheckOutsideHours}, nil
	}
	pending, err := s.Idle(ctx)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return &CheckIdleResult{Status: IdleCheckAlreadyPending, State: pending}, nil
	}

	idleMinutes, err := s.IdleMinutes(ctx, now)
	if err != nil {
		return nil, err
	}
	if idleMinutes <= s.idleThreshold {
		return &CheckIdleResult{Status: IdleCheckActive, IdleMinutes: idleMinutes}, nil
	}

	state, err := s.PauseForIdle(ctx, now)
	if err != nil {
		return nil, err
	}
	return &CheckIdleResult{Status: IdleCheckPaused, IdleMinutes: idleMinutes, State: state}, nil
}

// finalize records the session interval and clears the active slot.
func (s *Service) finalize(ctx context.Context, active *ActiveSession, end time.Time) (*entry.TimeEntry, error) {
	e, err := s.record(ctx, active.Client, active.StartTime, end)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing active session: %w", err)
	}
	s.logger.Info("tracking stopped", "client", e.Client, "minutes", e.DurationMinutes)
	return e, nil
}

// record rounds and appends one finalized interval.
func (s *Service) record(ctx context.Context, client string, start, end time.Time) (*entry.TimeEntry, error) {
	e := entry.TimeEntry{
		Client:          client,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: entry.RoundBillable(entry.RawMinutes(start, end)),
	}
	if err := s.ledger.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("appending entry: %w", err)
	}
	return &e, nil
}
