package tracking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/punchcard/internal/domain/entry"
	"github.com/rpggio/punchcard/internal/domain/tracking"
	"github.com/rpggio/punchcard/internal/repository"
	"github.com/rpggio/punchcard/internal/repository/mocks"
)

func newTestService(sessions *mocks.SessionRepository, idle *mocks.IdleRepository, ledger *mocks.EntryRepository, opts ...tracking.Option) *tracking.Service {
	return tracking.NewService(sessions, idle, ledger, nil, opts...)
}

func noSession(m *mocks.SessionRepository, ctx context.Context) {
	m.On("Get", ctx).Return(nil, repository.ErrNotFound)
}

func noIdle(m *mocks.IdleRepository, ctx context.Context) {
	m.On("Get", ctx).Return(nil, repository.ErrNotFound)
}

func TestStart_NewSession(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	ledger := &mocks.EntryRepository{}
	noIdle(idle, ctx)
	noSession(sessions, ctx)
	sessions.On("Set", ctx, &tracking.ActiveSession{
		Client: "acme", StartTime: now, LastActivityTime: now,
	}).Return(nil)

	svc := newTestService(sessions, idle, ledger)
	result, err := svc.Start(ctx, "acme", now)
	require.NoError(t, err)
	require.Equal(t, "acme", result.Client)
	require.False(t, result.Switched())
	ledger.AssertNotCalled(t, "Append")
	sessions.AssertExpectations(t)
}

func TestStart_SwitchFinalizesRunningSession(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := start.Add(46 * time.Minute)

	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	ledger := &mocks.EntryRepository{}
	noIdle(idle, ctx)
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)
	ledger.On("Append", ctx, entry.TimeEntry{
		Client: "acme", StartTime: start, EndTime: now, DurationMinutes: 60,
	}).Return(nil)
	sessions.On("Clear", ctx).Return(nil)
	sessions.On("Set", ctx, &tracking.ActiveSession{
		Client: "globex", StartTime: now, LastActivityTime: now,
	}).Return(nil)

	svc := newTestService(sessions, idle, ledger)
	result, err := svc.Start(ctx, "globex", now)
	require.NoError(t, err)
	require.True(t, result.Switched())
	require.Equal(t, "acme", result.PreviousClient)
	ledger.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestStart_BlockedWhileIdlePending(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	ledger := &mocks.EntryRepository{}
	idle.On("Get", ctx).Return(&tracking.IdleState{Client: "acme", PauseTime: now}, nil)

	svc := newTestService(sessions, idle, ledger)
	_, err := svc.Start(ctx, "globex", now)
	require.ErrorIs(t, err, tracking.ErrIdlePending)
	sessions.AssertNotCalled(t, "Set")
}

func TestStart_EmptyClient(t *testing.T) {
	svc := newTestService(&mocks.SessionRepository{}, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	_, err := svc.Start(context.Background(), "", time.Now())
	require.ErrorIs(t, err, tracking.ErrInvalidClient)
}

func TestStop_NoSession(t *testing.T) {
	ctx := context.Background()
	sessions := &mocks.SessionRepository{}
	noSession(sessions, ctx)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	e, err := svc.Stop(ctx, time.Now())
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestStop_RecordsRoundedEntry(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := start.Add(7 * time.Minute)

	sessions := &mocks.SessionRepository{}
	ledger := &mocks.EntryRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)
	ledger.On("Append", ctx, entry.TimeEntry{
		Client: "acme", StartTime: start, EndTime: now, DurationMinutes: 15,
	}).Return(nil)
	sessions.On("Clear", ctx).Return(nil)

	svc := newTestService(sessions, &mocks.IdleRepository{}, ledger)
	e, err := svc.Stop(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 15, e.DurationMinutes)
	ledger.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestStopAt_RejectsEndBeforeStart(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := &mocks.SessionRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	_, err := svc.StopAt(ctx, start.Add(-time.Minute))
	require.ErrorIs(t, err, tracking.ErrInvalidEndTime)
	_, err = svc.StopAt(ctx, start)
	require.ErrorIs(t, err, tracking.ErrInvalidEndTime)
}

func TestStopCappedAtHour(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	sessions := &mocks.SessionRepository{}
	ledger := &mocks.EntryRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)
	ledger.On("Append", ctx, entry.TimeEntry{
		Client: "acme", StartTime: start, EndTime: start.Add(time.Hour), DurationMinutes: 60,
	}).Return(nil)
	sessions.On("Clear", ctx).Return(nil)

	svc := newTestService(sessions, &mocks.IdleRepository{}, ledger)
	e, err := svc.StopCappedAtHour(ctx)
	require.NoError(t, err)
	require.Equal(t, 60, e.DurationMinutes)
	require.Equal(t, start.Add(time.Hour), e.EndTime)
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	sessions := &mocks.SessionRepository{}
	ledger := &mocks.EntryRepository{}
	sessions.On("Clear", ctx).Return(nil)

	svc := newTestService(sessions, &mocks.IdleRepository{}, ledger)
	require.NoError(t, svc.Discard(ctx))
	ledger.AssertNotCalled(t, "Append")
}

func TestActive_BackfillsLastActivity(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := &mocks.SessionRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{Client: "acme", StartTime: start}, nil)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, start, active.LastActivityTime)
}

func TestUpdateActivity(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Minute)

	sessions := &mocks.SessionRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)
	sessions.On("Set", ctx, &tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: now,
	}).Return(nil)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	require.NoError(t, svc.UpdateActivity(ctx, now))
	sessions.AssertExpectations(t)
}

func TestUpdateActivity_NoSession(t *testing.T) {
	ctx := context.Background()
	sessions := &mocks.SessionRepository{}
	noSession(sessions, ctx)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	require.NoError(t, svc.UpdateActivity(ctx, time.Now()))
	sessions.AssertNotCalled(t, "Set")
}

func TestIdleMinutes(t *testing.T) {
	ctx := context.Background()
	last := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := &mocks.SessionRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: last, LastActivityTime: last,
	}, nil)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})

	// Partial minutes floor.
	minutes, err := svc.IdleMinutes(ctx, last.Add(90*time.Second))
	require.NoError(t, err)
	require.Equal(t, 1, minutes)

	// Clock skew reads as zero idle.
	minutes, err = svc.IdleMinutes(ctx, last.Add(-time.Minute))
	require.NoError(t, err)
	require.Zero(t, minutes)
}

func TestIsBusinessHours(t *testing.T) {
	svc := newTestService(&mocks.SessionRepository{}, &mocks.IdleRepository{}, &mocks.EntryRepository{})

	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	require.False(t, svc.IsBusinessHours(monday.Add(8*time.Hour+59*time.Minute)))
	require.True(t, svc.IsBusinessHours(monday.Add(9*time.Hour)))
	require.True(t, svc.IsBusinessHours(monday.Add(17*time.Hour+59*time.Minute)))
	require.False(t, svc.IsBusinessHours(monday.Add(18*time.Hour)))

	saturday := monday.AddDate(0, 0, 5)
	require.False(t, svc.IsBusinessHours(saturday.Add(10*time.Hour)))
}

func TestIsBusinessHours_CustomWindow(t *testing.T) {
	svc := newTestService(&mocks.SessionRepository{}, &mocks.IdleRepository{}, &mocks.EntryRepository{},
		tracking.WithBusinessHours(tracking.BusinessHours{StartHour: 7, EndHour: 22}))

	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	require.True(t, svc.IsBusinessHours(monday.Add(7*time.Hour)))
	require.True(t, svc.IsBusinessHours(monday.Add(21*time.Hour)))
	require.False(t, svc.IsBusinessHours(monday.Add(22*time.Hour)))
}

func TestPauseForIdle(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	last := start.Add(30 * time.Minute)
	now := last.Add(90 * time.Minute)

	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: last,
	}, nil)
	noIdle(idle, ctx)
	idle.On("Set", ctx, &tracking.IdleState{
		PauseTime: now, Client: "acme", OriginalStartTime: start, LastActivityTime: last,
	}).Return(nil)
	sessions.On("Clear", ctx).Return(nil)

	svc := newTestService(sessions, idle, &mocks.EntryRepository{})
	state, err := svc.PauseForIdle(ctx, now)
	require.NoError(t, err)
	require.Equal(t, "acme", state.Client)
	idle.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestPauseForIdle_NoSession(t *testing.T) {
	ctx := context.Background()
	sessions := &mocks.SessionRepository{}
	noSession(sessions, ctx)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	_, err := svc.PauseForIdle(ctx, time.Now())
	require.ErrorIs(t, err, tracking.ErrNoActiveSession)
}

func TestResumeFromIdle_SplitsIntoTwoEntries(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	pause := time.Date(2025, 3, 10, 11, 5, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 11, 10, 0, 0, time.UTC)

	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	ledger := &mocks.EntryRepository{}

	// 125 raw minutes round up to 135; the 5-minute tail bills as-is.
	ledger.On("Append", ctx, entry.TimeEntry{
		Client: "acme", StartTime: start, EndTime: pause, DurationMinutes: 135,
	}).Return(nil)
	ledger.On("Append", ctx, entry.TimeEntry{
		Client: "acme", StartTime: pause, EndTime: now, DurationMinutes: 5,
	}).Return(nil)
	sessions.On("Set", ctx, &tracking.ActiveSession{
		Client: "acme", StartTime: now, LastActivityTime: now,
	}).Return(nil)
	idle.On("Clear", ctx).Return(nil)

	svc := newTestService(sessions, idle, ledger)
	state := &tracking.IdleState{PauseTime: pause, Client: "acme", OriginalStartTime: start}
	require.NoError(t, svc.ResumeFromIdle(ctx, state, now))
	ledger.AssertExpectations(t)
	sessions.AssertExpectations(t)
	idle.AssertExpectations(t)
}

func TestStopFromIdle_DropsTheGap(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	pause := start.Add(50 * time.Minute)

	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	ledger := &mocks.EntryRepository{}
	ledger.On("Append", ctx, entry.TimeEntry{
		Client: "acme", StartTime: start, EndTime: pause, DurationMinutes: 60,
	}).Return(nil)
	idle.On("Clear", ctx).Return(nil)

	svc := newTestService(sessions, idle, ledger)
	state := &tracking.IdleState{PauseTime: pause, Client: "acme", OriginalStartTime: start}
	e, err := svc.StopFromIdle(ctx, state)
	require.NoError(t, err)
	require.Equal(t, 60, e.DurationMinutes)
	sessions.AssertNotCalled(t, "Set")
	ledger.AssertExpectations(t)
}

func TestCheckIdle_NoSession(t *testing.T) {
	ctx := context.Background()
	sessions := &mocks.SessionRepository{}
	noSession(sessions, ctx)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	result, err := svc.CheckIdle(ctx, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, tracking.IdleCheckNoSession, result.Status)
}

func TestCheckIdle_OutsideBusinessHours(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := &mocks.SessionRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)

	svc := newTestService(sessions, &mocks.IdleRepository{}, &mocks.EntryRepository{})
	// Even a long-idle session is left alone overnight.
	result, err := svc.CheckIdle(ctx, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, tracking.IdleCheckOutsideHours, result.Status)
}

func TestCheckIdle_AlreadyPending(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)
	idle.On("Get", ctx).Return(&tracking.IdleState{Client: "acme", PauseTime: start}, nil)

	svc := newTestService(sessions, idle, &mocks.EntryRepository{})
	result, err := svc.CheckIdle(ctx, start.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, tracking.IdleCheckAlreadyPending, result.Status)
	require.NotNil(t, result.State)
}

func TestCheckIdle_ActiveUnderThreshold(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)
	noIdle(idle, ctx)

	svc := newTestService(sessions, idle, &mocks.EntryRepository{})
	// Exactly at the threshold does not pause.
	result, err := svc.CheckIdle(ctx, start.Add(60*time.Minute))
	require.NoError(t, err)
	require.Equal(t, tracking.IdleCheckActive, result.Status)
	require.Equal(t, 60, result.IdleMinutes)
	idle.AssertNotCalled(t, "Set")
}

func TestCheckIdle_PausesOverThreshold(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	now := start.Add(61 * time.Minute)

	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)
	noIdle(idle, ctx)
	idle.On("Set", ctx, mock.Anything).Return(nil)
	sessions.On("Clear", ctx).Return(nil)

	svc := newTestService(sessions, idle, &mocks.EntryRepository{})
	result, err := svc.CheckIdle(ctx, now)
	require.NoError(t, err)
	require.Equal(t, tracking.IdleCheckPaused, result.Status)
	require.Equal(t, 61, result.IdleMinutes)
	require.Equal(t, "acme", result.State.Client)
	idle.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestCheckIdle_CustomThreshold(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := &mocks.SessionRepository{}
	idle := &mocks.IdleRepository{}
	sessions.On("Get", ctx).Return(&tracking.ActiveSession{
		Client: "acme", StartTime: start, LastActivityTime: start,
	}, nil)
	noIdle(idle, ctx)
	idle.On("Set", ctx, mock.Anything).Return(nil)
	sessions.On("Clear", ctx).Return(nil)

	svc := newTestService(sessions, idle, &mocks.EntryRepository{}, tracking.WithIdleThreshold(30))
	result, err := svc.CheckIdle(ctx, start.Add(31*time.Minute))
	require.NoError(t, err)
	require.Equal(t, tracking.IdleCheckPaused, result.Status)
}
