// Package mcp exposes the tracker to MCP clients as a set of typed tools.
package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/punchcard/internal/domain/entry"
	"github.com/rpggio/punchcard/internal/domain/tracking"
)

// TrackingService defines tracking operations needed by MCP.
type TrackingService interface {
	Start(ctx context.Context, client string, now time.Time) (*tracking.StartResult, error)
	Stop(ctx context.Context, now time.Time) (*entry.TimeEntry, error)
	StopAt(ctx context.Context, end time.Time) (*entry.TimeEntry, error)
	StopCappedAtHour(ctx context.Context) (*entry.TimeEntry, error)
	Discard(ctx context.Context) error
	UpdateActivity(ctx context.Context, now time.Time) error
	Active(ctx context.Context) (*tracking.ActiveSession, error)
	Idle(ctx context.Context) (*tracking.IdleState, error)
	CheckIdle(ctx context.Context, now time.Time) (*tracking.CheckIdleResult, error)
	ResumeFromIdle(ctx context.Context, state *tracking.IdleState, now time.Time) error
	StopFromIdle(ctx context.Context, state *tracking.IdleState) (*entry.TimeEntry, error)
}

// LedgerService defines ledger operations needed by MCP.
type LedgerService interface {
	Add(ctx context.Context, client string, start, end time.Time) (*entry.TimeEntry, error)
	All(ctx context.Context) ([]entry.TimeEntry, error)
	Today(ctx context.Context, now time.Time) ([]entry.TimeEntry, error)
	ByDateRange(ctx context.Context, start, end time.Time) ([]entry.TimeEntry, error)
}

// Services contains the domain services needed by MCP.
type Services struct {
	Tracking TrackingService
	Ledger   LedgerService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "punchcard",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

const serverInstructions = `Punchcard tracks billable time against named clients.

Start tracking with start_tracking; starting while another client is tracked
finalizes that session first. stop_tracking records the session into the
ledger (durations round up to 15-minute billing increments above 5 minutes).
check_idle pauses a session left idle for over an hour during business hours;
resolve the pause with resolve_idle (action "resume" bills the gap, action
"discard" drops it). list_entries and client_summary read the ledger.`
