package mcp

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/punchcard/internal/domain/entry"
)

// EntryResponse is the wire form of a ledger entry.
type EntryResponse struct {
	Client          string `json:"client"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Duration        string `json:"duration"`
}

func toEntryResponse(e entry.TimeEntry) EntryResponse {
	return EntryResponse{
		Client:          e.Client,
		StartTime:       e.StartTime.Format(time.RFC3339),
		EndTime:         e.EndTime.Format(time.RFC3339),
		DurationMinutes: e.DurationMinutes,
		Duration:        entry.FormatDuration(e.DurationMinutes),
	}
}

type startTrackingParams struct {
	Client string `json:"client" jsonschema:"client name to bill time against"`
}

type startTrackingResult struct {
	Client         string `json:"client"`
	PreviousClient string `json:"previous_client,omitempty"`
	StartTime      string `json:"start_time"`
}

type stopTrackingParams struct {
	EndTime   string `json:"end_time,omitempty" jsonschema:"optional RFC 3339 end time override, must fall after the session start"`
	CapAtHour bool   `json:"cap_at_hour,omitempty" jsonschema:"record the session as exactly one hour from its start"`
}

type stopTrackingResult struct {
	Stopped bool           `json:"stopped"`
	Entry   *EntryResponse `json:"entry,omitempty"`
}

type statusParams struct{}

type statusResult struct {
	State            string `json:"state"` // "stopped", "active" or "idle_pending"
	Client           string `json:"client,omitempty"`
	StartTime        string `json:"start_time,omitempty"`
	LastActivityTime string `json:"last_activity_time,omitempty"`
	ElapsedMinutes   int    `json:"elapsed_minutes,omitempty"`
	PauseTime        string `json:"pause_time,omitempty"`
}

type checkIdleParams struct{}

type checkIdleResult struct {
	Status      string `json:"status"`
	IdleMinutes int    `json:"idle_minutes"`
	Client      string `json:"client,omitempty"`
}

type resolveIdleParams struct {
	Action string `json:"action" jsonschema:"resume to bill the idle gap and continue tracking, discard to drop it and stay stopped"`
}

type resolveIdleResult struct {
	Resolved bool           `json:"resolved"`
	Action   string         `json:"action,omitempty"`
	Client   string         `json:"client,omitempty"`
	Entry    *EntryResponse `json:"entry,omitempty"`
}

type listEntriesParams struct {
	StartTime string `json:"start_time,omitempty" jsonschema:"optional RFC 3339 range start (inclusive)"`
	EndTime   string `json:"end_time,omitempty" jsonschema:"optional RFC 3339 range end (inclusive)"`
	TodayOnly bool   `json:"today_only,omitempty" jsonschema:"restrict to entries started today"`
}

type listEntriesResult struct {
	Entries []EntryResponse `json:"entries"`
}

type addEntryParams struct {
	Client    string `json:"client" jsonschema:"client name"`
	StartTime string `json:"start_time" jsonschema:"RFC 3339 start time"`
	EndTime   string `json:"end_time" jsonschema:"RFC 3339 end time, must fall after the start"`
}

type clientSummaryParams struct {
	StartTime string `json:"start_time,omitempty" jsonschema:"optional RFC 3339 range start (inclusive)"`
	EndTime   string `json:"end_time,omitempty" jsonschema:"optional RFC 3339 range end (inclusive)"`
}

type clientSummaryEntry struct {
	Client   string `json:"client"`
	Minutes  int    `json:"minutes"`
	Duration string `json:"duration"`
}

type clientSummaryResult struct {
	Clients      []clientSummaryEntry `json:"clients"`
	TotalMinutes int                  `json:"total_minutes"`
}

func registerTools(server *sdkmcp.Server, services Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_tracking",
		Description: "Start tracking time for a client, finalizing any running session first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params startTrackingParams) (*sdkmcp.CallToolResult, startTrackingResult, error) {
		result, err := services.Tracking.Start(ctx, params.Client, time.Now())
		if err != nil {
			return nil, startTrackingResult{}, err
		}
		return nil, startTrackingResult{
			Client:         result.Client,
			PreviousClient: result.PreviousClient,
			StartTime:      result.StartTime.Format(time.RFC3339),
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stop_tracking",
		Description: "Stop the running session and record it into the ledger",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params stopTrackingParams) (*sdkmcp.CallToolResult, stopTrackingResult, error) {
		var (
			e   *entry.TimeEntry
			err error
		)
		switch {
		case params.CapAtHour:
			e, err = services.Tracking.StopCappedAtHour(ctx)
		case params.EndTime != "":
			var end time.Time
			end, err = time.Parse(time.RFC3339, params.EndTime)
			if err != nil {
				return nil, stopTrackingResult{}, fmt.Errorf("invalid end_time: %w", err)
			}
			e, err = services.Tracking.StopAt(ctx, end)
		default:
			e, err = services.Tracking.Stop(ctx, time.Now())
		}
		if err != nil {
			return nil, stopTrackingResult{}, err
		}
		if e == nil {
			return nil, stopTrackingResult{Stopped: false}, nil
		}
		resp := toEntryResponse(*e)
		return nil, stopTrackingResult{Stopped: true, Entry: &resp}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "discard_tracking",
		Description: "Abandon the running session without recording an entry",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params statusParams) (*sdkmcp.CallToolResult, stopTrackingResult, error) {
		if err := services.Tracking.Discard(ctx); err != nil {
			return nil, stopTrackingResult{}, err
		}
		return nil, stopTrackingResult{Stopped: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "tracking_status",
		Description: "Report whether tracking is stopped, active, or paused pending idle confirmation",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params statusParams) (*sdkmcp.CallToolResult, statusResult, error) {
		now := time.Now()
		idle, err := services.Tracking.Idle(ctx)
		if err != nil {
			return nil, statusResult{}, err
		}
		if idle != nil {
			return nil, statusResult{
				State:            "idle_pending",
				Client:           idle.Client,
				StartTime:        idle.OriginalStartTime.Format(time.RFC3339),
				LastActivityTime: idle.LastActivityTime.Format(time.RFC3339),
				PauseTime:        idle.PauseTime.Format(time.RFC3339),
			}, nil
		}

		active, err := services.Tracking.Active(ctx)
		if err != nil {
			return nil, statusResult{}, err
		}
		if active == nil {
			return nil, statusResult{State: "stopped"}, nil
		}
		// A status request counts as user presence.
		if err := services.Tracking.UpdateActivity(ctx, now); err != nil {
			return nil, statusResult{}, err
		}
		return nil, statusResult{
			State:            "active",
			Client:           active.Client,
			StartTime:        active.StartTime.Format(time.RFC3339),
			LastActivityTime: active.LastActivityTime.Format(time.RFC3339),
			ElapsedMinutes:   entry.RawMinutes(active.StartTime, now),
		}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "check_idle",
		Description: "Run the periodic idle check, pausing a session idle for over an hour during business hours",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params checkIdleParams) (*sdkmcp.CallToolResult, checkIdleResult, error) {
		result, err := services.Tracking.CheckIdle(ctx, time.Now())
		if err != nil {
			return nil, checkIdleResult{}, err
		}
		resp := checkIdleResult{Status: string(result.Status), IdleMinutes: result.IdleMinutes}
		if result.State != nil {
			resp.Client = result.State.Client
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_idle",
		Description: "Resolve a pending idle pause by resuming (billing the gap) or discarding it",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params resolveIdleParams) (*sdkmcp.CallToolResult, resolveIdleResult, error) {
		idle, err := services.Tracking.Idle(ctx)
		if err != nil {
			return nil, resolveIdleResult{}, err
		}
		if idle == nil {
			return nil, resolveIdleResult{Resolved: false}, nil
		}

		switch params.Action {
		case "resume":
			if err := services.Tracking.ResumeFromIdle(ctx, idle, time.Now()); err != nil {
				return nil, resolveIdleResult{}, err
			}
			return nil, resolveIdleResult{Resolved: true, Action: "resume", Client: idle.Client}, nil
		case "discard":
			e, err := services.Tracking.StopFromIdle(ctx, idle)
			if err != nil {
				return nil, resolveIdleResult{}, err
			}
			resp := toEntryResponse(*e)
			return nil, resolveIdleResult{Resolved: true, Action: "discard", Client: idle.Client, Entry: &resp}, nil
		default:
			return nil, resolveIdleResult{}, fmt.Errorf("invalid action %q: use resume or discard", params.Action)
		}
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_entries",
		Description: "List recorded time entries, optionally filtered to today or to a time range",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params listEntriesParams) (*sdkmcp.CallToolResult, listEntriesResult, error) {
		entries, err := loadEntries(ctx, services.Ledger, params.TodayOnly, params.StartTime, params.EndTime)
		if err != nil {
			return nil, listEntriesResult{}, err
		}
		resp := listEntriesResult{Entries: make([]EntryResponse, 0, len(entries))}
		for _, e := range entries {
			resp.Entries = append(resp.Entries, toEntryResponse(e))
		}
		return nil, resp, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_entry",
		Description: "Record a manual time entry; the duration is rounded into billing increments",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params addEntryParams) (*sdkmcp.CallToolResult, EntryResponse, error) {
		start, err := time.Parse(time.RFC3339, params.StartTime)
		if err != nil {
			return nil, EntryResponse{}, fmt.Errorf("invalid start_time: %w", err)
		}
		end, err := time.Parse(time.RFC3339, params.EndTime)
		if err != nil {
			return nil, EntryResponse{}, fmt.Errorf("invalid end_time: %w", err)
		}
		e, err := services.Ledger.Add(ctx, params.Client, start, end)
		if err != nil {
			return nil, EntryResponse{}, err
		}
		return nil, toEntryResponse(*e), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "client_summary",
		Description: "Sum billed minutes per client, optionally restricted to a time range",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params clientSummaryParams) (*sdkmcp.CallToolResult, clientSummaryResult, error) {
		entries, err := loadEntries(ctx, services.Ledger, false, params.StartTime, params.EndTime)
		if err != nil {
			return nil, clientSummaryResult{}, err
		}
		resp := clientSummaryResult{Clients: []clientSummaryEntry{}}
		for _, s := range entry.SummaryByClient(entries) {
			resp.Clients = append(resp.Clients, clientSummaryEntry{
				Client:   s.Client,
				Minutes:  s.Minutes,
				Duration: entry.FormatDuration(s.Minutes),
			})
			resp.TotalMinutes += s.Minutes
		}
		return nil, resp, nil
	})
}

func loadEntries(ctx context.Context, ledger LedgerService, todayOnly bool, startStr, endStr string) ([]entry.TimeEntry, error) {
	if todayOnly {
		return ledger.Today(ctx, time.Now())
	}
	if startStr == "" && endStr == "" {
		return ledger.All(ctx)
	}

	start := time.Time{}
	end := time.Now()
	var err error
	if startStr != "" {
		start, err = time.Parse(time.RFC3339, startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time: %w", err)
		}
	}
	if endStr != "" {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid end_time: %w", err)
		}
	}
	return ledger.ByDateRange(ctx, start, end)
}
