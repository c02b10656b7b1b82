package entry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service exposes the entry ledger operations.
type Service struct {
	ledger Repository
	logger *slog.Logger
}

// NewService creates a new ledger service.
func NewService(ledger Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{ledger: ledger, logger: logger}
}

// Add records a manual entry, applying the billing rounding policy.
func (s *Service) Add(ctx context.Context, client string, start, end time.Time) (*TimeEntry, error) {
	if client == "" {
		return nil, ErrInvalidClient
	}
	if !end.After(start) {
		return nil, ErrInvalidInterval
	}

	e := TimeEntry{
		Client:          client,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: RoundBillable(RawMinutes(start, end)),
	}
	if err := s.ledger.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("appending entry: %w", err)
	}
	s.logger.Info("entry added", "client", client, "minutes", e.DurationMinutes)
	return &e, nil
}

// Append stores an already-finalized entry without re-rounding.
func (s *Service) Append(ctx context.Context, e TimeEntry) error {
	if err := s.ledger.Append(ctx, e); err != nil {
		return fmt.Errorf("appending entry: %w", err)
	}
	return nil
}

// All returns every entry in storage order.
func (s *Service) All(ctx context.Context) ([]TimeEntry, error) {
	entries, err := s.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	return entries, nil
}

// ByDateRange returns entries whose start time falls within [start, end],
// compared at full timestamp precision.
func (s *Service) ByDateRange(ctx context.Context, start, end time.Time) ([]TimeEntry, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []TimeEntry
	for _, e := range entries {
		if e.StartTime.Before(start) || e.StartTime.After(end) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// Today returns entries whose start time falls on the local date of now.
func (s *Service) Today(ctx context.Context, now time.Time) ([]TimeEntry, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	year, month, day := now.Date()
	var filtered []TimeEntry
	for _, e := range entries {
		y, m, d := e.StartTime.In(now.Location()).Date()
		if y == year && m == month && d == day {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// Update replaces every entry whose identifying triple matches match, then
// rewrites the ledger. It returns the number of entries replaced. Duplicate
// triples are all replaced; the ledger has no surrogate ids to tell them
// apart.
func (s *Service) Update(ctx context.Context, match, replacement TimeEntry) (int, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	replaced := 0
	for i, e := range entries {
		if e.SameKey(match) {
			entries[i] = replacement
			replaced++
		}
	}
	if replaced == 0 {
		return 0, nil
	}
	if err := s.ledger.ReplaceAll(ctx, entries); err != nil {
		return 0, fmt.Errorf("rewriting ledger: %w", err)
	}
	s.logger.Info("entry updated", "client", match.Client, "replaced", replaced)
	return replaced, nil
}

// Delete removes every entry whose identifying triple matches match, then
// rewrites the ledger. It returns the number of entries removed.
func (s *Service) Delete(ctx context.Context, match TimeEntry) (int, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([]TimeEntry, 0, len(entries))
	removed := 0
	for _, e := range entries {
		if e.SameKey(match) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.ledger.ReplaceAll(ctx, kept); err != nil {
		return 0, fmt.Errorf("rewriting ledger: %w", err)
	}
	s.logger.Info("entry deleted", "client", match.Client, "removed", removed)
	return removed, nil
}

// SummaryByClient sums billed minutes per client, preserving the order in
// which each client first appears.
func SummaryByClient(entries []TimeEntry) []ClientSummary {
	index := make(map[string]int, len(entries))
	var summaries []ClientSummary
	for _, e := range entries {
		if i, ok := index[e.Client]; ok {
			summaries[i].Minutes += e.DurationMinutes
			continue
		}
		index[e.Client] = len(summaries)
		summaries = append(summaries, ClientSummary{Client: e.Client, Minutes: e.DurationMinutes})
	}
	return summaries
}
