package filestore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/punchcard/internal/domain/entry"
)

const ledgerHeader = "client,startTime,endTime,durationMinutes"

// Ledger is a CSV-backed entry repository. Rows are written with quoted
// fields; the read path also accepts the legacy unquoted encoding. Lines
// that fail to decode are skipped rather than failing the scan.
type Ledger struct {
	path string
	mu   sync.Mutex
}

// NewLedger opens a ledger file, seeding the header row when absent.
func NewLedger(path string) (*Ledger, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte(ledgerHeader+"\n"), 0o644); err != nil {
			return nil, fmt.Errorf("seeding ledger: %w", err)
		}
	}
	return &Ledger{path: path}, nil
}

// Append adds one finalized entry to the end of the ledger.
func (l *Ledger) Append(ctx context.Context, e entry.TimeEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	if _, err := f.WriteString(encodeRow(e)); err != nil {
		f.Close()
		return fmt.Errorf("writing entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return nil
}

// All returns every decodable entry in file order. A missing file reads as
// empty.
func (l *Ledger) All(ctx context.Context) ([]entry.TimeEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r", ""), "\n")
	var entries []entry.TimeEntry
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, ok := decodeRow(line)
		if !ok {
			// header row or a corrupt line
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReplaceAll rewrites the whole ledger with the given entries.
func (l *Ledger) ReplaceAll(ctx context.Context, entries []entry.TimeEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var buf strings.Builder
	buf.WriteString(ledgerHeader + "\n")
	for _, e := range entries {
		buf.WriteString(encodeRow(e))
	}
	return atomicWrite(l.path, []byte(buf.String()))
}

func encodeRow(e entry.TimeEntry) string {
	client := strings.ReplaceAll(e.Client, `"`, `""`)
	return fmt.Sprintf("\"%s\",\"%s\",\"%s\",%d\n",
		client,
		e.StartTime.Format(time.RFC3339Nano),
		e.EndTime.Format(time.RFC3339Nano),
		e.DurationMinutes)
}

// decodeRow parses one ledger line. encoding/csv accepts both the canonical
// quoted form and the legacy unquoted form.
func decodeRow(line string) (entry.TimeEntry, bool) {
	fields, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil || len(fields) != 4 {
		return entry.TimeEntry{}, false
	}
	start, err := parseTimestamp(fields[1])
	if err != nil {
		return entry.TimeEntry{}, false
	}
	end, err := parseTimestamp(fields[2])
	if err != nil {
		return entry.TimeEntry{}, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil || minutes < 0 {
		return entry.TimeEntry{}, false
	}
	return entry.TimeEntry{
		Client:          fields[0],
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
	}, true
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
}
