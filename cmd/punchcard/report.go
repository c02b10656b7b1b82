package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchcard/internal/domain/entry"
)

func reportCmd() *cobra.Command {
	var rng string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Per-day breakdown of recorded time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := entriesForRange(cmd, a, rng)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No entries")
				return nil
			}

			byDay := make(map[string][]entry.TimeEntry)
			var days []string
			for _, e := range entries {
				day := e.StartTime.Format("2006-01-02")
				if _, ok := byDay[day]; !ok {
					days = append(days, day)
				}
				byDay[day] = append(byDay[day], e)
			}
			sort.Strings(days)

			total := 0
			for _, day := range days {
				dayTotal := 0
				fmt.Printf("%s\n", day)
				for _, e := range byDay[day] {
					fmt.Printf("  %s - %s  %-20s %s\n",
						e.StartTime.Format("15:04"),
						e.EndTime.Format("15:04"),
						e.Client,
						entry.FormatDuration(e.DurationMinutes))
					dayTotal += e.DurationMinutes
				}
				fmt.Printf("  Total: %s\n", entry.FormatDuration(dayTotal))
				total += dayTotal
			}
			fmt.Printf("\nOverall: %s\n", entry.FormatDuration(total))
			return nil
		},
	}
	cmd.Flags().StringVar(&rng, "range", "week", "Range: today, week, month or all")
	return cmd
}

func summaryCmd() *cobra.Command {
	var rng string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Per-client totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := entriesForRange(cmd, a, rng)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No entries")
				return nil
			}

			summary := entry.SummaryByClient(entries)
			total := 0
			for _, s := range summary {
				total += s.Minutes
			}
			for _, s := range summary {
				pct := 0.0
				if total > 0 {
					pct = float64(s.Minutes) / float64(total) * 100
				}
				fmt.Printf("%-20s %10s  %5.1f%%\n", s.Client, entry.FormatDuration(s.Minutes), pct)
			}
			fmt.Printf("%-20s %10s\n", "Total", entry.FormatDuration(total))
			return nil
		},
	}
	cmd.Flags().StringVar(&rng, "range", "month", "Range: today, week, month or all")
	return cmd
}

// entriesForRange loads ledger entries bounded by a named range ending now.
func entriesForRange(cmd *cobra.Command, a *app, rng string) ([]entry.TimeEntry, error) {
	now := time.Now()
	switch rng {
	case "all":
		return a.ledger.All(cmd.Context())
	case "today":
		return a.ledger.Today(cmd.Context(), now)
	case "week":
		return a.ledger.ByDateRange(cmd.Context(), now.AddDate(0, 0, -7), now)
	case "month":
		return a.ledger.ByDateRange(cmd.Context(), now.AddDate(0, 0, -30), now)
	default:
		return nil, fmt.Errorf("unknown range %q (want today, week, month or all)", rng)
	}
}
