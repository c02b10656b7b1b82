package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchcard/internal/domain/entry"
)

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List and edit recorded time entries",
	}
	cmd.AddCommand(entriesListCmd())
	cmd.AddCommand(entriesAddCmd())
	cmd.AddCommand(entriesEditCmd())
	cmd.AddCommand(entriesDeleteCmd())
	return cmd
}

func entriesListCmd() *cobra.Command {
	var rng string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries in storage order",
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
			for _, e := range entries {
				fmt.Printf("%s  %s - %s  %-20s %s\n",
					e.StartTime.Format("2006-01-02"),
					e.StartTime.Format("15:04"),
					e.EndTime.Format("15:04"),
					e.Client,
					entry.FormatDuration(e.DurationMinutes))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rng, "range", "all", "Range: today, week, month or all")
	return cmd
}

func entriesAddCmd() *cobra.Command {
	var client, start, end string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a manual entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, endTime, err := parseInterval(start, end)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				e, err := a.ledger.Add(cmd.Context(), client, startTime, endTime)
				if err != nil {
					return err
				}
				fmt.Printf("Added %q - %s\n", e.Client, entry.FormatDuration(e.DurationMinutes))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	cmd.Flags().StringVar(&start, "start", "", "Start time (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "End time (RFC 3339)")
	cmd.MarkFlagRequired("client")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func entriesEditCmd() *cobra.Command {
	var client, start, end string
	var newClient, newStart, newEnd string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace an entry identified by its client, start and end times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			match, err := parseMatch(client, start, end)
			if err != nil {
				return err
			}

			replacement := match
			if newClient != "" {
				replacement.Client = newClient
			}
			if newStart != "" {
				replacement.StartTime, err = time.Parse(time.RFC3339, newStart)
				if err != nil {
					return fmt.Errorf("invalid --new-start: %w", err)
				}
			}
			if newEnd != "" {
				replacement.EndTime, err = time.Parse(time.RFC3339, newEnd)
				if err != nil {
					return fmt.Errorf("invalid --new-end: %w", err)
				}
			}
			if !replacement.EndTime.After(replacement.StartTime) {
				return entry.ErrInvalidInterval
			}
			replacement.DurationMinutes = entry.RoundBillable(entry.RawMinutes(replacement.StartTime, replacement.EndTime))

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				replaced, err := a.ledger.Update(cmd.Context(), match, replacement)
				if err != nil {
					return err
				}
				if replaced == 0 {
					fmt.Println("No matching entry")
					return nil
				}
				fmt.Printf("Updated %d entr%s\n", replaced, pluralY(replaced))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "Client of the entry to edit")
	cmd.Flags().StringVar(&start, "start", "", "Start time of the entry to edit (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "End time of the entry to edit (RFC 3339)")
	cmd.Flags().StringVar(&newClient, "new-client", "", "Replacement client name")
	cmd.Flags().StringVar(&newStart, "new-start", "", "Replacement start time (RFC 3339)")
	cmd.Flags().StringVar(&newEnd, "new-end", "", "Replacement end time (RFC 3339)")
	cmd.MarkFlagRequired("client")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func entriesDeleteCmd() *cobra.Command {
	var client, start, end string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an entry identified by its client, start and end times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			match, err := parseMatch(client, start, end)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				removed, err := a.ledger.Delete(cmd.Context(), match)
				if err != nil {
					return err
				}
				if removed == 0 {
					fmt.Println("No matching entry")
					return nil
				}
				fmt.Printf("Deleted %d entr%s\n", removed, pluralY(removed))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "Client of the entry to delete")
	cmd.Flags().StringVar(&start, "start", "", "Start time of the entry to delete (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "End time of the entry to delete (RFC 3339)")
	cmd.MarkFlagRequired("client")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func parseInterval(start, end string) (time.Time, time.Time, error) {
	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
	}
	return startTime, endTime, nil
}

func parseMatch(client, start, end string) (entry.TimeEntry, error) {
	startTime, endTime, err := parseInterval(start, end)
	if err != nil {
		return entry.TimeEntry{}, err
	}
	return entry.TimeEntry{Client: client, StartTime: startTime, EndTime: endTime}, nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
