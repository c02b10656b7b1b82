package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchcard/internal/domain/entry"
	"github.com/rpggio/punchcard/internal/domain/tracking"
)

func stopCmd() *cobra.Command {
	var (
		at      string
		capHour bool
	)
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop tracking and record the session into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				ctx := cmd.Context()
				now := time.Now()

				var e *entry.TimeEntry
				switch {
				case capHour:
					e, err = a.tracking.StopCappedAtHour(ctx)
				case at != "":
					end, parseErr := time.Parse(time.RFC3339, at)
					if parseErr != nil {
						return fmt.Errorf("invalid --at time (want RFC 3339): %w", parseErr)
					}
					e, err = a.tracking.StopAt(ctx, end)
				default:
					active, activeErr := a.tracking.Active(ctx)
					if activeErr != nil {
						return activeErr
					}
					if active != nil {
						elapsed := entry.RawMinutes(active.StartTime, now)
						if elapsed > tracking.LongSessionMinutes {
							fmt.Printf("Long session: %s since %s. Keeping the full duration; use --cap-hour or --at to cap it.\n",
								entry.FormatDuration(elapsed), active.StartTime.Format("15:04"))
						}
					}
					e, err = a.tracking.Stop(ctx, now)
				}
				if err != nil {
					return err
				}
				if e == nil {
					fmt.Println("No active tracking")
					return nil
				}
				fmt.Printf("Recorded %q - %s (%s - %s)\n",
					e.Client,
					entry.FormatDuration(e.DurationMinutes),
					e.StartTime.Format("15:04"),
					e.EndTime.Format("15:04"))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Explicit end time (RFC 3339), must fall after the session start")
	cmd.Flags().BoolVar(&capHour, "cap-hour", false, "Record the session as exactly one hour from its start")
	return cmd
}
