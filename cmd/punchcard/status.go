package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchcard/internal/domain/entry"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current tracking state and today's totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			now := time.Now()

			idle, err := a.tracking.Idle(ctx)
			if err != nil {
				return err
			}
			if idle != nil {
				fmt.Printf("Idle confirmation pending for %q\n", idle.Client)
				fmt.Printf("  Started:       %s\n", idle.OriginalStartTime.Format("15:04"))
				fmt.Printf("  Last activity: %s\n", idle.LastActivityTime.Format("15:04"))
				fmt.Printf("  Paused:        %s\n", idle.PauseTime.Format("15:04"))
				fmt.Println("Resolve with 'punchcard idle resume' (bill the gap) or 'punchcard idle discard'.")
			} else {
				active, err := a.tracking.Active(ctx)
				if err != nil {
					return err
				}
				if active == nil {
					fmt.Println("Not tracking")
				} else {
					// Checking on a session counts as user presence.
					if err := a.withLock(func() error {
						return a.tracking.UpdateActivity(ctx, now)
					}); err != nil {
						return err
					}
					elapsed := entry.RawMinutes(active.StartTime, now)
					fmt.Printf("Tracking %q for %s (since %s)\n",
						active.Client, entry.FormatDuration(elapsed), active.StartTime.Format("15:04"))
				}
			}

			today, err := a.ledger.Today(ctx, now)
			if err != nil {
				return err
			}
			if len(today) == 0 {
				return nil
			}
			fmt.Println("\nToday:")
			total := 0
			for _, s := range entry.SummaryByClient(today) {
				fmt.Printf("  %-20s %s\n", s.Client, entry.FormatDuration(s.Minutes))
				total += s.Minutes
			}
			fmt.Printf("  %-20s %s\n", "total", entry.FormatDuration(total))
			return nil
		},
	}
}
