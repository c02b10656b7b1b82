package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchcard/internal/domain/tracking"
)

func trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track [client]",
		Short: "Start tracking time for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				result, err := a.tracking.Start(cmd.Context(), args[0], time.Now())
				if err != nil {
					if errors.Is(err, tracking.ErrIdlePending) {
						return fmt.Errorf("an idle confirmation is pending; resolve it first with 'punchcard idle resume' or 'punchcard idle discard'")
					}
					return err
				}
				if result.Switched() {
					fmt.Printf("Switched from %q to %q\n", result.PreviousClient, result.Client)
				} else {
					fmt.Printf("Started tracking %q at %s\n", result.Client, result.StartTime.Format("15:04"))
				}
				return nil
			})
		},
	}
}

func discardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Abandon the running session without recording an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				active, err := a.tracking.Active(cmd.Context())
				if err != nil {
					return err
				}
				if active == nil {
					fmt.Println("No active tracking")
					return nil
				}
				if err := a.tracking.Discard(cmd.Context()); err != nil {
					return err
				}
				fmt.Printf("Discarded session for %q\n", active.Client)
				return nil
			})
		},
	}
}
