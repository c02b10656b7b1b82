package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchcard/internal/domain/entry"
	"github.com/rpggio/punchcard/internal/domain/tracking"
)

// idleCheckCmd is meant to run from a scheduler (cron, launchd). It pauses a
// session left idle for over the threshold during business hours.
func idleCheckCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "idle-check",
		Short: "Pause tracking when the session has been idle too long",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				result, err := a.tracking.CheckIdle(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				if quiet && result.Status != tracking.IdleCheckPaused {
					return nil
				}
				switch result.Status {
				case tracking.IdleCheckNoSession:
					fmt.Println("No active tracking")
				case tracking.IdleCheckOutsideHours:
					fmt.Println("Outside business hours")
				case tracking.IdleCheckAlreadyPending:
					fmt.Printf("Idle confirmation already pending for %q\n", result.State.Client)
				case tracking.IdleCheckActive:
					fmt.Printf("Active - %d minutes idle\n", result.IdleMinutes)
				case tracking.IdleCheckPaused:
					fmt.Printf("Paused %q after %d idle minutes; confirm with 'punchcard idle resume' or 'punchcard idle discard'\n",
						result.State.Client, result.IdleMinutes)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only report when a session is paused")
	return cmd
}

func idleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idle",
		Short: "Resolve a pending idle pause",
	}
	cmd.AddCommand(idleResumeCmd())
	cmd.AddCommand(idleDiscardCmd())
	return cmd
}

func idleResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Confirm you kept working: bill the idle gap and continue tracking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				idle, err := a.tracking.Idle(cmd.Context())
				if err != nil {
					return err
				}
				if idle == nil {
					fmt.Println("No idle confirmation pending")
					return nil
				}
				if err := a.tracking.ResumeFromIdle(cmd.Context(), idle, time.Now()); err != nil {
					return err
				}
				fmt.Printf("Resumed tracking %q; the idle gap was billed\n", idle.Client)
				return nil
			})
		},
	}
}

func idleDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Drop the idle gap: record only the time before the pause",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return a.withLock(func() error {
				idle, err := a.tracking.Idle(cmd.Context())
				if err != nil {
					return err
				}
				if idle == nil {
					fmt.Println("No idle confirmation pending")
					return nil
				}
				e, err := a.tracking.StopFromIdle(cmd.Context(), idle)
				if err != nil {
					return err
				}
				fmt.Printf("Recorded %q - %s; tracking stopped\n", e.Client, entry.FormatDuration(e.DurationMinutes))
				return nil
			})
		},
	}
}
