package tracking

import "time"

// ActiveSession is the single in-progress tracked interval.
type ActiveSession struct {
	Client           string    `json:"client"`
	StartTime        time.Time `json:"start_time"`
	LastActivityTime time.Time `json:"last_activity_time"`
}

// IdleState is a session auto-paused after an idle gap, awaiting the user's
// decision. Its presence in the store is the pending flag.
type IdleState struct {
	PauseTime         time.Time `json:"pause_time"`
	Client            string    `json:"client"`
	OriginalStartTime time.Time `json:"original_start_time"`
	LastActivityTime  time.Time `json:"last_activity_time"`
}

// StartResult reports the outcome of starting a session.
type StartResult struct {
	PreviousClient string // empty when no session was running
	Client         string
	StartTime      time.Time
}

// Switched reports whether starting displaced a running session.
func (r StartResult) Switched() bool {
	return r.PreviousClient != ""
}

// IdleCheckStatus describes the outcome of a periodic idle check.
type IdleCheckStatus string

const (
	IdleCheckNoSession      IdleCheckStatus = "no_session"
	IdleCheckOutsideHours   IdleCheckStatus = "outside_business_hours"
	IdleCheckAlreadyPending IdleCheckStatus = "already_pending"
	IdleCheckActive         IdleCheckStatus = "active"
	IdleCheckPaused         IdleCheckStatus = "paused"
)

// CheckIdleResult holds the outcome of CheckIdle.
type CheckIdleResult struct {
	Status      IdleCheckStatus
	IdleMinutes int
	State       *IdleState // set when paused or already pending
}

const (
	// DefaultIdleThresholdMinutes is the idle gap that triggers an
	// automatic pause during business hours.
	DefaultIdleThresholdMinutes = 60
	// LongSessionMinutes is the uninterrupted duration after which callers
	// offer the capping resolutions on stop.
	LongSessionMinutes = 60
)

// BusinessHours bounds the local weekday window in which idle detection
// runs. The end hour is exclusive.
type BusinessHours struct {
	StartHour int
	EndHour   int
}
