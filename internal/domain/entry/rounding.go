package entry

import (
	"fmt"
	"math"
	"time"
)

// RoundBillable maps raw elapsed minutes to billed minutes. Sessions of five
// minutes or less bill as-is; anything longer rounds up to the next
// 15-minute increment. This is the single source of billed duration: every
// path that finalizes an interval goes through it.
func RoundBillable(rawMinutes int) int {
	if rawMinutes <= 5 {
		return rawMinutes
	}
	return (rawMinutes + 14) / 15 * 15
}

// RawMinutes converts an interval to whole minutes, rounded to nearest.
func RawMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// FormatDuration renders billed minutes as "45m" or "1h 5m".
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
