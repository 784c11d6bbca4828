package reminder

import "time"

// Delay policy bounds.
const (
	// ImmediateWindow is the distance from now within which a deadline counts as "now".
	ImmediateWindow = 30 * time.Second
	// MinimumLead is the shortest future delay worth a reminder outside ImmediateWindow.
	MinimumLead = 60 * time.Second
	// ImmediateBuffer is the delay used for deadlines inside ImmediateWindow.
	ImmediateBuffer = time.Second
)

// Plan computes the delay of a reminder firing at firesAt.
// It returns false when no reminder should be scheduled:
//   - the delay is longer than ImmediateWindow but shorter than MinimumLead;
//   - the deadline lies more than ImmediateWindow in the past.
//
// Deadlines within ImmediateWindow of now fire after ImmediateBuffer.
func Plan(now, firesAt time.Time) (time.Duration, bool) {
	delay := firesAt.Sub(now)

	switch {
	case delay >= -ImmediateWindow && delay <= ImmediateWindow:
		return ImmediateBuffer, true
	case delay < -ImmediateWindow:
		return 0, false
	case delay < MinimumLead:
		return 0, false
	default:
		return delay, true
	}
}
