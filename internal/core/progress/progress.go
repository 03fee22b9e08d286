// Package progress maps phase timing onto a display percentage and countdown.
package progress

import (
	"fmt"
	"time"
)

// Fraction returns how far now is into a phase, in percent within [0, 100].
func Fraction(now, phaseStart time.Time, phaseDuration time.Duration) float64 {
	if phaseDuration <= 0 {
		return 100
	}
	raw := float64(now.Sub(phaseStart)) / float64(phaseDuration) * 100
	if raw > 100 {
		return 100
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// PhaseStart recovers the start of a phase from its deadline.
// phaseDuration must be the same value used when the deadline was set.
func PhaseStart(deadline time.Time, phaseDuration time.Duration) time.Time {
	return deadline.Add(-phaseDuration)
}

// Remaining returns the time left until deadline, never negative.
func Remaining(now, deadline time.Time) time.Duration {
	remaining := deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatRemaining renders a countdown as MM:SS, rounding partial seconds up.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int((remaining + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
