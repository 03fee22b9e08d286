package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFractionBounds(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	duration := 10 * time.Minute

	assert.Equal(t, 0.0, Fraction(start, start, duration))
	assert.InDelta(t, 50.0, Fraction(start.Add(5*time.Minute), start, duration), 1e-9)
	assert.Equal(t, 100.0, Fraction(start.Add(duration), start, duration))
	assert.Equal(t, 100.0, Fraction(start.Add(3*duration), start, duration))
	assert.Equal(t, 0.0, Fraction(start.Add(-time.Minute), start, duration))
}

func TestFractionMonotonic(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	duration := 90 * time.Second

	previous := -1.0
	for offset := -10 * time.Second; offset <= 2*duration; offset += 750 * time.Millisecond {
		current := Fraction(start.Add(offset), start, duration)
		assert.GreaterOrEqual(t, current, previous, "offset %s", offset)
		assert.LessOrEqual(t, current, 100.0)
		previous = current
	}
}

func TestFractionNonPositiveDuration(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 100.0, Fraction(now, now, 0))
}

func TestPhaseStartRoundTrip(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	duration := 25 * time.Minute
	assert.True(t, start.Equal(PhaseStart(start.Add(duration), duration)))
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{1500 * time.Millisecond, "00:02"},
		{59 * time.Second, "00:59"},
		{25 * time.Minute, "25:00"},
		{61*time.Minute + 1, "61:01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.in), tt.in.String())
	}
}

func TestRemaining(t *testing.T) {
	now := time.Now()
	assert.Equal(t, time.Minute, Remaining(now, now.Add(time.Minute)))
	assert.Equal(t, time.Duration(0), Remaining(now, now.Add(-time.Minute)))
}
