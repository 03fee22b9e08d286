package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobell/internal/core/model"
)

func pomodoroConfig(total int) model.PomodoroConfig {
	return model.PomodoroConfig{
		Work:      25 * time.Minute,
		Break:     5 * time.Minute,
		LongBreak: 15 * time.Minute,
		Total:     total,
		StartTime: epoch,
	}
}

// runPomodoro polls at every deadline and records "work<n>", "break(short)" or
// "break(long)" for each phase entered, ending with "absent".
func runPomodoro(t *testing.T, total int) ([]string, []Notification) {
	t.Helper()

	var machine Machine = NewPomodoro(pomodoroConfig(total))
	phases := []string{"work1"}
	var notifications []Notification

	for step := 0; step < 100; step++ {
		deadline := machine.Snapshot().Deadline()

		var effects []Effect
		machine, effects = machine.Poll(deadline)
		for _, effect := range effects {
			if effect.Type == EffectNotify {
				notifications = append(notifications, effect.Notification)
			}
		}
		if machine == nil {
			return append(phases, "absent"), notifications
		}

		snapshot := machine.Snapshot().(PomodoroSnapshot)
		switch {
		case snapshot.Phase == PhaseWork:
			phases = append(phases, fmt.Sprintf("work%d", snapshot.CurrentPomodoro))
		case snapshot.IsLongBreak():
			phases = append(phases, "break(long)")
		default:
			phases = append(phases, "break(short)")
		}
	}
	t.Fatal("pomodoro did not complete")
	return nil, nil
}

func TestPomodoroPhaseSequence(t *testing.T) {
	phases, notifications := runPomodoro(t, 4)

	assert.Equal(t, []string{
		"work1", "break(short)",
		"work2", "break(short)",
		"work3", "break(short)",
		"work4", "break(long)",
		"absent",
	}, phases)
	// Four work-complete and three break-complete notifications; the final break ends silently.
	assert.Len(t, notifications, 7)
	assert.True(t, notifications[len(notifications)-1].LongBreak)
}

func TestPomodoroLongBreakThenContinues(t *testing.T) {
	phases, _ := runPomodoro(t, 5)

	assert.Equal(t, []string{
		"work1", "break(short)",
		"work2", "break(short)",
		"work3", "break(short)",
		"work4", "break(long)",
		"work5", "break(short)",
		"absent",
	}, phases)
}

func TestPomodoroSingleRunKeepsItsBreak(t *testing.T) {
	phases, _ := runPomodoro(t, 1)
	assert.Equal(t, []string{"work1", "break(short)", "absent"}, phases)
}

func TestIsLongBreak(t *testing.T) {
	var long []int
	for n := 1; n <= 12; n++ {
		if IsLongBreak(n) {
			long = append(long, n)
		}
	}
	assert.Equal(t, []int{4, 8, 12}, long)
}

func TestPomodoroBreakDeadlineRebasedOnObservation(t *testing.T) {
	pomodoro := NewPomodoro(pomodoroConfig(4))

	late := epoch.Add(40 * time.Minute)
	next, effects := pomodoro.Poll(late)
	require.NotNil(t, next)

	snapshot := next.Snapshot().(PomodoroSnapshot)
	assert.Equal(t, PhaseBreak, snapshot.Phase)
	assert.Equal(t, 1, snapshot.CurrentPomodoro)
	assert.True(t, snapshot.NextPhaseTime.Equal(late.Add(5*time.Minute)))

	require.Len(t, effects, 2)
	assert.Equal(t, NotifyWorkComplete, effects[0].Notification.Kind)
	assert.False(t, effects[0].Notification.LongBreak)
	assert.True(t, effects[0].Notification.PlaySound)
	assert.Equal(t, PhaseBreak, effects[1].Phase)
}

func TestPomodoroBreakCompleteNotification(t *testing.T) {
	var machine Machine = NewPomodoro(pomodoroConfig(3))
	machine, _ = machine.Poll(epoch.Add(25 * time.Minute))
	next, effects := machine.Poll(epoch.Add(30 * time.Minute))

	require.NotNil(t, next)
	require.Len(t, effects, 2)
	assert.Equal(t, NotifyBreakComplete, effects[0].Notification.Kind)
	assert.Equal(t, 2, effects[0].Notification.Cycle)
	assert.Equal(t, EffectAdvance, effects[1].Type)
	assert.Equal(t, PhaseWork, effects[1].Phase)
	assert.Equal(t, 2, effects[1].Cycle)
}

func TestPomodoroSnapshotPhaseDuration(t *testing.T) {
	snapshot := PomodoroSnapshot{
		Phase:           PhaseBreak,
		CurrentPomodoro: 8,
		Work:            25 * time.Minute,
		Break:           5 * time.Minute,
		LongBreak:       15 * time.Minute,
		NextPhaseTime:   epoch.Add(15 * time.Minute),
	}
	assert.Equal(t, 15*time.Minute, snapshot.PhaseDuration())
	assert.Equal(t, 0.0, snapshot.Progress(epoch))

	snapshot.CurrentPomodoro = 7
	assert.Equal(t, 5*time.Minute, snapshot.PhaseDuration())

	snapshot.Phase = PhaseWork
	assert.Equal(t, 25*time.Minute, snapshot.PhaseDuration())
}

func TestPomodoroPollBeforeDeadlineIsNoop(t *testing.T) {
	pomodoro := NewPomodoro(pomodoroConfig(4))
	next, effects := pomodoro.Poll(epoch.Add(time.Minute))
	assert.Empty(t, effects)
	assert.Equal(t, pomodoro.Snapshot(), next.Snapshot())
}
