package schedule

// EffectType names an observable consequence of a poll.
type EffectType string

const (
	EffectNotify   EffectType = "notify"
	EffectAdvance  EffectType = "advance"
	EffectComplete EffectType = "complete"
)

// NotificationKind selects the notification wording.
type NotificationKind string

const (
	NotifyInterval      NotificationKind = "interval"
	NotifyWorkComplete  NotificationKind = "work_complete"
	NotifyBreakComplete NotificationKind = "break_complete"
)

// Notification describes a notification the driver must deliver.
type Notification struct {
	Kind      NotificationKind
	Regime    Regime
	Cycle     int
	Total     int
	LongBreak bool
	PlaySound bool
}

// Effect is produced by Poll and executed by the driver.
type Effect struct {
	Type         EffectType
	Regime       Regime
	Notification Notification
	// Phase and Cycle carry the state entered by an advance effect.
	Phase Phase
	Cycle int
}

func notifyEffect(notification Notification) Effect {
	return Effect{Type: EffectNotify, Regime: notification.Regime, Notification: notification}
}

func advanceEffect(regime Regime, phase Phase, cycle int) Effect {
	return Effect{Type: EffectAdvance, Regime: regime, Phase: phase, Cycle: cycle}
}

func completeEffect(regime Regime) Effect {
	return Effect{Type: EffectComplete, Regime: regime}
}
