package timekeeper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"pomobell/internal/core/model"
	"pomobell/internal/core/schedule"
	"pomobell/internal/logging"
	"pomobell/internal/metrics"
	"pomobell/internal/notify"
)

// ErrClosed is returned by start commands after Close.
var ErrClosed = errors.New("timekeeper closed")

// Clock supplies the observation time for polls.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Renderer draws the progress bar for the active regime.
type Renderer interface {
	UpdateProgress(status schedule.Snapshot)
	RemoveProgress()
}

type nopRenderer struct{}

func (nopRenderer) UpdateProgress(schedule.Snapshot) {}
func (nopRenderer) RemoveProgress()                  {}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Clock        Clock
	Logger       *slog.Logger
	Metrics      metrics.Recorder
	Composer     *notify.Composer
	// NotifyTimeout bounds a single notifier call.
	NotifyTimeout time.Duration
}

// TimeKeeper owns the single active regime and polls it on a fixed cadence.
// Commands and polls serialize on mu; a poll that belongs to a replaced or
// reset regime is dropped by comparing generations.
type TimeKeeper struct {
	mu         sync.Mutex
	options    Config
	active     schedule.Machine
	generation uint64
	stopCh     chan struct{}
	notifier   notify.Notifier
	renderer   Renderer
	events     []subscriber
	closed     bool
}

// subscriber is an observer channel. A latest subscriber keeps only the
// newest undelivered event instead of dropping new ones.
type subscriber struct {
	ch     chan Event
	latest bool
}

// delivery is a notification composed under mu and sent after it is released.
type delivery struct {
	notification schedule.Notification
	msg          notify.Message
}

// New creates a TimeKeeper with no active regime.
func New(options Config) (*TimeKeeper, error) {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.NotifyTimeout <= 0 {
		options.NotifyTimeout = 5 * time.Second
	}
	if options.Clock == nil {
		options.Clock = systemClock{}
	}
	if options.Logger == nil {
		options.Logger = logging.NewNop()
	}
	if options.Metrics == nil {
		options.Metrics = metrics.Nop{}
	}
	if options.Composer == nil {
		composer, err := notify.NewComposer("en")
		if err != nil {
			return nil, err
		}
		options.Composer = composer
	}

	return &TimeKeeper{
		options:  options,
		notifier: notify.LogNotifier{Logger: options.Logger},
		renderer: nopRenderer{},
	}, nil
}

// SetNotifier injects the notification backend.
func (keeper *TimeKeeper) SetNotifier(notifier notify.Notifier) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.notifier = notifier
}

// SetRenderer injects the progress bar renderer.
func (keeper *TimeKeeper) SetRenderer(renderer Renderer) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if renderer == nil {
		renderer = nopRenderer{}
	}
	keeper.renderer = renderer
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	return keeper.subscribe(buffer, false)
}

// SubscribeLatest registers an observer that always receives the most recent
// event: when the reader falls behind, the pending event is replaced.
func (keeper *TimeKeeper) SubscribeLatest() <-chan Event {
	return keeper.subscribe(1, true)
}

func (keeper *TimeKeeper) subscribe(buffer int, latest bool) <-chan Event {
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, subscriber{ch: ch, latest: latest})
	return ch
}

// Unsubscribe removes and closes an observer channel.
func (keeper *TimeKeeper) Unsubscribe(events <-chan Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	for index, sub := range keeper.events {
		if sub.ch == events {
			keeper.events = append(keeper.events[:index], keeper.events[index+1:]...)
			close(sub.ch)
			return
		}
	}
}

// Status returns the active snapshot, or nil when nothing runs.
func (keeper *TimeKeeper) Status() schedule.Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.active == nil {
		return nil
	}
	return keeper.active.Snapshot()
}

// StartTimer replaces whatever runs with an interval timer and returns its
// initial snapshot. An invalid config leaves the current regime untouched.
func (keeper *TimeKeeper) StartTimer(config model.TimerConfig) (schedule.Snapshot, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.StartTime.IsZero() {
		config.StartTime = keeper.options.Clock.Now()
	}
	return keeper.start(schedule.NewTimer(config))
}

// StartPomodoro replaces whatever runs with a pomodoro cycle and returns its
// initial snapshot. An invalid config leaves the current regime untouched.
func (keeper *TimeKeeper) StartPomodoro(config model.PomodoroConfig) (schedule.Snapshot, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.StartTime.IsZero() {
		config.StartTime = keeper.options.Clock.Now()
	}
	return keeper.start(schedule.NewPomodoro(config))
}

// ResetTimer tears down the active regime, whichever it is.
func (keeper *TimeKeeper) ResetTimer() {
	keeper.reset(schedule.RegimeTimer)
}

// ResetPomodoro tears down the active regime, whichever it is.
func (keeper *TimeKeeper) ResetPomodoro() {
	keeper.reset(schedule.RegimePomodoro)
}

// Close stops polling and closes observers. An active regime is torn down
// like a reset, so observers see the absent broadcast before their channel closes.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	if keeper.active != nil {
		regime := keeper.active.Regime()
		keeper.options.Metrics.RegimeStopped(string(regime), metrics.ReasonReset)
		keeper.stopLocked()
		keeper.teardownLocked(regime, keeper.options.Clock.Now())
	}
	keeper.closed = true
	for _, sub := range keeper.events {
		close(sub.ch)
	}
	keeper.events = nil
}

func (keeper *TimeKeeper) start(machine schedule.Machine) (schedule.Snapshot, error) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return nil, ErrClosed
	}

	if keeper.active != nil {
		replaced := keeper.active.Regime()
		keeper.stopLocked()
		keeper.options.Metrics.RegimeStopped(string(replaced), metrics.ReasonReplaced)
		keeper.options.Logger.Info("regime replaced", "regime", replaced)
	}

	keeper.generation++
	keeper.active = machine
	keeper.stopCh = make(chan struct{})
	go keeper.run(keeper.generation, keeper.stopCh)

	regime := machine.Regime()
	snapshot := machine.Snapshot()
	keeper.options.Metrics.RegimeStarted(string(regime))
	keeper.options.Metrics.SetActive(string(regime))
	keeper.options.Logger.Info("regime started",
		"regime", regime,
		"deadline", snapshot.Deadline(),
	)

	keeper.publishLocked(snapshot, keeper.options.Clock.Now())
	return snapshot, nil
}

func (keeper *TimeKeeper) reset(requested schedule.Regime) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	regime := requested
	if keeper.active != nil {
		regime = keeper.active.Regime()
		keeper.stopLocked()
		keeper.options.Metrics.RegimeStopped(string(regime), metrics.ReasonReset)
		keeper.options.Logger.Info("regime reset", "regime", regime)
	}
	keeper.teardownLocked(regime, keeper.options.Clock.Now())
}

func (keeper *TimeKeeper) run(generation uint64, stopCh <-chan struct{}) {
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			keeper.tick(generation)
		}
	}
}

// tick polls the machine of the given generation once. Notifications are
// delivered after mu is released so slow backends never hold up commands.
func (keeper *TimeKeeper) tick(generation uint64) {
	keeper.mu.Lock()
	if keeper.active == nil || generation != keeper.generation {
		keeper.mu.Unlock()
		return
	}

	now := keeper.options.Clock.Now()
	regime := keeper.active.Regime()
	next, effects := keeper.active.Poll(now)
	keeper.options.Metrics.Polled(string(regime))
	deliveries := keeper.applyEffectsLocked(effects)
	notifier := keeper.notifier

	if next == nil {
		keeper.stopLocked()
		keeper.options.Metrics.RegimeStopped(string(regime), metrics.ReasonCompleted)
		keeper.teardownLocked(regime, now)
	} else {
		keeper.active = next
		keeper.publishLocked(next.Snapshot(), now)
	}
	keeper.mu.Unlock()

	for _, d := range deliveries {
		keeper.deliver(notifier, d)
	}
}

func (keeper *TimeKeeper) applyEffectsLocked(effects []schedule.Effect) []delivery {
	var deliveries []delivery
	for _, effect := range effects {
		switch effect.Type {
		case schedule.EffectNotify:
			deliveries = append(deliveries, delivery{
				notification: effect.Notification,
				msg:          keeper.options.Composer.Compose(effect.Notification),
			})
		case schedule.EffectAdvance:
			keeper.options.Logger.Debug("regime advanced",
				"regime", effect.Regime,
				"phase", effect.Phase,
				"cycle", effect.Cycle,
			)
		case schedule.EffectComplete:
			keeper.options.Logger.Info("regime completed", "regime", effect.Regime)
		}
	}
	return deliveries
}

func (keeper *TimeKeeper) deliver(notifier notify.Notifier, d delivery) {
	notification := d.notification
	ctx, cancel := context.WithTimeout(context.Background(), keeper.options.NotifyTimeout)
	defer cancel()

	if err := notifier.Notify(ctx, d.msg); err != nil {
		keeper.options.Logger.Warn("notification failed",
			"regime", notification.Regime,
			"kind", notification.Kind,
			"error", err,
		)
		return
	}
	keeper.options.Metrics.NotificationSent(string(notification.Regime), string(notification.Kind))
}

// stopLocked cancels the poll loop and discards the machine. Bumping the
// generation makes any tick already waiting on mu a no-op.
func (keeper *TimeKeeper) stopLocked() {
	if keeper.stopCh != nil {
		close(keeper.stopCh)
		keeper.stopCh = nil
	}
	keeper.active = nil
	keeper.generation++
}

func (keeper *TimeKeeper) publishLocked(snapshot schedule.Snapshot, now time.Time) {
	keeper.renderer.UpdateProgress(snapshot)
	keeper.emitLocked(Event{
		Type:   EventTypeFor(snapshot.Regime()),
		Regime: snapshot.Regime(),
		Status: snapshot,
		At:     now,
	})
}

func (keeper *TimeKeeper) teardownLocked(regime schedule.Regime, now time.Time) {
	keeper.options.Metrics.SetActive("")
	keeper.renderer.RemoveProgress()
	keeper.emitLocked(Event{
		Type:   EventTypeFor(regime),
		Regime: regime,
		At:     now,
	})
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, sub := range keeper.events {
		select {
		case sub.ch <- event:
			continue
		default:
		}
		if !sub.latest {
			continue
		}
		// Only emitLocked sends, so after dropping the stale event there is room.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}
