package preferences

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomobell/internal/core/model"
	"pomobell/internal/core/schedule"
	"pomobell/internal/ui/statusview"
)

// Actions are invoked by the form buttons. Start actions receive the
// settings parsed from the form; an error is shown under the buttons.
type Actions struct {
	OnStartTimer    func(model.Settings) error
	OnStartPomodoro func(model.Settings) error
	OnReset         func()
}

// Window is the popup form: regime settings, start and reset buttons,
// and the live countdown.
type Window struct {
	window   fyne.Window
	settings model.Settings
	actions  Actions

	interval    *widget.Entry
	repetitions *widget.Entry
	sound       *widget.Check
	work        *widget.Entry
	shortBreak  *widget.Entry
	longBreak   *widget.Entry
	pomodoros   *widget.Entry

	startTimer    *widget.Button
	startPomodoro *widget.Button
	reset         *widget.Button

	timeLeft  *widget.Label
	cycles    *widget.Label
	phase     *widget.Label
	progress  *widget.ProgressBar
	errorText *widget.Label
}

// New creates the popup window without showing it.
func New(app fyne.App, settings model.Settings, actions Actions) *Window {
	window := app.NewWindow("pomobell")

	prefs := &Window{
		window:      window,
		settings:    settings,
		actions:     actions,
		interval:    widget.NewEntry(),
		repetitions: widget.NewEntry(),
		sound:       widget.NewCheck("Play sound", nil),
		work:        widget.NewEntry(),
		shortBreak:  widget.NewEntry(),
		longBreak:   widget.NewEntry(),
		pomodoros:   widget.NewEntry(),
		timeLeft:    widget.NewLabel(statusview.NoTime),
		cycles:      widget.NewLabel(statusview.NoCycles),
		phase:       widget.NewLabel(statusview.NoCycles),
		progress:    widget.NewProgressBar(),
		errorText:   widget.NewLabel(""),
	}
	prefs.progress.Max = 100
	prefs.errorText.Wrapping = fyne.TextWrapWord
	prefs.fillEntries(settings)

	prefs.startTimer = widget.NewButton("Start timer", prefs.handleStartTimer)
	prefs.startPomodoro = widget.NewButton("Start pomodoro", prefs.handleStartPomodoro)
	prefs.reset = widget.NewButton("Reset", prefs.handleReset)
	prefs.reset.Disable()

	timerForm := widget.NewForm(
		widget.NewFormItem("Interval (min)", prefs.interval),
		widget.NewFormItem("Repetitions", prefs.repetitions),
		widget.NewFormItem("", prefs.sound),
	)
	pomodoroForm := widget.NewForm(
		widget.NewFormItem("Work (min)", prefs.work),
		widget.NewFormItem("Break (min)", prefs.shortBreak),
		widget.NewFormItem("Long break (min)", prefs.longBreak),
		widget.NewFormItem("Pomodoros", prefs.pomodoros),
	)
	tabs := container.NewAppTabs(
		container.NewTabItem("Timer", container.NewVBox(timerForm, prefs.startTimer)),
		container.NewTabItem("Pomodoro", container.NewVBox(pomodoroForm, prefs.startPomodoro)),
	)

	status := container.NewVBox(
		widget.NewLabelWithStyle("Status", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2,
			widget.NewLabel("Time left"), prefs.timeLeft,
			widget.NewLabel("Cycle"), prefs.cycles,
			widget.NewLabel("Phase"), prefs.phase,
		),
		prefs.progress,
		container.NewHBox(layout.NewSpacer(), prefs.reset),
		prefs.errorText,
	)

	window.SetContent(container.NewBorder(tabs, nil, nil, nil, status))
	window.Resize(fyne.NewSize(380, 440))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the popup.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Settings returns the last values accepted by a start button.
func (prefs *Window) Settings() model.Settings {
	return prefs.settings
}

// ShowStatus renders snapshot at now. Safe from any goroutine.
func (prefs *Window) ShowStatus(snapshot schedule.Snapshot, now time.Time) {
	view := statusview.FromSnapshot(snapshot, now)
	fyne.Do(func() {
		prefs.showViewUnsafe(view)
	})
}

func (prefs *Window) showViewUnsafe(view statusview.View) {
	prefs.timeLeft.SetText(view.TimeLeft)
	prefs.cycles.SetText(view.Cycles)
	if view.Phase != "" {
		prefs.phase.SetText(view.Phase)
	} else {
		prefs.phase.SetText(statusview.NoCycles)
	}
	prefs.progress.SetValue(view.Progress)
	prefs.setRunningUnsafe(view.Active)
}

// setRunningUnsafe disables the start buttons while a regime runs.
func (prefs *Window) setRunningUnsafe(running bool) {
	if running {
		prefs.startTimer.Disable()
		prefs.startPomodoro.Disable()
		prefs.reset.Enable()
		return
	}
	prefs.startTimer.Enable()
	prefs.startPomodoro.Enable()
	prefs.reset.Disable()
}

func (prefs *Window) fillEntries(settings model.Settings) {
	prefs.interval.SetText(minutesText(settings.TimerInterval))
	prefs.repetitions.SetText(itoa(settings.TimerRepetitions))
	prefs.sound.SetChecked(settings.TimerSound)
	prefs.work.SetText(minutesText(settings.Work))
	prefs.shortBreak.SetText(minutesText(settings.Break))
	prefs.longBreak.SetText(minutesText(settings.LongBreak))
	prefs.pomodoros.SetText(itoa(settings.Pomodoros))
}

func (prefs *Window) handleStartTimer() {
	settings, err := timerEntries{
		interval:    prefs.interval.Text,
		repetitions: prefs.repetitions.Text,
		sound:       prefs.sound.Checked,
	}.apply(prefs.settings)
	prefs.start(settings, err, prefs.actions.OnStartTimer)
}

func (prefs *Window) handleStartPomodoro() {
	settings, err := pomodoroEntries{
		work:      prefs.work.Text,
		short:     prefs.shortBreak.Text,
		long:      prefs.longBreak.Text,
		pomodoros: prefs.pomodoros.Text,
	}.apply(prefs.settings)
	prefs.start(settings, err, prefs.actions.OnStartPomodoro)
}

func (prefs *Window) start(settings model.Settings, err error, action func(model.Settings) error) {
	if err == nil && action != nil {
		err = action(settings)
	}
	if err != nil {
		prefs.errorText.SetText(err.Error())
		return
	}
	prefs.errorText.SetText("")
	prefs.settings = settings
	prefs.setRunningUnsafe(true)
}

func (prefs *Window) handleReset() {
	if prefs.actions.OnReset != nil {
		prefs.actions.OnReset()
	}
	prefs.errorText.SetText("")
	prefs.showViewUnsafe(statusview.Idle())
}
