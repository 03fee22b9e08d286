// Package gui runs the desktop front end: tray menu, popup form, progress
// bar window and desktop notifications, all driving one Runtime.
package gui

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"pomobell/internal/app"
	"pomobell/internal/core/model"
	"pomobell/internal/platform"
	"pomobell/internal/sound"
	"pomobell/internal/storage"
	"pomobell/internal/ui/notification"
	"pomobell/internal/ui/preferences"
	"pomobell/internal/ui/progressbar"
	"pomobell/internal/ui/statusview"
	"pomobell/internal/ui/tray"
	"pomobell/resources"
)

const appID = "io.pomobell.app"

// ErrTrayUnsupported is returned when the platform has no system tray.
var ErrTrayUnsupported = errors.New("system tray unsupported on this platform")

// Options configures Run.
type Options struct {
	// Serve also exposes the HTTP API so CLI commands can drive the tray app.
	Serve bool
	// Volume is passed to the sound player; 0 keeps the files' level.
	Volume float64
}

// Run blocks in the fyne event loop until the user quits or ctx ends. If
// another instance is running it is asked to show its form instead.
func Run(ctx context.Context, rt *app.Runtime, opts Options) error {
	guard, err := platform.AcquireSingleInstance(app.Name)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			rt.Logger.Info("already running, activating existing instance")
			return platform.SignalRunning(app.Name)
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fyneApp := fyneapp.NewWithID(appID)
	icon := resources.MustIcon(resources.IconFile)
	fyneApp.SetIcon(icon)
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return ErrTrayUnsupported
	}

	trayWindow := fyneApp.NewWindow(app.Name)
	trayWindow.SetContent(widget.NewLabel("pomobell is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	settings, err := storage.LoadSettings(app.Name)
	if err != nil {
		rt.Logger.Warn("load settings, using defaults", "error", err)
	}

	keeper := rt.Keeper
	keeper.SetRenderer(progressbar.New(fyneApp, nil))
	rt.SetNotifier(
		notification.New(fyneApp),
		sound.NewPlayer(resources.Sounds(), opts.Volume, rt.Logger),
	)

	startTimer := func(settings model.Settings) error {
		if _, err := keeper.StartTimer(settings.TimerConfig(time.Time{})); err != nil {
			return err
		}
		saveSettings(rt, settings)
		return nil
	}
	startPomodoro := func(settings model.Settings) error {
		if _, err := keeper.StartPomodoro(settings.PomodoroConfig(time.Time{})); err != nil {
			return err
		}
		saveSettings(rt, settings)
		return nil
	}

	prefs := preferences.New(fyneApp, settings, preferences.Actions{
		OnStartTimer:    startTimer,
		OnStartPomodoro: startPomodoro,
		OnReset:         keeper.ResetTimer,
	})
	restoreStatus(ctx, rt, prefs)

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnShowForm: prefs.Show,
		OnStartTimer: func() {
			if err := startTimer(prefs.Settings()); err != nil {
				rt.Logger.Warn("start timer from tray", "error", err)
			}
		},
		OnStartPomodoro: func() {
			if err := startPomodoro(prefs.Settings()); err != nil {
				rt.Logger.Warn("start pomodoro from tray", "error", err)
			}
		},
		OnReset: keeper.ResetPomodoro,
		OnQuit:  fyneApp.Quit,
	})
	desktopApp.SetSystemTrayIcon(icon)

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			view := statusview.FromSnapshot(event.Status, event.At)
			fyne.Do(func() {
				trayManager.SetStatus(view)
			})
			prefs.ShowStatus(event.Status, event.At)
		}
	}()

	go guard.Serve(func() {
		fyne.Do(prefs.Show)
	})

	if opts.Serve {
		go func() {
			if err := rt.ListenAndServe(ctx); err != nil {
				rt.Logger.Error("http server", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	prefs.Show()
	fyneApp.Run()
	return nil
}

// restoreStatus shows the last stored status once when the form opens.
func restoreStatus(ctx context.Context, rt *app.Runtime, prefs *preferences.Window) {
	status, err := rt.Store.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNoStatus) {
			rt.Logger.Warn("load last status", "error", err)
		}
		return
	}
	snapshot, err := status.Snapshot()
	if err != nil {
		rt.Logger.Warn("decode last status", "error", err)
		return
	}
	prefs.ShowStatus(snapshot, time.Now())
}

func saveSettings(rt *app.Runtime, settings model.Settings) {
	if err := storage.SaveSettings(app.Name, settings); err != nil {
		rt.Logger.Warn("save settings", "error", err)
	}
}
