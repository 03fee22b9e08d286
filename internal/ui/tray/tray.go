package tray

import (
	"fmt"

	"fyne.io/fyne/v2"

	"pomobell/internal/ui/statusview"
)

const menuTitle = "pomobell"

// TrayApp is the part of desktop.App the tray needs.
type TrayApp interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowForm      func()
	OnStartTimer    func()
	OnStartPomodoro func()
	OnReset         func()
	OnQuit          func()
}

// Manager handles system tray state.
type Manager struct {
	app           TrayApp
	callbacks     Callbacks
	statusItem    *fyne.MenuItem
	startTimer    *fyne.MenuItem
	startPomodoro *fyne.MenuItem
	resetItem     *fyne.MenuItem
	active        bool
}

// New creates a tray manager with the provided callbacks.
func New(app TrayApp, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: idle", nil)
	manager.statusItem.Disabled = true

	manager.startTimer = fyne.NewMenuItem("Start timer", func() { call(manager.callbacks.OnStartTimer) })
	manager.startPomodoro = fyne.NewMenuItem("Start pomodoro", func() { call(manager.callbacks.OnStartPomodoro) })
	manager.resetItem = fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) })
	manager.resetItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line and the enabled items. The menu is
// reinstalled only when its text or state changed. It must run on the fyne
// goroutine.
func (manager *Manager) SetStatus(view statusview.View) {
	label := fmt.Sprintf("Status: %s", view.Summary())
	if label == manager.statusItem.Label && view.Active == manager.active {
		return
	}
	manager.active = view.Active
	manager.statusItem.Label = label
	manager.resetItem.Disabled = !view.Active
	manager.refreshMenu()
}

// Active reports whether the last status had a running regime.
func (manager *Manager) Active() bool {
	return manager.active
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startTimer,
		manager.startPomodoro,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings", func() { call(manager.callbacks.OnShowForm) }),
		fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) }),
	))
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
