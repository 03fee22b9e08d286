// Package progressbar renders the running phase as a thin coloured bar in
// an undecorated window. It implements timekeeper.Renderer.
package progressbar

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"pomobell/internal/core/schedule"
	"pomobell/internal/ui/statusview"
)

const (
	barWidth  = float32(360)
	barHeight = float32(28)
)

var trackColor = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xd0}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the progress bar window.
type Window struct {
	window fyne.Window
	fill   *canvas.Rectangle
	label  *canvas.Text
	layout *fractionLayout
	now    func() time.Time
	shown  bool
}

// New creates a hidden progress bar window. now defaults to time.Now.
func New(app fyne.App, now func() time.Time) *Window {
	if now == nil {
		now = time.Now
	}

	window := app.NewWindow("pomobell")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	track := canvas.NewRectangle(trackColor)
	fill := canvas.NewRectangle(statusview.WorkColor)
	label := canvas.NewText(statusview.NoTime, color.White)
	label.Alignment = fyne.TextAlignCenter
	label.TextStyle = fyne.TextStyle{Bold: true}
	label.TextSize = 13

	fractionLayout := &fractionLayout{}
	bar := container.New(fractionLayout, fill)
	window.SetContent(container.NewStack(track, bar, label))
	window.Resize(fyne.NewSize(barWidth, barHeight))

	return &Window{
		window: window,
		fill:   fill,
		label:  label,
		layout: fractionLayout,
		now:    now,
	}
}

// UpdateProgress shows the window and draws snapshot. Safe from any goroutine.
func (bar *Window) UpdateProgress(snapshot schedule.Snapshot) {
	view := statusview.FromSnapshot(snapshot, bar.now())
	fyne.Do(func() {
		bar.applyUnsafe(view)
	})
}

// RemoveProgress hides the window. Safe from any goroutine.
func (bar *Window) RemoveProgress() {
	fyne.Do(bar.hideUnsafe)
}

func (bar *Window) applyUnsafe(view statusview.View) {
	if !view.Active {
		bar.hideUnsafe()
		return
	}

	bar.layout.fraction = float32(view.Progress / 100)
	bar.fill.FillColor = view.Color
	bar.label.Text = view.Summary()
	bar.fill.Refresh()
	bar.label.Refresh()
	bar.window.Content().Refresh()

	if !bar.shown {
		bar.shown = true
		bar.window.Show()
	}
}

func (bar *Window) hideUnsafe() {
	bar.layout.fraction = 0
	bar.label.Text = statusview.NoTime
	if bar.shown {
		bar.shown = false
		bar.window.Hide()
	}
}

// fractionLayout stretches its single child over a fraction of the width.
type fractionLayout struct {
	fraction float32
}

func (layout *fractionLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) == 0 {
		return
	}
	fraction := layout.fraction
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	objects[0].Move(fyne.NewPos(0, 0))
	objects[0].Resize(fyne.NewSize(size.Width*fraction, size.Height))
}

func (layout *fractionLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(barWidth, barHeight)
}
