// Package gui provides the fyne desktop trainer window.
package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/verte-zerg/reactrain/internal/input"
	"github.com/verte-zerg/reactrain/internal/keylist"
	"github.com/verte-zerg/reactrain/internal/trainer"
)

const (
	captureDelay = 200 * time.Millisecond
	helpText     = "Supports keyboard and mouse buttons. Settings apply instantly."
)

var (
	targetColor = color.NRGBA{R: 200, G: 154, B: 58, A: 255}
	idleColor   = color.NRGBA{R: 110, G: 110, B: 110, A: 255}
	hitColor    = color.NRGBA{R: 82, G: 196, B: 26, A: 255}
	missColor   = color.NRGBA{R: 255, G: 77, B: 79, A: 255}
)

// Options configures the desktop frontend.
type Options struct {
	// Feed receives presses over the practice area. Nil disables publishing.
	Feed *input.Feed
	// Record is listened on by the record dialog. Defaults to Feed.
	Record input.Source
	// Global marks that presses come from a global source.
	Global bool
	Log    *zap.Logger
}

// App is the trainer window. Every method runs on the fyne main goroutine except
// Deliver.
type App struct {
	window fyne.Window
	ctrl   *trainer.Controller
	timer  *Timer
	feed   *input.Feed
	record input.Source
	global bool
	log    *zap.Logger

	target  *canvas.Text
	flash   *canvas.Text
	stats   *widget.Label
	status  *widget.Label
	toggle  *widget.Button
	list    *widget.List
	delay   binding.Float
	capture *captureArea

	selected int
	modal    bool
}

// New builds the trainer window. timer must be the Timer that ctrl was built with.
func New(fa fyne.App, ctrl *trainer.Controller, timer *Timer, opts Options) *App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	record := opts.Record
	if record == nil && opts.Feed != nil {
		record = opts.Feed
	}
	fa.Settings().SetTheme(darkTheme{Theme: theme.DefaultTheme()})
	a := &App{
		window:   fa.NewWindow("reactrain"),
		ctrl:     ctrl,
		timer:    timer,
		feed:     opts.Feed,
		record:   record,
		global:   opts.Global,
		log:      log.Named("gui"),
		selected: -1,
	}
	timer.expire = func() {
		a.ctrl.Expire()
		a.refresh()
	}
	a.window.Resize(fyne.NewSize(820, 520))
	a.setupUI()
	a.refresh()
	return a
}

// Window returns the trainer window.
func (a *App) Window() fyne.Window {
	return a.window
}

// ShowAndRun shows the window and runs the fyne event loop.
func (a *App) ShowAndRun() {
	a.window.ShowAndRun()
}

// Deliver hands a press from any goroutine to the window.
func (a *App) Deliver(ev input.Event) {
	fyne.Do(func() { a.HandleInput(ev) })
}

// HandleInput evaluates a press unless a dialog is open.
func (a *App) HandleInput(ev input.Event) {
	if a.modal {
		return
	}
	switch a.ctrl.Input(ev) {
	case trainer.OutcomeHit:
		lat := a.ctrl.Stats().Latencies()
		a.setFlash(fmt.Sprintf("Hit %.0f ms", lat[len(lat)-1]), hitColor)
	case trainer.OutcomeMiss:
		a.setFlash("Miss: "+ev.Name, missColor)
	default:
		return
	}
	a.refresh()
}

func (a *App) publish(ev input.Event) {
	if a.global || a.feed == nil {
		return
	}
	a.feed.Publish(ev)
}

func (a *App) setupUI() {
	title := canvas.NewText("reactrain", targetColor)
	title.TextSize = 22
	title.TextStyle = fyne.TextStyle{Bold: true}

	a.target = canvas.NewText("—", idleColor)
	a.target.TextSize = 72
	a.target.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	a.target.Alignment = fyne.TextAlignCenter

	a.flash = canvas.NewText("", hitColor)
	a.flash.TextSize = 20
	a.flash.Alignment = fyne.TextAlignCenter

	hint := canvas.NewText("Click here, then press keys or mouse buttons", idleColor)
	hint.TextSize = 12
	hint.Alignment = fyne.TextAlignCenter

	arena := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(a.target),
		container.NewCenter(a.flash),
		layout.NewSpacer(),
		container.NewCenter(hint),
	)
	a.capture = newCaptureArea(container.NewPadded(arena), a.publish, a.window.Canvas)

	a.stats = widget.NewLabel("")
	a.status = widget.NewLabel("")

	a.toggle = widget.NewButton("Start", a.onToggle)
	skip := widget.NewButton("Skip", func() {
		a.ctrl.Next()
		a.refresh()
		a.capture.focus()
	})
	reset := widget.NewButton("Reset stats", func() {
		a.ctrl.ResetStats()
		a.setFlash("", hitColor)
		a.refresh()
		a.capture.focus()
	})

	a.delay = binding.NewFloat()
	_ = a.delay.Set(float64(a.ctrl.Delay().Milliseconds()))
	slider := widget.NewSliderWithData(
		float64(trainer.MinDelay.Milliseconds()),
		float64(trainer.MaxDelay.Milliseconds()),
		a.delay)
	slider.Step = 10
	delayEntry := widget.NewEntryWithData(binding.FloatToStringWithFormat(a.delay, "%.0f"))
	a.delay.AddListener(binding.NewDataListener(a.delayChanged))
	delayRow := container.NewBorder(nil, nil,
		widget.NewLabel("Delay (ms)"),
		container.NewGridWrap(fyne.NewSize(80, delayEntry.MinSize().Height), delayEntry),
		slider)

	a.list = widget.NewList(
		func() int { return len(a.ctrl.Targets()) },
		func() fyne.CanvasObject { return widget.NewLabel("MOUSE_MIDDLE") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			targets := a.ctrl.Targets()
			if id < len(targets) {
				obj.(*widget.Label).SetText(targets[id])
			}
		})
	a.list.OnSelected = func(id widget.ListItemID) { a.selected = id }
	a.list.OnUnselected = func(widget.ListItemID) { a.selected = -1 }

	add := widget.NewButton("Add…", a.showAdd)
	record := widget.NewButton("Record key", a.showRecord)
	remove := widget.NewButton("Remove selected", a.onRemove)
	clearKeys := widget.NewButton("Clear keys", func() {
		a.ctrl.Clear()
		a.list.UnselectAll()
		a.selected = -1
		a.refresh()
	})
	side := container.NewBorder(
		widget.NewLabelWithStyle("Keys", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVBox(add, record, remove, clearKeys),
		nil, nil,
		a.list)

	top := container.NewHBox(title, layout.NewSpacer(), a.status)
	controls := container.NewVBox(
		a.stats,
		delayRow,
		container.NewGridWithColumns(3, a.toggle, skip, reset),
		widget.NewLabelWithStyle(helpText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	)
	body := container.NewBorder(top, controls, nil, nil, a.capture)
	split := container.NewHSplit(body, container.NewPadded(side))
	split.Offset = 0.72
	a.window.SetContent(split)
	a.window.Canvas().Focus(a.capture)
}

func (a *App) onToggle() {
	if err := a.ctrl.Toggle(); err != nil {
		if errors.Is(err, trainer.ErrNoTargets) {
			dialog.ShowInformation("Nothing to train", "Add at least one key or mouse button first.", a.window)
		}
		return
	}
	a.setFlash("", hitColor)
	a.refresh()
	a.capture.focus()
}

func (a *App) onRemove() {
	targets := a.ctrl.Targets()
	if a.selected < 0 || a.selected >= len(targets) {
		return
	}
	a.ctrl.Remove(targets[a.selected])
	a.list.UnselectAll()
	a.selected = -1
	a.refresh()
}

func (a *App) delayChanged() {
	v, err := a.delay.Get()
	if err != nil {
		return
	}
	applied := a.ctrl.SetDelay(time.Duration(v) * time.Millisecond)
	if ms := float64(applied.Milliseconds()); ms != v {
		_ = a.delay.Set(ms)
	}
}

func (a *App) showAdd() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("A, S, D, F, LMB")
	a.modal = true
	form := dialog.NewForm("Add keys", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Keys", entry)},
		func(ok bool) {
			a.modal = false
			if ok {
				a.ctrl.Add(keylist.ParseList(entry.Text)...)
			}
			a.refresh()
			a.capture.focus()
		}, a.window)
	form.Resize(fyne.NewSize(420, 160))
	form.Show()
	a.window.Canvas().Focus(entry)
}

// showRecord opens a dialog listening for exactly one press. The subscription is
// released when the dialog closes, whichever way it closes.
func (a *App) showRecord() {
	if a.record == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	prompt := widget.NewLabel("Press a key or mouse button… (Esc to cancel)")
	area := newCaptureArea(container.NewCenter(prompt), a.publish, a.window.Canvas)
	d := dialog.NewCustom("Record key", "Cancel", area, a.window)
	d.SetOnClosed(func() {
		cancel()
		a.modal = false
		a.refresh()
		a.capture.focus()
	})
	d.Resize(fyne.NewSize(380, 180))
	a.modal = true
	d.Show()
	area.focus()

	src := a.record
	go func() {
		ev, err := input.Record(ctx, src)
		fyne.Do(func() { a.recordDone(ctx, d, prompt, ev, err) })
	}()
}

func (a *App) recordDone(ctx context.Context, d dialog.Dialog, prompt *widget.Label, ev input.Event, err error) {
	switch {
	case err == nil:
		prompt.SetText("Captured: " + ev.Name)
		time.AfterFunc(captureDelay, func() {
			fyne.Do(func() {
				if ctx.Err() != nil {
					return
				}
				a.ctrl.Add(ev.Name)
				d.Hide()
			})
		})
	case errors.Is(err, input.ErrCanceled):
		d.Hide()
	case errors.Is(err, context.Canceled):
	default:
		a.log.Warn("recording failed", zap.Error(err))
		d.Hide()
		dialog.ShowError(fmt.Errorf("recording failed: %w", err), a.window)
	}
}

func (a *App) setFlash(text string, c color.Color) {
	a.flash.Text = text
	a.flash.Color = c
	a.flash.Refresh()
}

func (a *App) refresh() {
	current := a.ctrl.Current()
	if current == "" {
		a.target.Text = "—"
		a.target.Color = idleColor
	} else {
		a.target.Text = current
		a.target.Color = targetColor
	}
	a.target.Refresh()

	st := a.ctrl.Stats()
	avg := "—"
	if v, ok := st.Average(); ok {
		avg = fmt.Sprintf("%.0f ms", v)
	}
	a.stats.SetText(fmt.Sprintf("Hits: %d  Misses: %d  Avg reaction: %s", st.Hits(), st.Misses(), avg))

	if a.ctrl.Running() {
		a.toggle.SetText("Stop")
		a.status.SetText("Running")
	} else {
		a.toggle.SetText("Start")
		a.status.SetText("Stopped")
	}
	a.list.Refresh()
}

type darkTheme struct {
	fyne.Theme
}

func (t darkTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, theme.VariantDark)
}
