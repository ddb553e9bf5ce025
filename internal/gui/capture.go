package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/verte-zerg/reactrain/internal/input"
)

var (
	_ fyne.Focusable    = (*captureArea)(nil)
	_ fyne.Tappable     = (*captureArea)(nil)
	_ desktop.Mouseable = (*captureArea)(nil)
)

// captureArea wraps content and turns key and mouse presses over it into input
// events. Keys arrive only while the area holds focus, so a press focuses it.
type captureArea struct {
	widget.BaseWidget
	canvas     func() fyne.Canvas
	publish    func(input.Event)
	focused    bool
	background *canvas.Rectangle
	content    fyne.CanvasObject
}

func newCaptureArea(content fyne.CanvasObject, publish func(input.Event), canvasOf func() fyne.Canvas) *captureArea {
	c := &captureArea{
		canvas:     canvasOf,
		publish:    publish,
		background: canvas.NewRectangle(color.NRGBA{R: 25, G: 25, B: 35, A: 255}),
		content:    content,
	}
	c.ExtendBaseWidget(c)
	return c
}

func (c *captureArea) CreateRenderer() fyne.WidgetRenderer {
	return &captureRenderer{background: c.background, content: c.content}
}

type captureRenderer struct {
	background *canvas.Rectangle
	content    fyne.CanvasObject
}

func (r *captureRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.content.Resize(size)
}

func (r *captureRenderer) MinSize() fyne.Size {
	return r.content.MinSize()
}

func (r *captureRenderer) Refresh() {
	r.background.Refresh()
	r.content.Refresh()
}

func (r *captureRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.content}
}

func (r *captureRenderer) Destroy() {}

func (c *captureArea) FocusGained() { c.focused = true }

func (c *captureArea) FocusLost() { c.focused = false }

func (c *captureArea) focus() {
	if c.canvas == nil {
		return
	}
	if cv := c.canvas(); cv != nil {
		cv.Focus(c)
	}
}

func (c *captureArea) Tapped(*fyne.PointEvent) {
	c.focus()
}

// TypedKey receives every named key, letters included.
func (c *captureArea) TypedKey(key *fyne.KeyEvent) {
	if ev, ok := input.FromFyneKey(key.Name); ok {
		c.publish(ev)
	}
}

// TypedRune is ignored; TypedKey already reported the physical key.
func (c *captureArea) TypedRune(rune) {}

func (c *captureArea) MouseDown(e *desktop.MouseEvent) {
	c.focus()
	c.publish(input.FromFyneButton(e.Button))
}

func (c *captureArea) MouseUp(*desktop.MouseEvent) {}
