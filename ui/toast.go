package ui

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Toast shows a short-lived error message at the bottom centre of the screen.
type Toast struct {
	renderer *Renderer
	message  string
	until    time.Time
	ttl      time.Duration
}

// NewToast creates a toast that stays up for ttl after each Show.
func NewToast(ttl time.Duration) *Toast {
	return &Toast{renderer: NewRenderer(), ttl: ttl}
}

// Show replaces the current message.
func (t *Toast) Show(message string, now time.Time) {
	t.message = message
	t.until = now.Add(t.ttl)
}

// Draw renders the message if it has not expired.
func (t *Toast) Draw(now time.Time, screenW, screenH int32) {
	if t.message == "" || now.After(t.until) {
		return
	}
	th := t.renderer.Theme
	const fontSize = 16
	w := rl.MeasureText(t.message, fontSize) + 2*th.Padding
	h := int32(fontSize) + 2*th.Padding
	x := (screenW - w) / 2
	y := screenH - h - 60

	rl.DrawRectangle(x, y, w, h, th.ErrorBg)
	rl.DrawText(t.message, x+th.Padding, y+th.Padding, fontSize, rl.White)
}
