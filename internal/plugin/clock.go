// internal/plugin/clock.go
package plugin

import (
	"context"
	"image"
	"time"
)

// Clock renders a large time-and-date board. It needs no network and no
// collaborators, which also makes it the default smoke-test content for
// a freshly wired panel.
type Clock struct {
	name string
	now  func() time.Time
}

// NewClock builds a clock generator.
func NewClock(name string) *Clock {
	return &Clock{name: name, now: time.Now}
}

func (c *Clock) Name() string {
	return c.name
}

func (c *Clock) Generate(_ context.Context, req Request) (image.Image, error) {
	img := newCanvas(req.Width, req.Height)
	now := c.now()

	timeStr := now.Format("15:04")
	dateStr := now.Format("Monday, January 2")

	// Scale the time to roughly half the panel width.
	scale := req.Width / (2 * stringWidth(timeStr))
	if scale < 1 {
		scale = 1
	}
	tw, th := scaledStringSize(timeStr, scale)
	drawStringScaled(img, (req.Width-tw)/2, req.Height/2-th, scale, black, timeStr)

	dateScale := scale / 3
	if dateScale < 1 {
		dateScale = 1
	}
	dw, _ := scaledStringSize(dateStr, dateScale)
	drawStringScaled(img, (req.Width-dw)/2, req.Height/2+th/4, dateScale, black, dateStr)

	return img, nil
}
