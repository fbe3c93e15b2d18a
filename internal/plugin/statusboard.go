// internal/plugin/statusboard.go
package plugin

import (
	"context"
	"fmt"
	"image"
	"time"

	"golang.org/x/image/font/basicfont"

	"github.com/epaperd/epaperd/internal/fleet"
)

// StatusBoard renders a dashboard of the whole fleet: live probe results
// combined with the passive delivery history. It holds no state of its
// own; every render queries fresh.
type StatusBoard struct {
	name    string
	status  StatusSource
	history HistorySource
	now     func() time.Time
}

// NewStatusBoard builds a status board over the given sources.
func NewStatusBoard(name string, status StatusSource, history HistorySource) *StatusBoard {
	return &StatusBoard{
		name:    name,
		status:  status,
		history: history,
		now:     time.Now,
	}
}

func (s *StatusBoard) Name() string {
	return s.name
}

func (s *StatusBoard) Generate(ctx context.Context, req Request) (image.Image, error) {
	snaps := s.status.QueryAll(ctx)
	records := s.history.AllHistory()

	// History is in registry order, same as snapshots.
	lastSuccess := make(map[string]string, len(records))
	counts := make(map[string]string, len(records))
	for _, nr := range records {
		lastSuccess[nr.Name] = "never"
		if nr.Record.LastSuccess != nil {
			lastSuccess[nr.Name] = nr.Record.LastSuccess.Format("15:04")
		}
		counts[nr.Name] = fmt.Sprintf("ok=%d err=%d", nr.Record.SuccessCount, nr.Record.ErrorCount)
	}

	img := newCanvas(req.Width, req.Height)

	line := basicfont.Face7x13.Height + 4
	y := line

	drawString(img, 8, y, black, "DISPLAY STATUS  "+s.now().Format("15:04"))
	y += line + line/2

	for _, snap := range snaps {
		state := "OFFLINE"
		col := black
		if snap.Reachable {
			state = "ONLINE"
		} else if req.Mode == fleet.ModeBWR {
			// Offline stands out in red on tri-color panels.
			col = red
		}

		detail := ""
		if snap.HasReport {
			detail = fmt.Sprintf(" %dx%d %s", snap.Width, snap.Height, snap.Mode)
		}
		if snap.Reachable {
			detail += fmt.Sprintf(" %dms", snap.Latency.Milliseconds())
		}

		drawString(img, 8, y, col, fmt.Sprintf("%-12s %-7s%s", snap.Name, state, detail))
		y += line
		drawString(img, 24, y, black,
			fmt.Sprintf("last ok %s  %s", lastSuccess[snap.Name], counts[snap.Name]))
		y += line + line/2

		if y > req.Height-line {
			break
		}
	}

	return img, nil
}
