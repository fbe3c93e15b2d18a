// internal/fleet/display.go
package fleet

import (
	"fmt"
	"net"
	"strconv"
)

// Mode is the color capability of a display panel.
type Mode uint8

const (
	// ModeBW is black/white, 1 bit per pixel.
	ModeBW Mode = iota
	// ModeBWR is tri-color black/white/red, two stacked 1-bit planes.
	ModeBWR
	// ModeGray is 4-level grayscale, 2 bits per pixel.
	ModeGray
)

func (m Mode) String() string {
	switch m {
	case ModeBWR:
		return "BWR"
	case ModeGray:
		return "GRAY"
	default:
		return "BW"
	}
}

// ParseMode maps the firmware's self-reported mode token to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "BW":
		return ModeBW, nil
	case "BWR":
		return ModeBWR, nil
	case "GRAY":
		return ModeGray, nil
	}
	return ModeBW, fmt.Errorf("fleet: unknown display mode %q", s)
}

// Display is one physical e-ink panel on the network.
// Created from static configuration at startup; immutable afterwards.
type Display struct {
	Name   string
	Host   string
	Port   int
	Width  int
	Height int
	Mode   Mode
}

// Addr returns the host:port of the display firmware.
func (d Display) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// UpdateURL is the firmware endpoint that accepts raw binary payloads.
func (d Display) UpdateURL() string {
	return "http://" + d.Addr() + "/update"
}

// StatusURL is the firmware endpoint that reports "EINK {W}x{H} {MODE}".
func (d Display) StatusURL() string {
	return "http://" + d.Addr() + "/"
}

// Resolution returns "WxH" as the firmware reports it.
func (d Display) Resolution() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

func (d Display) String() string {
	return fmt.Sprintf("Display(%s, %s %s @ %s)", d.Name, d.Resolution(), d.Mode, d.Addr())
}
