// internal/codec/encode.go

// Package codec converts rendered raster images into the binary payloads
// e-ink display firmware expects, and classifies payloads back into modes
// the way the firmware does. Pure transforms: no IO, no side effects.
package codec

import (
	"fmt"
	"image"
	"image/color"

	"github.com/epaperd/epaperd/internal/fleet"
)

// Pixel classification thresholds, locked to the firmware contract.
// 8-bit channel values.
const (
	blackMax = 60  // r,g,b all below => black
	redMin   = 150 // red channel floor for red detection

	grayWhiteMin = 192 // luma above => white (00)
	grayLightMin = 128 // luma above => light gray (01)
	grayDarkMin  = 64  // luma above => dark gray (10), else black (11)
)

// EncodingError marks a source image the codec cannot map onto a display.
// The update is skipped; delivery is never attempted with a bad payload.
type EncodingError struct {
	Display string
	Reason  string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("codec: display %q: %s", e.Display, e.Reason)
}

// PlaneSize is the byte length of one 1-bpp plane for a WxH panel.
// Rows are packed independently, so each row pads to a byte boundary.
func PlaneSize(w, h int) int {
	return h * ((w + 7) / 8)
}

// GraySize is the byte length of a 2-bpp grayscale payload for a WxH panel.
func GraySize(w, h int) int {
	return h * ((w + 3) / 4)
}

// Encode converts img into the wire payload for d's color mode.
// The image must be exactly the display's resolution; the codec never
// resizes or clamps, since a shifted byte alignment renders as noise.
func Encode(d fleet.Display, img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() != d.Width || b.Dy() != d.Height {
		return nil, &EncodingError{
			Display: d.Name,
			Reason: fmt.Sprintf("image is %dx%d, panel is %dx%d",
				b.Dx(), b.Dy(), d.Width, d.Height),
		}
	}

	switch d.Mode {
	case fleet.ModeBWR:
		return EncodeBWR(img), nil
	case fleet.ModeGray:
		return EncodeGray(img), nil
	default:
		return EncodeBW(img), nil
	}
}

// EncodeBW packs 1 bit per pixel, MSB first, row-major.
// A set bit means black: the firmware drives pigment on 1.
func EncodeBW(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	out := make([]byte, 0, PlaneSize(w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x += 8 {
			var packed byte
			for bit := 0; bit < 8 && x+bit < w; bit++ {
				r, g, bl := rgb8(img.At(b.Min.X+x+bit, b.Min.Y+y))
				if isBlack(r, g, bl) {
					packed |= 1 << (7 - bit)
				}
			}
			out = append(out, packed)
		}
	}
	return out
}

// EncodeBWR produces two independent 1-bpp planes: black first, then red.
// Each plane is exactly one BW payload; total length is 2x PlaneSize.
func EncodeBWR(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	plane := PlaneSize(w, h)
	out := make([]byte, 2*plane)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x += 8 {
			var blackByte, redByte byte
			for bit := 0; bit < 8 && x+bit < w; bit++ {
				r, g, bl := rgb8(img.At(b.Min.X+x+bit, b.Min.Y+y))
				switch {
				case isBlack(r, g, bl):
					blackByte |= 1 << (7 - bit)
				case isRed(r, g, bl):
					redByte |= 1 << (7 - bit)
				}
			}
			out[i] = blackByte
			out[plane+i] = redByte
			i++
		}
	}
	return out
}

// EncodeGray packs 2 bits per pixel, 4 pixels per byte, MSB first.
// Bit pairs: 00 white, 01 light gray, 10 dark gray, 11 black.
func EncodeGray(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	out := make([]byte, 0, GraySize(w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x += 4 {
			var packed byte
			for i := 0; i < 4 && x+i < w; i++ {
				level := grayLevel(img.At(b.Min.X+x+i, b.Min.Y+y))
				packed |= byte(level) << (6 - i*2)
			}
			out = append(out, packed)
		}
	}
	return out
}

// GrayLevel is one of the four firmware brightness buckets.
type GrayLevel uint8

const (
	GrayWhite GrayLevel = 0 // 00
	GrayLight GrayLevel = 1 // 01
	GrayDark  GrayLevel = 2 // 10
	GrayBlack GrayLevel = 3 // 11
)

func grayLevel(c color.Color) GrayLevel {
	luma := color.GrayModel.Convert(c).(color.Gray).Y
	switch {
	case luma > grayWhiteMin:
		return GrayWhite
	case luma > grayLightMin:
		return GrayLight
	case luma > grayDarkMin:
		return GrayDark
	default:
		return GrayBlack
	}
}

func rgb8(c color.Color) (r, g, b uint8) {
	r16, g16, b16, _ := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)
}

func isBlack(r, g, b uint8) bool {
	return r < blackMax && g < blackMax && b < blackMax
}

func isRed(r, g, b uint8) bool {
	return r > redMin && float64(r) > float64(g)*1.5 && float64(r) > float64(b)*1.5
}
