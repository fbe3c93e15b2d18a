// internal/plugin/draw.go
package plugin

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

// newCanvas allocates a white WxH image, the blank panel state.
func newCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	return img
}

// drawString renders s with the built-in 7x13 face, dot at baseline (x, y).
func drawString(dst draw.Image, x, y int, col color.Color, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// stringWidth measures s in the built-in face.
func stringWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// drawStringScaled renders s at an integer scale factor, top-left anchored.
// E-ink panels want chunky high-contrast glyphs; nearest neighbor keeps
// the edges hard instead of introducing gray ramps the BW threshold
// would then eat.
func drawStringScaled(dst draw.Image, x, y, scale int, col color.Color, s string) {
	if scale <= 1 {
		drawString(dst, x, y+basicfont.Face7x13.Ascent, col, s)
		return
	}

	w := stringWidth(s)
	h := basicfont.Face7x13.Height
	tmp := newCanvas(w, h)
	drawString(tmp, 0, basicfont.Face7x13.Ascent, col, s)

	target := image.Rect(x, y, x+w*scale, y+h*scale)
	xdraw.NearestNeighbor.Scale(dst, target, tmp, tmp.Bounds(), xdraw.Over, nil)
}

// scaledStringSize reports the pixel box drawStringScaled will cover.
func scaledStringSize(s string, scale int) (w, h int) {
	if scale < 1 {
		scale = 1
	}
	return stringWidth(s) * scale, basicfont.Face7x13.Height * scale
}

// fitInto letterboxes src into a WxH canvas, preserving aspect ratio.
func fitInto(src image.Image, w, h int) *image.RGBA {
	dst := newCanvas(w, h)

	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return dst
	}

	scaleX := float64(w) / float64(sb.Dx())
	scaleY := float64(h) / float64(sb.Dy())
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	tw := int(float64(sb.Dx()) * scale)
	th := int(float64(sb.Dy()) * scale)
	x0 := (w - tw) / 2
	y0 := (h - th) / 2

	xdraw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+tw, y0+th), src, sb, xdraw.Over, nil)
	return dst
}
