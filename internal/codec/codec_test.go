// internal/codec/codec_test.go
package codec

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epaperd/epaperd/internal/fleet"
)

var (
	pxWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	pxBlack = color.RGBA{A: 255}
	pxRed   = color.RGBA{R: 255, A: 255}
)

func makeImage(w, h int, at func(x, y int) color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, at(x, y))
		}
	}
	return img
}

func solid(c color.Color) func(x, y int) color.Color {
	return func(int, int) color.Color { return c }
}

// ---- length properties ----

func TestEncode_AllWhiteLengths(t *testing.T) {
	cases := []struct{ w, h int }{
		{648, 480},
		{800, 480},
		{400, 300},
		{480, 280},
		{296, 152},
	}
	for _, tc := range cases {
		img := makeImage(tc.w, tc.h, solid(pxWhite))

		bw := EncodeBW(img)
		assert.Len(t, bw, PlaneSize(tc.w, tc.h), "BW %dx%d", tc.w, tc.h)
		for _, b := range bw {
			require.Zero(t, b, "all-white BW payload must carry no black bits")
		}

		assert.Len(t, EncodeBWR(img), 2*PlaneSize(tc.w, tc.h), "BWR %dx%d", tc.w, tc.h)
		assert.Len(t, EncodeGray(img), GraySize(tc.w, tc.h), "GRAY %dx%d", tc.w, tc.h)
	}
}

func TestEncodeBWR_KitchenScenario(t *testing.T) {
	// 800x480 tricolor: an all-black image yields 2 x 48,000 bytes.
	img := makeImage(800, 480, solid(pxBlack))
	payload := EncodeBWR(img)
	assert.Len(t, payload, 96000)
}

// ---- round trips against the simulated firmware unpack ----

func TestRoundTrip_BWCheckerboard(t *testing.T) {
	const w, h = 64, 32
	img := makeImage(w, h, func(x, y int) color.Color {
		if (x+y)%2 == 0 {
			return pxBlack
		}
		return pxWhite
	})

	pixels, err := DecodeBW(w, h, EncodeBW(img))
	require.NoError(t, err)
	require.Len(t, pixels, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := (x+y)%2 == 0
			require.Equal(t, want, pixels[y*w+x], "pixel (%d,%d)", x, y)
		}
	}
}

func TestRoundTrip_GrayStripes(t *testing.T) {
	const w, h = 16, 8
	levels := []color.Color{
		color.Gray{Y: 255}, // white  -> 00
		color.Gray{Y: 160}, // light  -> 01
		color.Gray{Y: 100}, // dark   -> 10
		color.Gray{Y: 10},  // black  -> 11
	}
	img := makeImage(w, h, func(x, y int) color.Color {
		return levels[x/4]
	})

	pixels, err := DecodeGray(w, h, EncodeGray(img))
	require.NoError(t, err)
	require.Len(t, pixels, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			require.Equal(t, GrayLevel(x/4), pixels[y*w+x], "pixel (%d,%d)", x, y)
		}
	}
}

func TestRoundTrip_BWRPlanes(t *testing.T) {
	const w, h = 24, 8
	// Left third black, middle third red, right third white.
	img := makeImage(w, h, func(x, y int) color.Color {
		switch {
		case x < 8:
			return pxBlack
		case x < 16:
			return pxRed
		default:
			return pxWhite
		}
	})

	black, redPlane, err := DecodeBWR(w, h, EncodeBWR(img))
	require.NoError(t, err)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			assert.Equal(t, x < 8, black[i], "black plane (%d,%d)", x, y)
			assert.Equal(t, x >= 8 && x < 16, redPlane[i], "red plane (%d,%d)", x, y)
		}
	}
}

// ---- gray bucket boundaries ----

func TestGrayLevel_Buckets(t *testing.T) {
	cases := []struct {
		luma uint8
		want GrayLevel
	}{
		{255, GrayWhite},
		{193, GrayWhite},
		{192, GrayLight},
		{129, GrayLight},
		{128, GrayDark},
		{65, GrayDark},
		{64, GrayBlack},
		{0, GrayBlack},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, grayLevel(color.Gray{Y: tc.luma}), "luma %d", tc.luma)
	}
}

// ---- dispatch and failure ----

func TestEncode_DispatchesOnMode(t *testing.T) {
	img := makeImage(48, 16, solid(pxWhite))

	for _, tc := range []struct {
		mode fleet.Mode
		want int
	}{
		{fleet.ModeBW, PlaneSize(48, 16)},
		{fleet.ModeBWR, 2 * PlaneSize(48, 16)},
		{fleet.ModeGray, GraySize(48, 16)},
	} {
		d := fleet.Display{Name: "t", Width: 48, Height: 16, Mode: tc.mode}
		payload, err := Encode(d, img)
		require.NoError(t, err)
		assert.Len(t, payload, tc.want, "mode %s", tc.mode)
	}
}

func TestEncode_RejectsWrongSize(t *testing.T) {
	d := fleet.Display{Name: "kitchen", Width: 800, Height: 480, Mode: fleet.ModeBWR}
	img := makeImage(640, 480, solid(pxWhite))

	_, err := Encode(d, img)
	require.Error(t, err)

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "kitchen", encErr.Display)
}

// ---- decoder size guards ----

func TestDecode_RejectsWrongSize(t *testing.T) {
	_, err := DecodeBW(64, 32, make([]byte, 100))
	var sizeErr *InvalidSizeError
	require.ErrorAs(t, err, &sizeErr)

	_, _, err = DecodeBWR(64, 32, make([]byte, 100))
	require.ErrorAs(t, err, &sizeErr)

	_, err = DecodeGray(64, 32, make([]byte, 100))
	require.ErrorAs(t, err, &sizeErr)
}
