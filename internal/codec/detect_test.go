// internal/codec/detect_test.go
package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epaperd/epaperd/internal/fleet"
)

func TestDetectMode_TricolorPanel(t *testing.T) {
	// kitchen: 800x480 tricolor. One plane is 48,000 bytes.
	kitchen := fleet.Display{Name: "kitchen", Width: 800, Height: 480, Mode: fleet.ModeBWR}

	mode, err := DetectMode(kitchen, 48000)
	require.NoError(t, err)
	assert.Equal(t, fleet.ModeBW, mode, "single plane renders as simplified BW")

	mode, err = DetectMode(kitchen, 96000)
	require.NoError(t, err)
	assert.Equal(t, fleet.ModeBWR, mode, "double plane is full tri-color")
}

func TestDetectMode_GrayscalePanel(t *testing.T) {
	// office: 480x280 grayscale. BW size is 16,800 bytes.
	office := fleet.Display{Name: "office", Width: 480, Height: 280, Mode: fleet.ModeGray}

	mode, err := DetectMode(office, 16800)
	require.NoError(t, err)
	assert.Equal(t, fleet.ModeBW, mode,
		"BW payload accepted even on grayscale-capable firmware")

	mode, err = DetectMode(office, GraySize(480, 280))
	require.NoError(t, err)
	assert.Equal(t, fleet.ModeGray, mode)
}

func TestDetectMode_BWPanelRejectsPlanesItCannotRender(t *testing.T) {
	living := fleet.Display{Name: "living_room", Width: 648, Height: 480, Mode: fleet.ModeBW}
	plane := PlaneSize(648, 480)

	mode, err := DetectMode(living, plane)
	require.NoError(t, err)
	assert.Equal(t, fleet.ModeBW, mode)

	// BW-only firmware has no second plane to fill.
	_, err = DetectMode(living, 2*plane)
	var sizeErr *InvalidSizeError
	require.ErrorAs(t, err, &sizeErr)
}

func TestDetectMode_InvalidSizes(t *testing.T) {
	kitchen := fleet.Display{Name: "kitchen", Width: 800, Height: 480, Mode: fleet.ModeBWR}

	for _, n := range []int{0, 1, 47999, 48001, 95999, 96001, 192000} {
		_, err := DetectMode(kitchen, n)
		var sizeErr *InvalidSizeError
		require.ErrorAs(t, err, &sizeErr, "size %d", n)
		assert.Equal(t, n, sizeErr.Size)
	}
}

func TestDetectMode_GrayNotRecognizedOnTricolorFirmware(t *testing.T) {
	// On a tricolor panel the 2x plane length IS the tri-color payload;
	// grayscale length only exists as a distinct concept on gray firmware.
	kitchen := fleet.Display{Name: "kitchen", Width: 800, Height: 480, Mode: fleet.ModeBWR}

	mode, err := DetectMode(kitchen, GraySize(800, 480))
	require.NoError(t, err)
	assert.Equal(t, fleet.ModeBWR, mode)
}

func TestSizes(t *testing.T) {
	assert.Equal(t, 15000, PlaneSize(400, 300))
	assert.Equal(t, 30000, GraySize(400, 300))
	assert.Equal(t, 48000, PlaneSize(800, 480))
	assert.Equal(t, 16800, PlaneSize(480, 280))

	// Unaligned widths pad each row to a byte boundary.
	assert.Equal(t, 32*((250+7)/8), PlaneSize(250, 32))
	assert.Equal(t, 32*((250+3)/4), GraySize(250, 32))
}
