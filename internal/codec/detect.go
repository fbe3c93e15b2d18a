// internal/codec/detect.go
package codec

import (
	"fmt"

	"github.com/epaperd/epaperd/internal/fleet"
)

// InvalidSizeError marks a payload whose length matches none of the
// expected sizes for a panel. The firmware rejects such payloads outright
// and keeps whatever it was displaying.
type InvalidSizeError struct {
	Width, Height int
	Size          int
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("codec: payload of %d bytes matches no mode for %dx%d panel",
		e.Size, e.Width, e.Height)
}

// DetectMode mirrors the firmware's size-based mode auto-detection for a
// display of known geometry and capability. There is no mode flag on the
// wire: length alone selects the decoder.
//
//	1 plane  => BW (always accepted, simplified content)
//	2 planes => BWR on tri-color firmware
//	2 bpp    => GRAY, recognized only on grayscale-capable firmware
//
// For byte-aligned widths the BWR and GRAY lengths coincide, which is why
// a panel may never claim both capabilities (enforced at config load).
func DetectMode(d fleet.Display, size int) (fleet.Mode, error) {
	plane := PlaneSize(d.Width, d.Height)

	if size == plane {
		return fleet.ModeBW, nil
	}
	if d.Mode == fleet.ModeGray && size == GraySize(d.Width, d.Height) {
		return fleet.ModeGray, nil
	}
	if d.Mode == fleet.ModeBWR && size == 2*plane {
		return fleet.ModeBWR, nil
	}

	return 0, &InvalidSizeError{Width: d.Width, Height: d.Height, Size: size}
}
