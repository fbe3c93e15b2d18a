// internal/codec/decode.go
package codec

// Firmware-side unpacking, mirrored here so the encoder and the decoder
// can be checked against each other byte for byte. The real firmware
// streams these bits straight into panel RAM; any disagreement in packing
// order renders as noise, so round-trip tests run against this code.

// DecodeBW unpacks a 1-bpp payload into per-pixel black flags, row-major.
func DecodeBW(w, h int, payload []byte) ([]bool, error) {
	if len(payload) != PlaneSize(w, h) {
		return nil, &InvalidSizeError{Width: w, Height: h, Size: len(payload)}
	}
	return unpackPlane(w, h, payload), nil
}

// DecodeBWR unpacks a two-plane payload into black flags and red flags.
func DecodeBWR(w, h int, payload []byte) (black, red []bool, err error) {
	plane := PlaneSize(w, h)
	if len(payload) != 2*plane {
		return nil, nil, &InvalidSizeError{Width: w, Height: h, Size: len(payload)}
	}
	return unpackPlane(w, h, payload[:plane]), unpackPlane(w, h, payload[plane:]), nil
}

// DecodeGray unpacks a 2-bpp payload into per-pixel gray levels, row-major.
func DecodeGray(w, h int, payload []byte) ([]GrayLevel, error) {
	if len(payload) != GraySize(w, h) {
		return nil, &InvalidSizeError{Width: w, Height: h, Size: len(payload)}
	}

	rowBytes := (w + 3) / 4
	out := make([]GrayLevel, 0, w*h)
	for y := 0; y < h; y++ {
		row := payload[y*rowBytes : (y+1)*rowBytes]
		for x := 0; x < w; x++ {
			b := row[x/4]
			shift := 6 - (x%4)*2
			out = append(out, GrayLevel((b>>shift)&0x03))
		}
	}
	return out, nil
}

func unpackPlane(w, h int, plane []byte) []bool {
	rowBytes := (w + 7) / 8
	out := make([]bool, 0, w*h)
	for y := 0; y < h; y++ {
		row := plane[y*rowBytes : (y+1)*rowBytes]
		for x := 0; x < w; x++ {
			out = append(out, row[x/8]&(1<<(7-x%8)) != 0)
		}
	}
	return out
}
