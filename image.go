package imcanvas

import (
	"fmt"

	"github.com/gogpu/gg"
)

// PixelFormat describes the layout of a raw pixel buffer handed to
// NewImagePaint.
type PixelFormat int

const (
	// FormatRGBA8 is 32-bit RGBA, 4 bytes per pixel. The format
	// applications use for registered images.
	FormatRGBA8 PixelFormat = iota

	// FormatAlpha8 is single-channel coverage, 1 byte per pixel. The
	// format toolkits use for font atlases. On ingest the channel becomes
	// the alpha of a white texel, so modulate blending leaves glyph color
	// entirely to the per-vertex color.
	FormatAlpha8
)

// BytesPerPixel returns the storage size of one pixel in this format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatAlpha8:
		return 1
	default:
		return 4
	}
}

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatAlpha8:
		return "alpha8"
	default:
		return "unknown"
	}
}

// NewImagePaint builds a drawable resource from a raw pixel buffer.
//
// The buffer length must equal width*height*format.BytesPerPixel() and the
// dimensions must be positive; anything else fails with ErrInvalidImageData.
//
// The pixels are copied into an owned image buffer. Toolkits regenerate
// their atlas buffers on demand and may not keep them alive past the call,
// so taking ownership by copy removes the lifetime hazard that wrapping the
// caller's memory would create.
//
// NewImagePaint has no side effects beyond the returned paint; registering
// it is the caller's (or the Renderer's) business.
func NewImagePaint(pixels []byte, width, height int, format PixelFormat) (*ImagePaint, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidImageData, width, height)
	}
	want := width * height * format.BytesPerPixel()
	if len(pixels) != want {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d %s (want %d)",
			ErrInvalidImageData, len(pixels), width, height, format, want)
	}

	buf, err := gg.NewImageBuf(width, height, gg.FormatRGBA8)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}

	dst := buf.Data()
	switch format {
	case FormatAlpha8:
		for i, a := range pixels {
			dst[i*4+0] = 0xff
			dst[i*4+1] = 0xff
			dst[i*4+2] = 0xff
			dst[i*4+3] = a
		}
	default:
		copy(dst, pixels)
	}

	local := gg.Scale(1.0/float64(width), 1.0/float64(height))
	return &ImagePaint{
		image:         buf,
		width:         width,
		height:        height,
		local:         local,
		inverse:       local.Invert(),
		Interpolation: gg.InterpNearest,
		Tile:          TileRepeat,
		Color:         gg.RGBA{R: 1, G: 1, B: 1, A: 1},
	}, nil
}
