package imcanvas

import (
	"math"

	"github.com/gogpu/gg"
)

// TileMode specifies how a paint samples outside the [0,1] UV square.
type TileMode int

const (
	// TileRepeat wraps coordinates, tiling the image endlessly.
	TileRepeat TileMode = iota

	// TileClamp extends the edge pixels outward.
	TileClamp
)

// ImagePaint is a shader-backed paint wrapping a decoded image together
// with its sampling configuration. It is the drawable resource the texture
// registry stores and the translator resolves per draw command.
//
// The local matrix maps the conventional [0,1] UV unit square onto the
// image's pixel dimensions, so UV coordinates supplied by the toolkit
// sample the image directly. Sampling is nearest-neighbor with no mip
// levels, and the color multiplier is uniform white so per-vertex colors
// modulate the sampled texel unchanged.
type ImagePaint struct {
	image  *gg.ImageBuf
	width  int
	height int

	// local maps image pixel space onto the UV unit square; its inverse
	// takes a UV coordinate back to a pixel coordinate for sampling.
	local   gg.Matrix
	inverse gg.Matrix

	// Interpolation is the sampling filter. Always gg.InterpNearest for
	// toolkit textures: glyph atlases must not bleed between cells.
	Interpolation gg.InterpolationMode

	// Tile controls sampling outside the unit square.
	Tile TileMode

	// Color is the uniform color multiplier applied to sampled texels.
	Color gg.RGBA
}

// Image returns the underlying image buffer.
func (p *ImagePaint) Image() *gg.ImageBuf {
	return p.image
}

// Bounds returns the image dimensions as (width, height).
func (p *ImagePaint) Bounds() (int, int) {
	return p.width, p.height
}

// LocalMatrix returns the matrix mapping pixel space to UV space.
func (p *ImagePaint) LocalMatrix() gg.Matrix {
	return p.local
}

// ColorAt samples the paint at a UV coordinate, applying the tile mode,
// nearest-neighbor filtering, and the uniform color multiplier. Software
// backends evaluate the paint per pixel through this method, the same way
// gg patterns expose ColorAt.
func (p *ImagePaint) ColorAt(u, v float64) gg.RGBA {
	pt := p.inverse.TransformPoint(gg.Pt(u, v))

	x := int(math.Floor(pt.X))
	y := int(math.Floor(pt.Y))

	switch p.Tile {
	case TileClamp:
		x = clampInt(x, 0, p.width-1)
		y = clampInt(y, 0, p.height-1)
	default: // TileRepeat
		x = wrapInt(x, p.width)
		y = wrapInt(y, p.height)
	}

	r, g, b, a := p.image.GetRGBA(x, y)
	return gg.RGBA{
		R: float64(r) / 255 * p.Color.R,
		G: float64(g) / 255 * p.Color.G,
		B: float64(b) / 255 * p.Color.B,
		A: float64(a) / 255 * p.Color.A,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapInt(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
