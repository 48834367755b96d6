package imcanvas

import "github.com/gogpu/gg"

// Rect is an axis-aligned rectangle in screen pixels, (X0, Y0) top-left
// to (X1, Y1) bottom-right.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// RectFromClip converts a toolkit clip rectangle (x0, y0, x1, y1) to a Rect.
func RectFromClip(clip [4]float32) Rect {
	return Rect{
		X0: float64(clip[0]),
		Y0: float64(clip[1]),
		X1: float64(clip[2]),
		Y1: float64(clip[3]),
	}
}

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Intersect returns the intersection of two rectangles.
// The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	out := r
	if o.X0 > out.X0 {
		out.X0 = o.X0
	}
	if o.Y0 > out.Y0 {
		out.Y0 = o.Y0
	}
	if o.X1 < out.X1 {
		out.X1 = o.X1
	}
	if o.Y1 < out.Y1 {
		out.Y1 = o.Y1
	}
	return out
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// BlendMode defines how a paint's sampled color combines with per-vertex
// colors during a vertex draw.
type BlendMode int

const (
	// BlendNormal draws per-vertex colors directly, ignoring the paint.
	BlendNormal BlendMode = iota

	// BlendModulate multiplies the paint's sampled color with the
	// per-vertex color, channel-wise. This is the mode immediate-mode
	// toolkits assume: white vertices show the texture unchanged, tinted
	// vertices tint it.
	BlendModulate
)

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendModulate:
		return "modulate"
	default:
		return "unknown"
	}
}

// Mesh is a triangle-list vertex draw in canvas-native form: parallel
// position, UV, and color arrays plus the index subrange selecting the
// triangles to draw.
type Mesh struct {
	Positions []gg.Point
	UVs       []gg.Point
	Colors    []gg.RGBA
	Indices   []uint16
}

// Canvas is the rendering backend boundary. The Renderer issues scoped
// state changes, clip rectangles, and triangle-mesh draws against it;
// rasterization, GPU submission, and presentation stay on the other side.
//
// Save and Restore must nest: every Save is balanced by one Restore, and
// Restore discards any matrix or clip changes made since the matching Save.
type Canvas interface {
	// Save pushes the current matrix and clip state.
	Save()

	// Restore pops to the most recently saved state.
	Restore()

	// SetMatrix replaces the current transformation matrix.
	SetMatrix(m gg.Matrix)

	// ClipRect intersects the current clip with r. The antialias flag
	// requests smoothed clip edges where the backend supports them.
	ClipRect(r Rect, antialias bool)

	// DrawVertices draws a triangle-list mesh with the given blend mode
	// and paint. Implementations must not retain the mesh slices.
	DrawVertices(mesh Mesh, blend BlendMode, paint *ImagePaint) error
}
