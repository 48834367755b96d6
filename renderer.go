package imcanvas

import (
	"fmt"

	"github.com/gogpu/gg"
)

// FontAtlas is the toolkit-provided font atlas bitmap: single-channel
// glyph coverage with explicit pixel dimensions.
type FontAtlas struct {
	Pixels []byte
	Width  int
	Height int
}

// Renderer translates immediate-mode draw data into canvas draw calls and
// owns the texture registry backing the toolkit's texture ids.
//
// Renderer is not safe for concurrent use; see Registry for the access
// discipline.
type Renderer struct {
	images *Registry
}

// NewRenderer creates a Renderer and registers the toolkit's font atlas
// under FontAtlasHandle. A malformed atlas fails with ErrInvalidImageData.
func NewRenderer(atlas FontAtlas) (*Renderer, error) {
	paint, err := NewImagePaint(atlas.Pixels, atlas.Width, atlas.Height, FormatAlpha8)
	if err != nil {
		return nil, fmt.Errorf("imcanvas: build font atlas: %w", err)
	}

	r := &Renderer{images: NewRegistry()}
	if h := r.images.Register(paint); h != FontAtlasHandle {
		// Registry construction guarantees the first handle is 0.
		panic("imcanvas: font atlas did not receive handle 0")
	}

	Logger().Debug("renderer created",
		"atlasWidth", atlas.Width, "atlasHeight", atlas.Height)
	return r, nil
}

// Images returns the texture registry, for callers that manage paints
// directly rather than through the RegisterImage convenience methods.
func (r *Renderer) Images() *Registry {
	return r.images
}

// RegisterImage builds an RGBA8 paint from the pixel buffer and registers
// it, returning the handle the toolkit should reference it by.
func (r *Renderer) RegisterImage(pixels []byte, width, height int) (TextureHandle, error) {
	paint, err := NewImagePaint(pixels, width, height, FormatRGBA8)
	if err != nil {
		return 0, err
	}
	return r.images.Register(paint), nil
}

// UpdateImage replaces the paint at an existing handle with one built from
// the pixel buffer. The handle must already be registered.
func (r *Renderer) UpdateImage(h TextureHandle, pixels []byte, width, height int) error {
	paint, err := NewImagePaint(pixels, width, height, FormatRGBA8)
	if err != nil {
		return err
	}
	return r.images.Update(h, paint)
}

// ReleaseImage removes the paint at h. Idempotent.
func (r *Renderer) ReleaseImage(h TextureHandle) {
	r.images.Release(h)
}

// Render translates one frame of draw data into draw calls against the
// canvas. It is invoked once per rendered frame.
//
// The canvas state is saved around the whole frame and a fixed identity
// transform established, so the caller's transform stack survives intact.
// Any error aborts the frame where it occurred; a failed frame should be
// treated as a fatal render error by the caller, not retried.
func (r *Renderer) Render(canvas Canvas, data *DrawData) error {
	if data == nil {
		return nil
	}

	canvas.Save()
	defer canvas.Restore()
	canvas.SetMatrix(gg.Identity())

	draws := 0
	for li, list := range data.Lists {
		pos, uv, cols := convertVertices(list.Vertices)

		idx := make([]uint16, len(list.Indices))
		copy(idx, list.Indices)

		for ci, cmd := range list.Commands {
			n, err := r.renderCommand(canvas, cmd, pos, uv, cols, idx)
			if err != nil {
				return fmt.Errorf("imcanvas: list %d, command %d: %w", li, ci, err)
			}
			draws += n
		}
	}

	Logger().Debug("frame translated",
		"lists", len(data.Lists),
		"vertices", data.TotalVertices(),
		"draws", draws)
	return nil
}

// convertVertices copies the packed vertex buffer into the three parallel
// canvas-native arrays, exactly once per list. The copy is unavoidable:
// the canvas wants separate attribute arrays, and colors must go through
// the from-components constructor since the toolkit's channel byte order
// and the canvas's need not agree.
func convertVertices(verts []Vertex) (pos, uv []gg.Point, cols []gg.RGBA) {
	pos = make([]gg.Point, len(verts))
	uv = make([]gg.Point, len(verts))
	cols = make([]gg.RGBA, len(verts))
	for i, v := range verts {
		pos[i] = gg.Pt(float64(v.Pos[0]), float64(v.Pos[1]))
		uv[i] = gg.Pt(float64(v.UV[0]), float64(v.UV[1]))
		cols[i] = gg.RGBA{
			R: float64(v.Col[0]) / 255,
			G: float64(v.Col[1]) / 255,
			B: float64(v.Col[2]) / 255,
			A: float64(v.Col[3]) / 255,
		}
	}
	return pos, uv, cols
}

// renderCommand executes one draw command inside its own save/restore
// scope, so clip and paint changes never leak into the next command.
// It returns the number of draw calls issued.
func (r *Renderer) renderCommand(canvas Canvas, cmd DrawCmd, pos, uv []gg.Point, cols []gg.RGBA, idx []uint16) (int, error) {
	canvas.Save()
	defer canvas.Restore()

	switch c := cmd.(type) {
	case Elements:
		canvas.ClipRect(RectFromClip(c.Params.ClipRect), true)

		paint, err := r.images.Lookup(c.Params.TextureID)
		if err != nil {
			return 0, err
		}

		lo, hi := c.Params.IndexOffset, c.Params.IndexOffset+c.Count
		if lo < 0 || c.Count < 0 || hi > len(idx) {
			return 0, fmt.Errorf("%w: [%d, %d) of %d indices",
				ErrIndexOutOfRange, lo, hi, len(idx))
		}

		mesh := Mesh{
			Positions: pos,
			UVs:       uv,
			Colors:    cols,
			Indices:   idx[lo:hi],
		}
		if err := canvas.DrawVertices(mesh, BlendModulate, paint); err != nil {
			return 0, err
		}
		return 1, nil

	case ResetRenderState:
		return 0, fmt.Errorf("%w: ResetRenderState", ErrUnsupportedCommand)

	case RawCallback:
		return 0, fmt.Errorf("%w: RawCallback", ErrUnsupportedCommand)

	default:
		// A command kind this backend has never heard of. Fail loudly:
		// silently dropping it would render a visually wrong frame.
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedCommand, cmd)
	}
}
