package imcanvas

// Vertex is one entry of a draw list's vertex buffer, in the packed layout
// immediate-mode toolkits emit: screen-space position, normalized [0,1]
// texture coordinates, and a per-channel RGBA color.
type Vertex struct {
	// Pos is the screen-space position in pixels.
	Pos [2]float32

	// UV is the texture coordinate, normalized to [0,1] per the toolkit's
	// convention.
	UV [2]float32

	// Col is the vertex color as R, G, B, A bytes. The byte order is the
	// toolkit's; translation renormalizes through an explicit
	// from-components constructor rather than reinterpreting the bytes.
	Col [4]uint8
}

// DrawList is one window's or layer's batch of geometry for a single frame:
// a vertex buffer, a 16-bit index buffer, and an ordered command sequence.
type DrawList struct {
	Vertices []Vertex
	Indices  []uint16
	Commands []DrawCmd
}

// DrawData is the full draw stream for one frame, supplied fresh by the
// toolkit each frame. The Renderer reads it during Render and does not
// retain it across frames.
type DrawData struct {
	Lists []*DrawList
}

// TotalVertices returns the vertex count summed over all lists.
func (d *DrawData) TotalVertices() int {
	n := 0
	for _, l := range d.Lists {
		n += len(l.Vertices)
	}
	return n
}

// TotalIndices returns the index count summed over all lists.
func (d *DrawData) TotalIndices() int {
	n := 0
	for _, l := range d.Lists {
		n += len(l.Indices)
	}
	return n
}

// DrawCmd is one instruction within a draw list.
// This is a sealed interface - only types in this package implement it.
//
// The command set is open ended: toolkits add kinds over time. Translation
// matches commands exhaustively and routes every unhandled kind through
// ErrUnsupportedCommand, so a new kind fails loudly instead of being
// silently dropped.
//
// Supported command types:
//   - Elements: draw an index range with a clip rectangle and texture
//   - ResetRenderState: restore baseline render state (not implemented)
//   - RawCallback: invoke an application callback (not implemented)
type DrawCmd interface {
	// drawCmdMarker is an unexported method that seals this interface.
	// Only types in this package can implement DrawCmd.
	drawCmdMarker()
}

// CmdParams carries the per-command render state for an Elements command.
type CmdParams struct {
	// ClipRect is the clip rectangle as x0, y0, x1, y1 in screen pixels.
	ClipRect [4]float32

	// TextureID identifies the registered paint to draw with.
	TextureID TextureHandle

	// IndexOffset is the start of the command's range within the list's
	// index buffer.
	IndexOffset int
}

// Elements draws Count indices starting at Params.IndexOffset as a
// triangle list, clipped to Params.ClipRect and textured with
// Params.TextureID.
type Elements struct {
	Count  int
	Params CmdParams
}

// drawCmdMarker implements the sealed DrawCmd interface.
func (Elements) drawCmdMarker() {}

// ResetRenderState signals that the backend must restore a known baseline
// render state. The canvas backend has no such notion yet, so translation
// reports it as unsupported rather than guessing.
type ResetRenderState struct{}

// drawCmdMarker implements the sealed DrawCmd interface.
func (ResetRenderState) drawCmdMarker() {}

// RawCallback carries an opaque application-supplied callback to invoke
// with backend-specific context. Not implemented by this backend.
type RawCallback struct {
	Callback func(canvas Canvas, list *DrawList)
}

// drawCmdMarker implements the sealed DrawCmd interface.
func (RawCallback) drawCmdMarker() {}
