// Package imcanvas translates immediate-mode GUI draw data into gg canvas
// draw calls.
//
// # Overview
//
// Immediate-mode GUI toolkits regenerate their entire output every frame as
// a flat stream of vertices, 16-bit indices, and draw commands. A canvas
// backend such as gg works with retained primitives instead: shader-backed
// paints, clip rectangles, and blended triangle meshes. imcanvas bridges the
// two models once per frame:
//
//	toolkit DrawData -> Renderer.Render -> Canvas draw calls
//
// The Renderer owns a texture registry mapping opaque integer handles to
// image paints. Handle 0 always holds the toolkit's font atlas, registered
// during construction. Applications register, update, and release additional
// images through the same registry.
//
// # Quick Start
//
//	atlas, _ := fontatlas.Default()
//	r, err := imcanvas.NewRenderer(atlas.FontAtlas())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Once per frame:
//	if err := r.Render(canvas, drawData); err != nil {
//	    log.Fatal(err) // a failed frame is a fatal render error
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Renderer, Registry, ImagePaint, DrawData, Canvas
//   - integration/ggcanvas: a Canvas implementation over gg.Context with
//     GPU texture presentation via gpucontext
//   - fontatlas: alpha8 font atlas construction for the default font path
//
// # Thread Safety
//
// The Renderer and its Registry are confined to the thread that owns the
// canvas. Registration and frame translation perform no locking; callers
// that load images from other goroutines must serialize access themselves.
package imcanvas
