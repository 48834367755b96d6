package imcanvas

import "fmt"

// TextureHandle is an opaque identifier for a registered ImagePaint.
// Handles are assigned monotonically and never reused within a session,
// even after release. The distinct type keeps handles from being mixed up
// with unrelated integers.
type TextureHandle int

// FontAtlasHandle is the handle the toolkit's font atlas is registered
// under at Renderer construction. Toolkits bake this id into the draw
// commands of every text run.
const FontAtlasHandle TextureHandle = 0

// Registry maps texture handles to their image paints. Paints are owned
// exclusively by the registry once registered: it may overwrite or drop
// them between frames, so callers must not hold on to looked-up paints
// past the current frame.
//
// Registry performs no locking. It assumes the single-threaded access
// discipline of frame rendering: mutate and read it only from the thread
// that owns the canvas, or wrap it in external synchronization.
type Registry struct {
	paints map[TextureHandle]*ImagePaint
	next   TextureHandle
}

// NewRegistry creates an empty registry. The first registered paint
// receives handle 0.
func NewRegistry() *Registry {
	return &Registry{
		paints: make(map[TextureHandle]*ImagePaint),
	}
}

// Register inserts a paint under the next unused handle and returns that
// handle. The counter is post-incremented and never reset, so released
// handles are never handed out again.
func (r *Registry) Register(p *ImagePaint) TextureHandle {
	h := r.next
	r.paints[h] = p
	r.next++
	return h
}

// Update replaces the paint at an existing handle.
//
// The handle must have been registered and not yet released; updating a
// missing handle fails with ErrUnknownHandle rather than inserting. An
// insert would mint an entry outside the monotonic counter and mask
// lifecycle bugs where a caller updates a texture it already released.
func (r *Registry) Update(h TextureHandle, p *ImagePaint) error {
	if _, ok := r.paints[h]; !ok {
		return fmt.Errorf("%w: update of %d", ErrUnknownHandle, h)
	}
	r.paints[h] = p
	return nil
}

// Release removes the paint at h. Releasing an already-released or
// never-issued handle is a no-op, not an error: callers may race teardown
// of a resource against frame translation.
func (r *Registry) Release(h TextureHandle) {
	if _, ok := r.paints[h]; !ok {
		Logger().Warn("release of unknown texture handle", "handle", int(h))
		return
	}
	delete(r.paints, h)
}

// Lookup resolves a handle to its paint. This runs once per draw command,
// so it is a plain map access. A missing handle fails with
// ErrUnknownHandle; there is no fallback paint, since drawing with a
// missing texture indicates a lifecycle bug upstream.
func (r *Registry) Lookup(h TextureHandle) (*ImagePaint, error) {
	p, ok := r.paints[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return p, nil
}

// Len returns the number of registered paints.
func (r *Registry) Len() int {
	return len(r.paints)
}
