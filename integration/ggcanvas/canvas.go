// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcanvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/imcanvas"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("ggcanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("ggcanvas: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("ggcanvas: nil DeviceProvider")

	// ErrMeshMismatch is returned when a mesh's attribute arrays disagree
	// in length, an index references a missing vertex, or the index count
	// is not a multiple of three.
	ErrMeshMismatch = errors.New("ggcanvas: malformed vertex mesh")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// state is one entry of the canvas save/restore stack.
type state struct {
	matrix gg.Matrix
	clip   imcanvas.Rect
}

// Canvas implements imcanvas.Canvas over a gg.Context and manages the
// CPU-to-GPU pipeline for presenting the translated frame.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	ctx      *gg.Context
	provider gpucontext.DeviceProvider

	texture     any  // Lazy-created texture (*gogpu.Texture)
	oldTexture  any  // Previous texture awaiting deferred destruction
	dirty       bool // Needs GPU upload
	sizeChanged bool // Resize pending, texture must be recreated

	width  int
	height int
	closed bool

	cur   state
	stack []state
}

// New creates a Canvas for integrated mode.
// The provider should come from gogpu.App.GPUContextProvider().
//
// Returns an error if dimensions are invalid or provider is nil.
func New(provider gpucontext.DeviceProvider, width, height int) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	c, err := NewOffscreen(width, height)
	if err != nil {
		return nil, err
	}
	c.provider = provider
	return c, nil
}

// NewOffscreen creates a Canvas without a GPU provider, rendering only
// into the CPU pixmap. Use Image() or SavePNG() to read the result.
// Tests and headless tools use this constructor.
func NewOffscreen(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	return &Canvas{
		ctx:    gg.NewContext(width, height),
		width:  width,
		height: height,
		dirty:  true, // Mark dirty so first Flush creates texture
		cur: state{
			matrix: gg.Identity(),
			clip:   imcanvas.Rect{X1: float64(width), Y1: float64(height)},
		},
	}, nil
}

// Context returns the underlying gg drawing context, for callers that want
// to draw beneath or over the translated UI with the gg API.
// Returns nil if the canvas is closed.
func (c *Canvas) Context() *gg.Context {
	if c.closed {
		return nil
	}
	return c.ctx
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Save pushes the current matrix and clip state.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.cur)
}

// Restore pops to the most recently saved state.
// Restore on an empty stack is a no-op.
func (c *Canvas) Restore() {
	n := len(c.stack)
	if n == 0 {
		return
	}
	c.cur = c.stack[n-1]
	c.stack = c.stack[:n-1]
}

// SetMatrix replaces the current transformation matrix.
func (c *Canvas) SetMatrix(m gg.Matrix) {
	c.cur.matrix = m
}

// ClipRect intersects the current clip with r.
//
// The software scissor is pixel-exact; the antialias flag is accepted for
// interface compatibility and honored by GPU-backed implementations.
func (c *Canvas) ClipRect(r imcanvas.Rect, _ bool) {
	c.cur.clip = c.cur.clip.Intersect(r)
}

// Clear fills the canvas with a color and marks it dirty.
func (c *Canvas) Clear(col gg.RGBA) {
	if c.closed {
		return
	}
	c.ctx.ClearWithColor(col)
	c.dirty = true
}

// DrawVertices rasterizes a triangle-list mesh into the pixmap, clipped to
// the current scissor, with the current matrix applied to positions.
func (c *Canvas) DrawVertices(mesh imcanvas.Mesh, blend imcanvas.BlendMode, paint *imcanvas.ImagePaint) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if len(mesh.UVs) != len(mesh.Positions) || len(mesh.Colors) != len(mesh.Positions) {
		return fmt.Errorf("%w: %d positions, %d uvs, %d colors",
			ErrMeshMismatch, len(mesh.Positions), len(mesh.UVs), len(mesh.Colors))
	}
	if len(mesh.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole number of triangles",
			ErrMeshMismatch, len(mesh.Indices))
	}

	// Scissor: current clip intersected with the pixmap bounds.
	scissor := c.cur.clip.Intersect(imcanvas.Rect{
		X1: float64(c.width),
		Y1: float64(c.height),
	})
	if scissor.Empty() {
		return nil
	}

	pm := c.ctx.ResizeTarget()
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0, i1, i2 := int(mesh.Indices[t]), int(mesh.Indices[t+1]), int(mesh.Indices[t+2])
		if i0 >= len(mesh.Positions) || i1 >= len(mesh.Positions) || i2 >= len(mesh.Positions) {
			return fmt.Errorf("%w: index references vertex %d of %d",
				ErrMeshMismatch, maxInt(i0, maxInt(i1, i2)), len(mesh.Positions))
		}
		tri := triangle{
			v0: shadedVertex{pos: c.cur.matrix.TransformPoint(mesh.Positions[i0]), uv: mesh.UVs[i0], col: mesh.Colors[i0]},
			v1: shadedVertex{pos: c.cur.matrix.TransformPoint(mesh.Positions[i1]), uv: mesh.UVs[i1], col: mesh.Colors[i1]},
			v2: shadedVertex{pos: c.cur.matrix.TransformPoint(mesh.Positions[i2]), uv: mesh.UVs[i2], col: mesh.Colors[i2]},
		}
		rasterTriangle(pm, tri, paint, blend, scissor)
	}

	c.dirty = true
	return nil
}

// IsDirty returns true if the canvas has pending changes that need to be
// uploaded to the GPU.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// Resize changes canvas dimensions. This recreates internal buffers and
// clears the canvas.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.width == width && c.height == height {
		return nil
	}

	if err := c.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("ggcanvas: context resize failed: %w", err)
	}

	c.width = width
	c.height = height
	c.cur = state{
		matrix: gg.Identity(),
		clip:   imcanvas.Rect{X1: float64(width), Y1: float64(height)},
	}
	c.stack = c.stack[:0]
	c.sizeChanged = true
	c.dirty = true
	return nil
}

// Image returns the rendered frame as a standard image.
// Returns nil if the canvas is closed.
func (c *Canvas) Image() image.Image {
	if c.closed {
		return nil
	}
	return c.ctx.Image()
}

// SavePNG writes the rendered frame to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	if c.closed {
		return ErrCanvasClosed
	}
	return c.ctx.SavePNG(path)
}

// Close releases all resources associated with the Canvas.
// After Close, the Canvas should not be used.
// Close is idempotent - multiple calls are safe.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	// Destroy textures (current and any deferred old texture)
	if c.oldTexture != nil {
		if destroyer, ok := c.oldTexture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
		c.oldTexture = nil
	}
	if c.texture != nil {
		if destroyer, ok := c.texture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
		c.texture = nil
	}

	if c.ctx != nil {
		_ = c.ctx.Close()
		c.ctx = nil
	}

	c.provider = nil
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
