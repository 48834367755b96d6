// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/imcanvas"
)

// Rendering errors.
var (
	// ErrInvalidDrawContext is returned when the draw context doesn't implement
	// gpucontext.TextureDrawer.
	ErrInvalidDrawContext = errors.New("ggcanvas: dc must implement gpucontext.TextureDrawer")

	// ErrInvalidRenderer is returned when the renderer doesn't implement
	// gpucontext.TextureCreator.
	ErrInvalidRenderer = errors.New("ggcanvas: renderer must implement gpucontext.TextureCreator")
)

// RenderOptions controls where the translated frame is presented.
type RenderOptions struct {
	// X, Y is the position to draw the texture (default: 0, 0)
	X, Y float32
}

// Flush uploads the canvas content to a GPU texture if dirty.
// Returns the texture for manual drawing if needed.
//
// The texture is created lazily on first Flush(). Subsequent calls only
// upload data if the dirty flag is set.
func (c *Canvas) Flush() (any, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}

	// If size changed, defer old texture destruction until after GPU is idle.
	// The old texture may still be referenced by in-flight GPU command
	// buffers; destroying it now would free descriptor heap entries the GPU
	// is still reading. It is destroyed in RenderToEx after the next upload.
	if c.sizeChanged {
		if c.texture != nil {
			if c.oldTexture != nil {
				if destroyer, ok := c.oldTexture.(textureDestroyer); ok {
					destroyer.Destroy()
				}
			}
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.sizeChanged = false
	}

	if !c.dirty && c.texture != nil {
		return c.texture, nil
	}

	// Flush pending GPU shapes drawn through Context() before reading
	// pixel data. Non-fatal: CPU-rendered content is already in the pixmap.
	if err := c.ctx.FlushGPU(); err != nil {
		imcanvas.Logger().Warn("ggcanvas: GPU flush failed, using CPU pixmap", "error", err)
	}

	data := c.ctx.ResizeTarget().Data()

	// Create texture if needed (lazy initialization)
	if c.texture == nil {
		c.texture = &pendingTexture{
			width:  c.width,
			height: c.height,
			data:   data,
		}
		c.dirty = false
		return c.texture, nil
	}

	// Update existing texture
	if updater, ok := c.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return nil, fmt.Errorf("ggcanvas: texture update failed: %w", err)
		}
	}

	c.dirty = false
	return c.texture, nil
}

// RenderTo flushes the canvas and draws the resulting texture at (0, 0).
// The dc parameter should be obtained from gogpu.Context.AsTextureDrawer().
//
// Example:
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    renderer.Render(canvas, drawData)
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToEx(dc, RenderOptions{})
}

// RenderToEx draws the canvas with positioning options.
func (c *Canvas) RenderToEx(dc gpucontext.TextureDrawer, opts RenderOptions) error {
	if c.closed {
		return ErrCanvasClosed
	}

	tex, err := c.Flush()
	if err != nil {
		return err
	}

	// If texture is pending (placeholder), create the real GPU texture now.
	if pending, isPending := tex.(*pendingTexture); isPending {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}

		// NewTextureFromRGBA calls WriteTexture which waits for the GPU
		// internally. After it returns, all prior GPU work is complete.
		realTex, err := creator.NewTextureFromRGBA(pending.width, pending.height, pending.data)
		if err != nil {
			return fmt.Errorf("ggcanvas: NewTextureFromRGBA failed: %w", err)
		}

		// gg pixmap data is premultiplied alpha; mark the texture so the
		// compositor picks the BlendFactorOne pipeline.
		if pt, ok := realTex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}

		c.texture = realTex
		tex = realTex

		// Safe to destroy the deferred old texture now: the GPU is idle
		// after WriteTexture's wait.
		if c.oldTexture != nil {
			if destroyer, ok := c.oldTexture.(textureDestroyer); ok {
				destroyer.Destroy()
			}
			c.oldTexture = nil
		}
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}

	return dc.DrawTexture(gpuTex, opts.X, opts.Y)
}

// pendingTexture is a placeholder for texture creation. It holds the data
// needed to create a real texture once a TextureCreator is available
// (during RenderToEx).
type pendingTexture struct {
	width  int
	height int
	data   []byte
}
