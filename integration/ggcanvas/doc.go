// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggcanvas implements the imcanvas.Canvas backend boundary on top
// of a gg drawing context, with optional GPU presentation through gogpu.
//
// The data flow per frame is:
//
//	Renderer.Render -> Canvas (triangle raster, CPU) -> Pixmap -> GPU Texture -> Window
//
// # Architecture
//
// Canvas wraps a gg.Context and adds what the translation layer needs and
// gg's path-based API does not provide directly:
//
//   - a save/restore state stack for matrix and clip rectangle
//   - intersect-clip scissoring
//   - triangle-list vertex draws with barycentric position/UV/color
//     interpolation and modulate blending against an image paint
//
// Rasterization happens on the CPU into the context's pixmap. Flush() and
// RenderTo() then reuse the gg-to-gogpu upload pipeline: dirty tracking,
// lazy texture creation, and presentation via gpucontext interfaces.
//
// # Usage
//
//	canvas, err := ggcanvas.New(app.GPUContextProvider(), 800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer canvas.Close()
//
//	// Once per frame:
//	renderer.Render(canvas, drawData)
//	canvas.RenderTo(dc.AsTextureDrawer())
//
// Headless and test code can use NewOffscreen, which skips the GPU pipeline
// and exposes the rendered frame via Image() and SavePNG().
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use. Create one Canvas per goroutine,
// or use external synchronization.
package ggcanvas
