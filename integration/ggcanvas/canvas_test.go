// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcanvas

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/imcanvas"
)

func whitePaint(t *testing.T) *imcanvas.ImagePaint {
	t.Helper()
	p, err := imcanvas.NewImagePaint([]byte{0xff, 0xff, 0xff, 0xff}, 1, 1, imcanvas.FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImagePaint() error = %v", err)
	}
	return p
}

// quadMesh builds a two-triangle quad covering [x0,y0]..[x1,y1] with a
// uniform color.
func quadMesh(x0, y0, x1, y1 float64, col gg.RGBA) imcanvas.Mesh {
	return imcanvas.Mesh{
		Positions: []gg.Point{gg.Pt(x0, y0), gg.Pt(x1, y0), gg.Pt(x1, y1), gg.Pt(x0, y1)},
		UVs:       []gg.Point{gg.Pt(0, 0), gg.Pt(1, 0), gg.Pt(1, 1), gg.Pt(0, 1)},
		Colors:    []gg.RGBA{col, col, col, col},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
	}
}

func pixelAt(t *testing.T, c *Canvas, x, y int) color.RGBA {
	t.Helper()
	r, g, b, a := c.Image().At(x, y).RGBA()
	return color.RGBA{
		R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8), //nolint:gosec // 16-bit to 8-bit
	}
}

// TestNewOffscreenInvalidDimensions tests dimension validation.
func TestNewOffscreenInvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -5, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOffscreen(tt.width, tt.height)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("NewOffscreen() error = %v, want ErrInvalidDimensions", err)
			}
		})
	}
}

// TestNewNilProvider tests that integrated mode requires a provider.
func TestNewNilProvider(t *testing.T) {
	if _, err := New(nil, 10, 10); !errors.Is(err, ErrNilProvider) {
		t.Errorf("New(nil, ...) error = %v, want ErrNilProvider", err)
	}
}

// TestDrawVerticesFillsQuad tests that a solid quad rasterizes to the
// expected pixels and nothing outside it.
func TestDrawVerticesFillsQuad(t *testing.T) {
	c, err := NewOffscreen(64, 64)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer c.Close()

	red := gg.RGBA{R: 1, A: 1}
	if err := c.DrawVertices(quadMesh(10, 10, 40, 40, red), imcanvas.BlendModulate, whitePaint(t)); err != nil {
		t.Fatalf("DrawVertices() error = %v", err)
	}

	if got := pixelAt(t, c, 20, 20); got.R != 0xff || got.A != 0xff {
		t.Errorf("pixel inside quad = %v, want opaque red", got)
	}
	if got := pixelAt(t, c, 50, 50); got.A != 0 {
		t.Errorf("pixel outside quad = %v, want untouched", got)
	}
	if !c.IsDirty() {
		t.Error("IsDirty() = false after draw, want true")
	}
}

// TestDrawVerticesModulatesTexture tests that modulate blending multiplies
// the sampled texel with the vertex color.
func TestDrawVerticesModulatesTexture(t *testing.T) {
	c, err := NewOffscreen(32, 32)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer c.Close()

	// Opaque green 1x1 texture, modulated by half-intensity white vertices.
	paint, err := imcanvas.NewImagePaint([]byte{0x00, 0xff, 0x00, 0xff}, 1, 1, imcanvas.FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImagePaint() error = %v", err)
	}
	grey := gg.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	if err := c.DrawVertices(quadMesh(0, 0, 32, 32, grey), imcanvas.BlendModulate, paint); err != nil {
		t.Fatalf("DrawVertices() error = %v", err)
	}

	got := pixelAt(t, c, 16, 16)
	if got.R != 0 || got.B != 0 {
		t.Errorf("pixel = %v, want pure green channel only", got)
	}
	if got.G < 0x70 || got.G > 0x90 {
		t.Errorf("pixel G = %#x, want about half intensity", got.G)
	}
}

// TestClipRectScissorsDraw tests intersect-clip semantics.
func TestClipRectScissorsDraw(t *testing.T) {
	c, err := NewOffscreen(64, 64)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer c.Close()

	c.ClipRect(imcanvas.Rect{X0: 0, Y0: 0, X1: 20, Y1: 64}, true)
	// Second clip narrows further: intersection is x in [10, 20).
	c.ClipRect(imcanvas.Rect{X0: 10, Y0: 0, X1: 64, Y1: 64}, true)

	white := gg.RGBA{R: 1, G: 1, B: 1, A: 1}
	if err := c.DrawVertices(quadMesh(0, 0, 64, 64, white), imcanvas.BlendModulate, whitePaint(t)); err != nil {
		t.Fatalf("DrawVertices() error = %v", err)
	}

	if got := pixelAt(t, c, 15, 32); got.A != 0xff {
		t.Errorf("pixel inside clip = %v, want opaque", got)
	}
	if got := pixelAt(t, c, 5, 32); got.A != 0 {
		t.Errorf("pixel left of clip = %v, want untouched", got)
	}
	if got := pixelAt(t, c, 30, 32); got.A != 0 {
		t.Errorf("pixel right of clip = %v, want untouched", got)
	}
}

// TestSaveRestoreScopesClip tests that Restore discards clip changes made
// after the matching Save.
func TestSaveRestoreScopesClip(t *testing.T) {
	c, err := NewOffscreen(64, 64)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer c.Close()

	c.Save()
	c.ClipRect(imcanvas.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}, true)
	c.Restore()

	white := gg.RGBA{R: 1, G: 1, B: 1, A: 1}
	if err := c.DrawVertices(quadMesh(0, 0, 64, 64, white), imcanvas.BlendModulate, whitePaint(t)); err != nil {
		t.Fatalf("DrawVertices() error = %v", err)
	}

	if got := pixelAt(t, c, 40, 40); got.A != 0xff {
		t.Errorf("pixel after restore = %v, want opaque (clip discarded)", got)
	}
}

// TestSetMatrixTransformsPositions tests that the canvas matrix applies to
// mesh positions.
func TestSetMatrixTransformsPositions(t *testing.T) {
	c, err := NewOffscreen(64, 64)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer c.Close()

	c.SetMatrix(gg.Translate(30, 0))
	white := gg.RGBA{R: 1, G: 1, B: 1, A: 1}
	if err := c.DrawVertices(quadMesh(0, 0, 10, 10, white), imcanvas.BlendModulate, whitePaint(t)); err != nil {
		t.Fatalf("DrawVertices() error = %v", err)
	}

	if got := pixelAt(t, c, 35, 5); got.A != 0xff {
		t.Errorf("pixel at translated position = %v, want opaque", got)
	}
	if got := pixelAt(t, c, 5, 5); got.A != 0 {
		t.Errorf("pixel at original position = %v, want untouched", got)
	}
}

// TestDrawVerticesMalformedMesh tests mesh validation.
func TestDrawVerticesMalformedMesh(t *testing.T) {
	c, err := NewOffscreen(16, 16)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer c.Close()
	paint := whitePaint(t)

	base := quadMesh(0, 0, 8, 8, gg.RGBA{A: 1})

	tests := []struct {
		name   string
		mutate func(m imcanvas.Mesh) imcanvas.Mesh
	}{
		{"short uvs", func(m imcanvas.Mesh) imcanvas.Mesh { m.UVs = m.UVs[:2]; return m }},
		{"short colors", func(m imcanvas.Mesh) imcanvas.Mesh { m.Colors = m.Colors[:1]; return m }},
		{"ragged indices", func(m imcanvas.Mesh) imcanvas.Mesh { m.Indices = m.Indices[:4]; return m }},
		{"index past vertices", func(m imcanvas.Mesh) imcanvas.Mesh {
			m.Indices = []uint16{0, 1, 9}
			return m
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.DrawVertices(tt.mutate(base), imcanvas.BlendModulate, paint)
			if !errors.Is(err, ErrMeshMismatch) {
				t.Errorf("DrawVertices() error = %v, want ErrMeshMismatch", err)
			}
		})
	}
}

// TestCanvasClosed tests that operations on a closed canvas fail.
func TestCanvasClosed(t *testing.T) {
	c, err := NewOffscreen(16, 16)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if err := c.DrawVertices(quadMesh(0, 0, 8, 8, gg.RGBA{A: 1}), imcanvas.BlendModulate, nil); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("DrawVertices() after close error = %v, want ErrCanvasClosed", err)
	}
	if _, err := c.Flush(); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Flush() after close error = %v, want ErrCanvasClosed", err)
	}
	if c.Context() != nil {
		t.Error("Context() after close != nil")
	}
	if c.Image() != nil {
		t.Error("Image() after close != nil")
	}
}

// TestFlushLazyTexture tests lazy texture creation and dirty tracking.
func TestFlushLazyTexture(t *testing.T) {
	c, err := NewOffscreen(16, 16)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer c.Close()

	tex, err := c.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	pending, ok := tex.(*pendingTexture)
	if !ok {
		t.Fatalf("Flush() = %T, want *pendingTexture before first present", tex)
	}
	if pending.width != 16 || pending.height != 16 {
		t.Errorf("pending texture = %dx%d, want 16x16", pending.width, pending.height)
	}
	if c.IsDirty() {
		t.Error("IsDirty() = true after Flush, want false")
	}

	// Second flush with no changes returns the same placeholder.
	tex2, err := c.Flush()
	if err != nil {
		t.Fatalf("second Flush() error = %v", err)
	}
	if tex2 != tex {
		t.Error("Flush() created a new texture without changes")
	}
}

// TestRenderWithRenderer is an end-to-end check: a Renderer frame drawn
// through the canvas lands in the pixmap.
func TestRenderWithRenderer(t *testing.T) {
	atlas := imcanvas.FontAtlas{Pixels: make([]byte, 4*4), Width: 4, Height: 4}
	r, err := imcanvas.NewRenderer(atlas)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	// A solid white 1x1 image for untextured fills.
	solid, err := r.RegisterImage([]byte{0xff, 0xff, 0xff, 0xff}, 1, 1)
	if err != nil {
		t.Fatalf("RegisterImage() error = %v", err)
	}

	c, err := NewOffscreen(64, 64)
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer c.Close()

	blue := [4]uint8{0, 0, 255, 255}
	data := &imcanvas.DrawData{Lists: []*imcanvas.DrawList{{
		Vertices: []imcanvas.Vertex{
			{Pos: [2]float32{8, 8}, UV: [2]float32{0, 0}, Col: blue},
			{Pos: [2]float32{24, 8}, UV: [2]float32{1, 0}, Col: blue},
			{Pos: [2]float32{24, 24}, UV: [2]float32{1, 1}, Col: blue},
			{Pos: [2]float32{8, 24}, UV: [2]float32{0, 1}, Col: blue},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
		Commands: []imcanvas.DrawCmd{
			imcanvas.Elements{Count: 6, Params: imcanvas.CmdParams{
				ClipRect:  [4]float32{0, 0, 64, 64},
				TextureID: solid,
			}},
		},
	}}}

	if err := r.Render(c, data); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got := pixelAt(t, c, 16, 16); got.B != 0xff || got.A != 0xff {
		t.Errorf("pixel inside rendered quad = %v, want opaque blue", got)
	}
	if got := pixelAt(t, c, 40, 40); got.A != 0 {
		t.Errorf("pixel outside rendered quad = %v, want untouched", got)
	}
}
