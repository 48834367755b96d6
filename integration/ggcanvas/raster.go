// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcanvas

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/imcanvas"
)

// shadedVertex is one corner of a triangle after the canvas matrix has
// been applied: device-space position, UV coordinate, and vertex color.
type shadedVertex struct {
	pos gg.Point
	uv  gg.Point
	col gg.RGBA
}

type triangle struct {
	v0, v1, v2 shadedVertex
}

// rasterTriangle fills one triangle into the pixmap with barycentric
// interpolation of UV and color, sampling at pixel centers. Pixels outside
// the scissor rectangle are never touched.
func rasterTriangle(pm *gg.Pixmap, tri triangle, paint *imcanvas.ImagePaint, blend imcanvas.BlendMode, scissor imcanvas.Rect) {
	area := edge(tri.v0.pos, tri.v1.pos, tri.v2.pos)
	if area == 0 {
		return // degenerate
	}

	minX := int(math.Floor(math.Max(scissor.X0, min3(tri.v0.pos.X, tri.v1.pos.X, tri.v2.pos.X))))
	maxX := int(math.Ceil(math.Min(scissor.X1, max3(tri.v0.pos.X, tri.v1.pos.X, tri.v2.pos.X))))
	minY := int(math.Floor(math.Max(scissor.Y0, min3(tri.v0.pos.Y, tri.v1.pos.Y, tri.v2.pos.Y))))
	maxY := int(math.Ceil(math.Min(scissor.Y1, max3(tri.v0.pos.Y, tri.v1.pos.Y, tri.v2.pos.Y))))

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			p := gg.Pt(float64(x)+0.5, float64(y)+0.5)
			if !scissor.Contains(p.X, p.Y) {
				continue
			}

			// Barycentric weights, normalized by the signed area so both
			// windings rasterize.
			w0 := edge(tri.v1.pos, tri.v2.pos, p) / area
			w1 := edge(tri.v2.pos, tri.v0.pos, p) / area
			w2 := edge(tri.v0.pos, tri.v1.pos, p) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			src := lerpColor(tri, w0, w1, w2)
			if blend == imcanvas.BlendModulate && paint != nil {
				u := w0*tri.v0.uv.X + w1*tri.v1.uv.X + w2*tri.v2.uv.X
				v := w0*tri.v0.uv.Y + w1*tri.v1.uv.Y + w2*tri.v2.uv.Y
				src = modulate(paint.ColorAt(u, v), src)
			}
			if src.A <= 0 {
				continue
			}

			pm.SetPixel(x, y, srcOver(src, pm.GetPixel(x, y)))
		}
	}
}

// edge is the signed parallelogram area of (b-a) x (p-a). Positive when p
// lies to the left of the directed edge a->b.
func edge(a, b, p gg.Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// lerpColor interpolates the triangle's vertex colors at the given
// barycentric weights.
func lerpColor(tri triangle, w0, w1, w2 float64) gg.RGBA {
	return gg.RGBA{
		R: w0*tri.v0.col.R + w1*tri.v1.col.R + w2*tri.v2.col.R,
		G: w0*tri.v0.col.G + w1*tri.v1.col.G + w2*tri.v2.col.G,
		B: w0*tri.v0.col.B + w1*tri.v1.col.B + w2*tri.v2.col.B,
		A: w0*tri.v0.col.A + w1*tri.v1.col.A + w2*tri.v2.col.A,
	}
}

// modulate multiplies two colors channel-wise: sampled paint color times
// per-vertex color.
func modulate(a, b gg.RGBA) gg.RGBA {
	return gg.RGBA{
		R: a.R * b.R,
		G: a.G * b.G,
		B: a.B * b.B,
		A: a.A * b.A,
	}
}

// srcOver composites a straight-alpha source color over the destination.
func srcOver(src, dst gg.RGBA) gg.RGBA {
	outA := src.A + dst.A*(1-src.A)
	if outA <= 0 {
		return gg.RGBA{}
	}
	return gg.RGBA{
		R: (src.R*src.A + dst.R*dst.A*(1-src.A)) / outA,
		G: (src.G*src.A + dst.G*dst.A*(1-src.A)) / outA,
		B: (src.B*src.A + dst.B*dst.A*(1-src.A)) / outA,
		A: outA,
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
