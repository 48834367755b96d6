// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fontatlas rasterizes a glyph set from a TTF font into the
// single-channel coverage bitmap immediate-mode GUI toolkits expect as
// their font atlas, together with the per-glyph UV table and advances
// needed to emit glyph quads.
//
// Shaping metrics come from go-text/typesetting (the same HarfBuzz-backed
// shaper gg's text stack uses); rasterization goes through a gg drawing
// context. The result plugs straight into imcanvas.NewRenderer:
//
//	atlas, err := fontatlas.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	renderer, err := imcanvas.NewRenderer(atlas.FontAtlas())
package fontatlas
