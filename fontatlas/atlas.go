// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fontatlas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/gg"
	ggtext "github.com/gogpu/gg/text"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/imcanvas"
)

// Common errors for atlas construction.
var (
	// ErrInvalidFont is returned when the font data cannot be parsed.
	ErrInvalidFont = errors.New("fontatlas: invalid font data")

	// ErrNoGlyphs is returned when the font covers none of the requested
	// runes.
	ErrNoGlyphs = errors.New("fontatlas: font covers no requested glyphs")
)

// atlasPadding is the pixel border around each glyph cell. It keeps
// nearest-neighbor sampling from bleeding between neighboring cells.
const atlasPadding = 1

// atlasColumns is the number of glyph cells per atlas row.
const atlasColumns = 16

// Glyph describes one rasterized glyph: its cell in normalized [0,1]
// atlas coordinates and its horizontal advance in pixels.
type Glyph struct {
	U0, V0 float32
	U1, V1 float32

	// Advance is the horizontal pen advance after this glyph.
	Advance float32

	// Width and Height are the cell dimensions in pixels.
	Width  float32
	Height float32
}

// Quad is one positioned glyph ready to become four vertices: a screen
// rectangle and the matching atlas UV rectangle.
type Quad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// Atlas is a rasterized font atlas: alpha8 coverage pixels plus the glyph
// table. Atlases are immutable once built.
type Atlas struct {
	pixels []byte
	width  int
	height int

	glyphs     map[rune]Glyph
	size       float64
	lineHeight float64
}

// options holds optional configuration for Build.
type options struct {
	size  float64
	runes []rune
}

// Option configures atlas construction.
type Option func(*options)

// WithSize sets the font size in pixels. Default is 16.
func WithSize(size float64) Option {
	return func(o *options) {
		o.size = size
	}
}

// WithRunes sets the glyph set to rasterize. Default is printable ASCII
// (32 through 126).
func WithRunes(runes []rune) Option {
	return func(o *options) {
		o.runes = runes
	}
}

func defaultOptions() options {
	runes := make([]rune, 0, 95)
	for r := rune(32); r <= 126; r++ {
		runes = append(runes, r)
	}
	return options{size: 16, runes: runes}
}

// Default builds a printable-ASCII atlas from the embedded Latin Modern
// regular face.
func Default() (*Atlas, error) {
	return Build(lmroman10regular.TTF)
}

// Build rasterizes the requested glyph set from TTF font data.
//
// Runes the font has no glyph for are skipped; if none remain, Build
// fails with ErrNoGlyphs. Unparseable font data fails with ErrInvalidFont.
func Build(ttf []byte, opts ...Option) (*Atlas, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(ttf) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidFont)
	}
	if o.size <= 0 {
		return nil, fmt.Errorf("fontatlas: invalid font size %v", o.size)
	}

	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}

	// Measure advances first; the widest glyph fixes the cell width.
	shaper := &shaping.HarfbuzzShaper{}
	type slot struct {
		r       rune
		advance float64
	}
	var slots []slot
	var maxAdvance float64
	for _, r := range o.runes {
		adv, ok := shapeRune(shaper, face, r, o.size)
		if !ok {
			continue
		}
		slots = append(slots, slot{r: r, advance: adv})
		if adv > maxAdvance {
			maxAdvance = adv
		}
	}
	if len(slots) == 0 {
		return nil, ErrNoGlyphs
	}

	cellW := int(math.Ceil(maxAdvance)) + 2*atlasPadding
	cellH := int(math.Ceil(o.size*1.5)) + 2*atlasPadding
	baseline := atlasPadding + math.Ceil(o.size)

	cols := atlasColumns
	if len(slots) < cols {
		cols = len(slots)
	}
	rows := (len(slots) + cols - 1) / cols
	atlasW := cols * cellW
	atlasH := rows * cellH

	// Rasterize white-on-transparent through gg, then keep the coverage
	// channel only.
	source, err := ggtext.NewFontSource(ttf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	dc := gg.NewContext(atlasW, atlasH)
	dc.SetFont(source.Face(o.size))
	dc.SetRGB(1, 1, 1)

	glyphs := make(map[rune]Glyph, len(slots))
	for i, s := range slots {
		cx := (i % cols) * cellW
		cy := (i / cols) * cellH
		dc.DrawString(string(s.r), float64(cx)+atlasPadding, float64(cy)+baseline)

		glyphs[s.r] = Glyph{
			U0:      float32(cx) / float32(atlasW),
			V0:      float32(cy) / float32(atlasH),
			U1:      float32(cx+cellW) / float32(atlasW),
			V1:      float32(cy+cellH) / float32(atlasH),
			Advance: float32(s.advance),
			Width:   float32(cellW),
			Height:  float32(cellH),
		}
	}

	a := &Atlas{
		pixels:     coverage(dc.Image(), atlasW, atlasH),
		width:      atlasW,
		height:     atlasH,
		glyphs:     glyphs,
		size:       o.size,
		lineHeight: float64(cellH),
	}

	imcanvas.Logger().Debug("font atlas built",
		"glyphs", len(glyphs), "width", atlasW, "height", atlasH, "size", o.size)
	return a, nil
}

// shapeRune shapes a single rune and returns its pixel advance.
// Returns false when the font has no glyph for the rune.
func shapeRune(shaper *shaping.HarfbuzzShaper, face *font.Face, r rune, size float64) (float64, bool) {
	out := shaper.Shape(shaping.Input{
		Text:      []rune{r},
		RunStart:  0,
		RunEnd:    1,
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      fixed.Int26_6(size * 64),
		Script:    language.LookupScript(r),
		Language:  language.NewLanguage("en"),
	})
	if len(out.Glyphs) == 0 {
		return 0, false
	}
	g := out.Glyphs[0]
	if g.GlyphID == 0 {
		// Glyph 0 is .notdef: the font does not cover this rune.
		return 0, false
	}
	return float64(g.Advance) / 64.0, true
}

// coverage extracts the alpha channel of the rasterized atlas image.
func coverage(img image.Image, width, height int) []byte {
	pixels := make([]byte, width*height)
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < height; y++ {
			row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+width*4]
			for x := 0; x < width; x++ {
				pixels[y*width+x] = row[x*4+3]
			}
		}
		return pixels
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			pixels[y*width+x] = uint8(a >> 8) //nolint:gosec // 16-bit to 8-bit
		}
	}
	return pixels
}

// Pixels returns the alpha8 coverage bitmap, one byte per pixel.
func (a *Atlas) Pixels() []byte {
	return a.pixels
}

// Width returns the atlas width in pixels.
func (a *Atlas) Width() int {
	return a.width
}

// Height returns the atlas height in pixels.
func (a *Atlas) Height() int {
	return a.height
}

// Size returns the font size the atlas was rasterized at.
func (a *Atlas) Size() float64 {
	return a.size
}

// LineHeight returns the vertical advance between text lines in pixels.
func (a *Atlas) LineHeight() float64 {
	return a.lineHeight
}

// Glyph returns the atlas entry for a rune.
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	g, ok := a.glyphs[r]
	return g, ok
}

// FontAtlas adapts the atlas to the renderer's construction input.
func (a *Atlas) FontAtlas() imcanvas.FontAtlas {
	return imcanvas.FontAtlas{
		Pixels: a.pixels,
		Width:  a.width,
		Height: a.height,
	}
}

// Quads lays out a single line of text starting at the baseline pen
// position (x, y) and returns one quad per covered rune. Runes without a
// glyph are skipped, matching the skip in Build.
func (a *Atlas) Quads(text string, x, y float32) []Quad {
	quads := make([]Quad, 0, len(text))
	ascent := float32(math.Ceil(a.size)) + atlasPadding
	for _, r := range text {
		g, ok := a.glyphs[r]
		if !ok {
			continue
		}
		quads = append(quads, Quad{
			X0: x, Y0: y - ascent,
			X1: x + g.Width, Y1: y - ascent + g.Height,
			U0: g.U0, V0: g.V0,
			U1: g.U1, V1: g.V1,
		})
		x += g.Advance
	}
	return quads
}
