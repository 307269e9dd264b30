// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package text

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorn3d/engine/collection"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/texture"
)

// fakeMeasurer reports a fixed 10px advance per rune, so glyph X offsets
// are exact integers to assert against without parsing a real font.
type fakeMeasurer struct{}

func (fakeMeasurer) MeasureText(s string) (int, int) {

	return 10 * len([]rune(s)), 12
}

func testAtlas() *Atlas {

	a := &Atlas{
		Chars:  make([]CharInfo, 128),
		Height: 12,
	}
	for _, r := range []rune("ABC") {
		a.Chars[r] = CharInfo{Width: 8, Height: 12, OffsetX: 0.1, OffsetY: 0.2, RepeatX: 0.05, RepeatY: 0.5}
	}
	a.Image = image.NewRGBA(image.Rect(0, 0, 64, 16))
	return a
}

type fakeImage struct{ w, h int }

func (f *fakeImage) Copy(offset, extent [3]int, layer, level int, data []byte) error { return nil }
func (f *fakeImage) Dim() (int, int, int)                                           { return f.w, f.h, 1 }
func (f *fakeImage) Deinit()                                                        {}

func newFakeTexAtlas() *texture.Atlas {

	alloc := func(format gpu.PixelFormat, w, h, layers int) (gpu.Image, error) {
		return &fakeImage{w: w, h: h}, nil
	}
	copyLayers := func(dst, src gpu.Image, layers int) error { return nil }
	return texture.New(64, alloc, copyLayers)
}

func TestLayoutGlyphsSingleLine(t *testing.T) {

	atlas := testAtlas()
	glyphs := layoutGlyphs(fakeMeasurer{}, atlas, "AB")
	require.Len(t, glyphs, 2)

	assert.Equal(t, float32(0), glyphs[0].X)
	assert.Equal(t, float32(10), glyphs[1].X)
	assert.Equal(t, float32(0), glyphs[0].Y)
	assert.Equal(t, float32(8), glyphs[0].Width)
	assert.InDelta(t, 0.1, glyphs[0].U0, 1e-6)
	assert.InDelta(t, 0.15, glyphs[0].U1, 1e-6)
}

func TestLayoutGlyphsMultiLine(t *testing.T) {

	atlas := testAtlas()
	glyphs := layoutGlyphs(fakeMeasurer{}, atlas, "A\nB")
	require.Len(t, glyphs, 2)

	assert.Equal(t, float32(0), glyphs[0].Y)
	assert.Equal(t, float32(atlas.Height), glyphs[1].Y)
}

func TestLayoutGlyphsSkipsOutOfRangeRune(t *testing.T) {

	atlas := testAtlas()
	glyphs := layoutGlyphs(fakeMeasurer{}, atlas, "Aሴ")
	assert.Len(t, glyphs, 1)
}

func TestNewLabelWiring(t *testing.T) {

	atlas := testAtlas()
	texAtlas := newFakeTexAtlas()
	col := collection.New()

	lbl, err := newLabel(fakeMeasurer{}, atlas, texAtlas, "AB", [4]float32{1, 1, 1, 1}, col)
	require.NoError(t, err)
	require.NotNil(t, lbl.Texture)
	assert.Len(t, lbl.Glyphs, 2)
	assert.Equal(t, float32(20), lbl.Width)

	var fontCount int
	col.Each(collection.KindFont, func(name string, item interface{}) bool { fontCount++; return false })
	assert.Equal(t, 1, fontCount)
}
