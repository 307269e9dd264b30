// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package text

import (
	"strings"

	"github.com/vorn3d/engine/collection"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/scene"
	"github.com/vorn3d/engine/texture"
)

// measurer is the subset of *Font that glyph layout needs, broken out so
// it can be exercised against a fake in tests without parsing a real
// TrueType font.
type measurer interface {
	MeasureText(text string) (int, int)
}

// NewLabel renders str against font using the glyph sheet baked into
// atlas (by NewAtlas), and returns a populated scene.Label ready to
// attach to a node. The glyph sheet is uploaded into texAtlas — the
// device array-image pool textures share, exactly as the glTF loader
// uploads its decoded images — and the CPU-side atlas itself is
// deposited into col under collection.KindFont so later labels sharing
// the same font/rune range can be built against it without re-baking.
func NewLabel(font *Font, atlas *Atlas, texAtlas *texture.Atlas, str string, color [4]float32, col *collection.Collection) (*scene.Label, error) {

	return newLabel(font, atlas, texAtlas, str, color, col)
}

// newLabel holds NewLabel's body against the measurer interface rather
// than the concrete *Font, so glyph layout and the upload/Manage wiring
// can be exercised against a fake in tests without parsing a real
// TrueType font.
func newLabel(m measurer, atlas *Atlas, texAtlas *texture.Atlas, str string, color [4]float32, col *collection.Collection) (*scene.Label, error) {

	tex, err := texture.New(texAtlas, atlas.TextureData())
	if err != nil {
		return nil, errkind.Wrap(errkind.DeviceGenerated, err, "text: upload glyph atlas sheet")
	}
	if _, err := col.Manage(collection.KindFont, "", atlas); err != nil {
		return nil, err
	}

	width, height := m.MeasureText(str)
	lbl := scene.NewLabel(float32(width), float32(height))
	lbl.Color = color
	lbl.Texture = tex
	lbl.Glyphs = layoutGlyphs(m, atlas, str)
	return lbl, nil
}

// layoutGlyphs positions one scene.Glyph per rune of str, advancing each
// line left to right by the same font.MeasureText prefix-width technique
// DrawTextCaret uses to locate a caret, and stacking lines by the
// atlas's line height.
func layoutGlyphs(m measurer, atlas *Atlas, str string) []scene.Glyph {

	var glyphs []scene.Glyph
	for li, line := range strings.Split(str, "\n") {
		y := float32(li * atlas.Height)
		runes := []rune(line)
		for ci, r := range runes {
			if int(r) < 0 || int(r) >= len(atlas.Chars) {
				continue
			}
			cinfo := atlas.Chars[r]
			prefixW, _ := m.MeasureText(string(runes[:ci]))
			glyphs = append(glyphs, scene.Glyph{
				X:      float32(prefixW),
				Y:      y,
				Width:  float32(cinfo.Width),
				Height: float32(cinfo.Height),
				U0:     cinfo.OffsetX,
				V0:     cinfo.OffsetY,
				U1:     cinfo.OffsetX + cinfo.RepeatX,
				V1:     cinfo.OffsetY + cinfo.RepeatY,
			})
		}
	}
	return glyphs
}
