// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/texture"
)

func TestMetallicRoughnessRoundTrip(t *testing.T) {

	tex := &texture.Texture{}
	p := MetallicRoughness{
		BaseColorFactor:  math32.Color4{R: 1, G: 0.5, B: 0.25, A: 1},
		MetallicFactor:   0.2,
		RoughnessFactor:  0.8,
		BaseColorTexture: tex,
	}
	m := NewMetallicRoughness(p)

	assert.Equal(t, MethodMetallicRoughness, m.Method)
	assert.Equal(t, p, m.MetalRough)
	assert.Equal(t, uint32(1), m.TextureMask())
	assert.Equal(t, []*texture.Texture{tex}, m.Textures())
}

func TestUnlitDefaults(t *testing.T) {

	m := NewUnlit(Unlit{BaseColorFactor: math32.Color4{R: 1, G: 1, B: 1, A: 1}})

	assert.Equal(t, AlphaOpaque, m.AlphaMode)
	assert.InDelta(t, 0.5, m.AlphaCutoff, 1e-9)
	assert.Equal(t, uint32(0), m.TextureMask())
}
