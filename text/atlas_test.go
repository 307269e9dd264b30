// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package text

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/texture"
)

func TestColor4NRGBA(t *testing.T) {

	c := Color4NRGBA(&math32.Color4{R: 1, G: 0, B: 0.5, A: 1})
	assert.Equal(t, uint8(0xFF), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(0xFF), c.A)
}

func TestAtlasTextureData(t *testing.T) {

	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	a := &Atlas{Image: img}

	data := a.TextureData()
	require.NotNil(t, data)
	assert.Equal(t, gpu.FormatRGBA8, data.Format)
	assert.Equal(t, 16, data.Width)
	assert.Equal(t, 8, data.Height)
	assert.Equal(t, len(img.Pix), len(data.Data))
	assert.Equal(t, texture.WrapClampToEdge, data.Sampler.WrapS)
	assert.Equal(t, texture.WrapClampToEdge, data.Sampler.WrapT)
	assert.Equal(t, texture.FilterLinear, data.Sampler.MinFilter)
}
