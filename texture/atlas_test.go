// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/gpu"
)

type fakeImage struct {
	w, h, layers int
	copies       int
}

func (f *fakeImage) Copy(offset, extent [3]int, layer, level int, data []byte) error {
	return nil
}
func (f *fakeImage) Dim() (int, int, int) { return f.w, f.h, 1 }
func (f *fakeImage) Deinit()              {}

func newFakeAtlas(initialCap int) (*Atlas, *int) {

	copyCount := 0
	alloc := func(format gpu.PixelFormat, w, h, layers int) (gpu.Image, error) {
		return &fakeImage{w: w, h: h, layers: layers}, nil
	}
	copyLayers := func(dst, src gpu.Image, layers int) error {
		copyCount++
		return nil
	}
	return New(initialCap, alloc, copyLayers), &copyCount
}

func TestAtlasUsedCountMatchesPopcount(t *testing.T) {

	atlas, _ := newFakeAtlas(64)

	var leased []struct {
		m     *ManagedImage
		layer int
	}
	for i := 0; i < 10; i++ {
		m, layer, err := atlas.Lease(gpu.FormatRGBA8, 128, 128)
		assert.NoError(t, err)
		leased = append(leased, struct {
			m     *ManagedImage
			layer int
		}{m, layer})
	}

	m := leased[0].m
	assert.Equal(t, 10, m.UsedCount())
	assert.Equal(t, m.popcount(), m.UsedCount())

	atlas.Release(leased[0].m, leased[0].layer)
	assert.Equal(t, 9, m.UsedCount())
	assert.Equal(t, m.popcount(), m.UsedCount())
}

func TestAtlasGrowsOnExhaustion(t *testing.T) {

	atlas, copies := newFakeAtlas(64)

	var first *ManagedImage
	for i := 0; i < 64; i++ {
		m, _, err := atlas.Lease(gpu.FormatRGBA8, 128, 128)
		assert.NoError(t, err)
		first = m
	}
	assert.Equal(t, 64, first.Capacity())

	m65, layer, err := atlas.Lease(gpu.FormatRGBA8, 128, 128)
	assert.NoError(t, err)
	assert.Same(t, first, m65, "growth replaces the image in place, same ManagedImage handle")
	assert.Equal(t, 128, first.Capacity())
	assert.Equal(t, 1, *copies, "growth issues exactly one GPU copy")
	assert.True(t, m65.bitSet(layer))
}

func TestAtlasReleaseDestroysEmptyImage(t *testing.T) {

	atlas, _ := newFakeAtlas(64)

	m, layer, err := atlas.Lease(gpu.FormatR8, 4, 4)
	assert.NoError(t, err)

	atlas.Release(m, layer)
	assert.Equal(t, 0, m.UsedCount())

	_, ok := atlas.images[key{format: gpu.FormatR8, width: 4, height: 4}]
	assert.False(t, ok)
}
