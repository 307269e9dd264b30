// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texture

import (
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
)

// WrapMode names a texture's UV wrap behaviour.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

// Filter names a texture's min/mag/mip filtering behaviour.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Sampler bundles a texture's wrap and filter description.
type Sampler struct {
	WrapS, WrapT     WrapMode
	MinFilter        Filter
	MagFilter        Filter
	GenMipmap        bool
}

// TextureData is the decoded-image descriptor produced by the PNG/BMP
// loaders: raw pixel bytes, format, dimensions, a default sampler and a
// UV-set tag.
type TextureData struct {
	Format gpu.PixelFormat
	Width  int
	Height int
	Data   []byte
	Sampler
	UVSet int
}

// Texture is a (managed-image, layer) pair plus a sampler and UV-set.
// For its entire lifetime its layer remains set in the managed image's
// use-bitmap (invariant 3 in the testable-properties list).
type Texture struct {
	atlas   *Atlas
	managed *ManagedImage
	layer   int
	Sampler
	UVSet int
}

// New uploads data into a layer of the atlas's managed image for
// data.Format/Width/Height, creating or growing that image as needed,
// and returns the resulting Texture.
func New(atlas *Atlas, data *TextureData) (*Texture, error) {

	if data == nil || len(data.Data) == 0 {
		return nil, errkind.New(errkind.InvalidArgument, "texture: nil or empty texture data")
	}

	m, layer, err := atlas.Lease(data.Format, data.Width, data.Height)
	if err != nil {
		return nil, err
	}

	extent := [3]int{data.Width, data.Height, 1}
	if err := m.image.Copy([3]int{0, 0, 0}, extent, layer, 0, data.Data); err != nil {
		atlas.Release(m, layer)
		return nil, errkind.Wrap(errkind.DeviceGenerated, err, "texture: upload layer data")
	}

	return &Texture{
		atlas:   atlas,
		managed: m,
		layer:   layer,
		Sampler: data.Sampler,
		UVSet:   data.UVSet,
	}, nil
}

// Image returns the GPU image backing the texture (shared with every
// other texture of the same format/dimensions).
func (t *Texture) Image() gpu.Image {

	return t.managed.Image()
}

// Layer returns the array layer this texture occupies within Image().
func (t *Texture) Layer() int {

	return t.layer
}

// Dim returns the texture's pixel dimensions.
func (t *Texture) Dim() (w, h int) {

	iw, ih, _ := t.managed.image.Dim()
	return iw, ih
}

// Deinit releases the texture's layer back to the atlas, destroying the
// shared managed image if this was its last user.
func (t *Texture) Deinit() {

	if t.managed == nil {
		return
	}
	t.atlas.Release(t.managed, t.layer)
	t.managed = nil
}
