// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package material holds the engine's material description: a tagged
// union over the three PBR shading methods glTF exposes, plus the
// common maps and alpha-handling fields every method shares. A Material
// is purely data — it borrows texture handles and never owns them.
package material

import (
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/texture"
)

// Method names the PBR shading method a Material uses.
type Method int

const (
	MethodSpecularGlossiness Method = iota
	MethodMetallicRoughness
	MethodUnlit
)

// AlphaMode names how a material's alpha channel is interpreted.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaBlend
	AlphaMask
)

// SpecularGlossiness holds the specular-glossiness variant's factors and
// textures.
type SpecularGlossiness struct {
	DiffuseFactor             math32.Color4
	SpecularFactor            math32.Color
	GlossinessFactor          float32
	DiffuseTexture            *texture.Texture
	SpecularGlossinessTexture *texture.Texture
}

// MetallicRoughness holds the metallic-roughness variant's factors and
// textures.
type MetallicRoughness struct {
	BaseColorFactor          math32.Color4
	MetallicFactor           float32
	RoughnessFactor          float32
	BaseColorTexture         *texture.Texture
	MetallicRoughnessTexture *texture.Texture
}

// Unlit holds the unlit variant's single factor and texture.
type Unlit struct {
	BaseColorFactor  math32.Color4
	BaseColorTexture *texture.Texture
}

// Material is a tagged union by Method, plus the maps and alpha handling
// common to every method.
type Material struct {
	Method Method

	SpecGloss SpecularGlossiness // valid when Method == MethodSpecularGlossiness
	MetalRough MetallicRoughness // valid when Method == MethodMetallicRoughness
	Unlit     Unlit              // valid when Method == MethodUnlit

	NormalTexture    *texture.Texture
	NormalScale      float32
	OcclusionTexture *texture.Texture
	OcclusionStrength float32
	EmissiveFactor   math32.Color
	EmissiveTexture  *texture.Texture

	AlphaMode   AlphaMode
	AlphaCutoff float32
	DoubleSided bool
}

// NewMetallicRoughness returns a Material of method metallic-roughness
// holding p unchanged on top of the shared defaults (opaque,
// single-sided). p's own factors are stored as given, not defaulted.
func NewMetallicRoughness(p MetallicRoughness) *Material {

	m := newDefault()
	m.Method = MethodMetallicRoughness
	m.MetalRough = p
	return m
}

// NewSpecularGlossiness returns a Material of method specular-glossiness
// with the given properties applied on top of the shared defaults.
func NewSpecularGlossiness(p SpecularGlossiness) *Material {

	m := newDefault()
	m.Method = MethodSpecularGlossiness
	m.SpecGloss = p
	return m
}

// NewUnlit returns a Material of method unlit with the given properties
// applied on top of the shared defaults.
func NewUnlit(p Unlit) *Material {

	m := newDefault()
	m.Method = MethodUnlit
	m.Unlit = p
	return m
}

func newDefault() *Material {

	return &Material{
		AlphaMode:         AlphaOpaque,
		AlphaCutoff:       0.5,
		NormalScale:       1,
		OcclusionStrength: 1,
		EmissiveFactor:    math32.Color{R: 0, G: 0, B: 0},
	}
}

// TextureMask returns the bit mask of which texture slots are present,
// in the bit order the material uniform block's texture-mask field
// expects: bit 0 = base/diffuse color, bit 1 = metallic-roughness or
// specular-glossiness, bit 2 = normal, bit 3 = occlusion, bit 4 =
// emissive.
func (m *Material) TextureMask() uint32 {

	var mask uint32
	switch m.Method {
	case MethodMetallicRoughness:
		if m.MetalRough.BaseColorTexture != nil {
			mask |= 1 << 0
		}
		if m.MetalRough.MetallicRoughnessTexture != nil {
			mask |= 1 << 1
		}
	case MethodSpecularGlossiness:
		if m.SpecGloss.DiffuseTexture != nil {
			mask |= 1 << 0
		}
		if m.SpecGloss.SpecularGlossinessTexture != nil {
			mask |= 1 << 1
		}
	case MethodUnlit:
		if m.Unlit.BaseColorTexture != nil {
			mask |= 1 << 0
		}
	}
	if m.NormalTexture != nil {
		mask |= 1 << 2
	}
	if m.OcclusionTexture != nil {
		mask |= 1 << 3
	}
	if m.EmissiveTexture != nil {
		mask |= 1 << 4
	}
	return mask
}

// Textures returns every non-nil texture the material references, in
// the binding-slot order the orchestrator uses when encoding the
// descriptor table (base/diffuse, metallic-roughness/specular-
// glossiness, normal, occlusion, emissive). Borrowed, not owned: callers
// must not call Deinit on the results through this slice.
func (m *Material) Textures() []*texture.Texture {

	var ts []*texture.Texture
	switch m.Method {
	case MethodMetallicRoughness:
		ts = appendNonNil(ts, m.MetalRough.BaseColorTexture, m.MetalRough.MetallicRoughnessTexture)
	case MethodSpecularGlossiness:
		ts = appendNonNil(ts, m.SpecGloss.DiffuseTexture, m.SpecGloss.SpecularGlossinessTexture)
	case MethodUnlit:
		ts = appendNonNil(ts, m.Unlit.BaseColorTexture)
	}
	ts = appendNonNil(ts, m.NormalTexture, m.OcclusionTexture, m.EmissiveTexture)
	return ts
}

func appendNonNil(dst []*texture.Texture, ts ...*texture.Texture) []*texture.Texture {

	for _, t := range ts {
		if t != nil {
			dst = append(dst, t)
		}
	}
	return dst
}
