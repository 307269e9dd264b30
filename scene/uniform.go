// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"encoding/binary"
	"math"

	"github.com/vorn3d/engine/camera"
	"github.com/vorn3d/engine/light"
	"github.com/vorn3d/engine/material"
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/skin"
)

// packer writes little-endian float32/uint32 values into a fixed byte
// slice at an advancing cursor, the byte-exact layout the device
// shaders are compiled against.
type packer struct {
	buf []byte
	off int
}

func newPacker(buf []byte) *packer { return &packer{buf: buf} }

func (p *packer) f32(v float32) {

	binary.LittleEndian.PutUint32(p.buf[p.off:], math.Float32bits(v))
	p.off += 4
}

func (p *packer) u32(v uint32) {

	binary.LittleEndian.PutUint32(p.buf[p.off:], v)
	p.off += 4
}

func (p *packer) mat4(m math32.Matrix4) {

	for _, v := range m {
		p.f32(v)
	}
}

func (p *packer) pad(n int) { p.off += n }

// packGlobal writes the global uniform block: view, perspective-
// projection, orthographic-projection and view-projection matrices,
// then a 6-float viewport padded to 32 bytes.
func packGlobal(buf []byte, cam *camera.Camera, viewport [6]float32) {

	p := newPacker(buf)
	view := cam.ViewMatrix()
	persp := cam.PerspectiveMatrix()
	ortho := cam.OrthographicMatrix()
	viewProj := cam.ViewProjMatrix()

	p.mat4(view)
	p.mat4(persp)
	p.mat4(ortho)
	p.mat4(viewProj)
	for _, v := range viewport {
		p.f32(v)
	}
	p.pad(32 - len(viewport)*4)
}

// lightType tags a light uniform slot's kind, matching the device
// shader's enumeration.
const (
	lightTypePoint uint32 = iota
	lightTypeSpot
	lightTypeDirectional
)

// packLight writes one 64-byte slot per light into buf (callers must
// size buf to lightBlockSize and pre-zero unused trailing slots).
func packLight(buf []byte, lights []*light.Light) {

	for i, l := range lights {
		p := newPacker(buf[i*lightSlotSize:])

		var kind uint32
		switch l.Kind {
		case light.KindPoint:
			kind = lightTypePoint
		case light.KindSpot:
			kind = lightTypeSpot
		case light.KindDirectional:
			kind = lightTypeDirectional
		}
		p.u32(kind)
		p.f32(l.Intensity)
		p.f32(l.Range)
		p.f32(l.Color.R)
		p.f32(l.Color.G)
		p.f32(l.Color.B)

		scale, offset := l.AngularAttenuation()
		p.f32(scale)

		pos := l.Position()
		p.f32(pos.X)
		p.f32(pos.Y)
		p.f32(pos.Z)

		p.f32(offset)

		dir := l.Direction()
		p.f32(dir.X)
		p.f32(dir.Y)
		p.f32(dir.Z)
	}
}

// packModelInstance writes a model instance block: model, normal and
// model-view matrices, then maxJoints joint-matrix/joint-normal-matrix
// pairs, identity beyond a skeleton's own joint count.
func packModelInstance(buf []byte, world, normal, modelView math32.Matrix4, sk *skin.Skeleton, maxJoints int) {

	p := newPacker(buf)
	p.mat4(world)
	p.mat4(normal)
	p.mat4(modelView)

	joints := make([]math32.Matrix4, maxJoints)
	if sk != nil {
		sk.JointMatrices(joints, maxJoints)
	} else {
		for i := range joints {
			joints[i].Identity()
		}
	}
	for i := range joints {
		p.mat4(joints[i])
		var jointNormal math32.Matrix4
		if err := jointNormal.GetInverse(&joints[i]); err != nil {
			jointNormal.Identity()
		} else {
			jointNormal.Transpose()
		}
		p.mat4(jointNormal)
	}
}

// packSimpleInstance writes a terrain/particle instance block: model and
// normal matrices only.
func packSimpleInstance(buf []byte, world, normal math32.Matrix4) {

	p := newPacker(buf)
	p.mat4(world)
	p.mat4(normal)
}

// packQuadInstance writes a quad/label instance block: model and normal
// matrices plus a width/height dimension pair.
func packQuadInstance(buf []byte, world, normal math32.Matrix4, width, height float32) {

	p := newPacker(buf)
	p.mat4(world)
	p.mat4(normal)
	p.f32(width)
	p.f32(height)
	p.pad(8)
}

// packMaterial writes a material uniform block: method/blend tags,
// normal/occlusion scalars, colour/PBR/emissive factors and the
// texture-mask bitmap.
func packMaterial(buf []byte, m *material.Material) {

	p := newPacker(buf)
	if m == nil {
		p.pad(materialBlockSize)
		return
	}

	p.u32(uint32(m.Method))
	p.u32(uint32(m.AlphaMode))
	p.f32(m.NormalScale)
	p.f32(m.OcclusionStrength)

	var colorFactor, pbrFactor math32.Color4
	switch m.Method {
	case material.MethodMetallicRoughness:
		colorFactor = m.MetalRough.BaseColorFactor
		pbrFactor = math32.Color4{R: m.MetalRough.MetallicFactor, G: m.MetalRough.RoughnessFactor}
	case material.MethodSpecularGlossiness:
		colorFactor = m.SpecGloss.DiffuseFactor
		pbrFactor = math32.Color4{R: m.SpecGloss.SpecularFactor.R, G: m.SpecGloss.SpecularFactor.G, B: m.SpecGloss.SpecularFactor.B, A: m.SpecGloss.GlossinessFactor}
	case material.MethodUnlit:
		colorFactor = m.Unlit.BaseColorFactor
	}
	p.f32(colorFactor.R)
	p.f32(colorFactor.G)
	p.f32(colorFactor.B)
	p.f32(colorFactor.A)
	p.f32(pbrFactor.R)
	p.f32(pbrFactor.G)
	p.f32(pbrFactor.B)
	p.f32(pbrFactor.A)
	p.f32(m.EmissiveFactor.R)
	p.f32(m.EmissiveFactor.G)
	p.f32(m.EmissiveFactor.B)
	p.u32(m.TextureMask())
}
