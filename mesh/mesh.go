// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh holds a mesh's upload-ready vertex/index data and the
// primitive list the render orchestrator draws it with. A Mesh owns one
// shared byte blob holding every primitive's vertex and index data, plus
// device buffer handles the orchestrator uploads that blob into once.
package mesh

import (
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/material"
)

// Semantic is a bit in a primitive's vertex-attribute mask, naming which
// per-vertex data an attribute carries.
type Semantic uint32

const (
	SemPosition Semantic = 1 << iota
	SemNormal
	SemTangent
	SemTexCoord0
	SemTexCoord1
	SemColor
	SemJoints
	SemWeights
)

// Format names the element type and count backing an attribute.
type Format int

const (
	FormatFloat32 Format = iota
	FormatFloat32x2
	FormatFloat32x3
	FormatFloat32x4
	FormatUint8x4
	FormatUint16x4
)

// Attribute describes one vertex attribute: which semantic it carries,
// its element format, and its byte offset relative to the owning
// Primitive's vertex region.
type Attribute struct {
	Semantic Semantic
	Format   Format
	Offset   int64
}

// Primitive is one drawable piece of a mesh: a topology, a vertex and
// index count, the attribute layout describing how to read its vertex
// region, and the material it draws with. A mesh with N primitives
// requires N draw calls to render in full.
type Primitive struct {
	Topology gpu.Topology

	VertexCount int
	IndexCount  int
	IndexType   gpu.IndexType

	// VertexOffset is this primitive's byte offset into the mesh's shared
	// data blob. IndexOffset is relative to VertexOffset, mirroring the
	// original data layout's indx_data_off-from-data_off convention.
	VertexOffset int64
	IndexOffset  int64

	SemanticMask Semantic
	Attributes   []Attribute

	// Material is borrowed, not owned; nil means the orchestrator falls
	// back to a default material when encoding this primitive.
	Material *material.Material
}

// Data is the upload-ready description a Mesh is built from: every
// primitive plus the single byte blob backing all of them.
type Data struct {
	Primitives []Primitive
	Blob       []byte
}

// Mesh is a loaded mesh: the primitive list from Data plus the device
// vertex/index buffers the orchestrator uploaded Blob into.
type Mesh struct {
	primitives []Primitive
	vbuf       gpu.Buffer
	ibuf       gpu.Buffer
}

// New validates data and creates a Mesh bound to the given device
// buffers, which must already hold data.Blob's contents at offset 0 —
// uploading the blob is the caller's responsibility, since Mesh has no
// device context of its own to issue the copy with.
func New(data Data, vbuf, ibuf gpu.Buffer) (*Mesh, error) {

	if len(data.Primitives) == 0 {
		return nil, errkind.New(errkind.InvalidArgument, "mesh: data has no primitives")
	}
	for i, p := range data.Primitives {
		if p.VertexCount == 0 {
			return nil, errkind.New(errkind.InvalidArgument, "mesh: primitive %d has zero vertices", i)
		}
	}
	m := &Mesh{
		primitives: append([]Primitive(nil), data.Primitives...),
		vbuf:       vbuf,
		ibuf:       ibuf,
	}
	return m, nil
}

// PrimitiveCount returns the number of primitives in m — the number of
// draw calls required to render it in full.
func (m *Mesh) PrimitiveCount() int {

	return len(m.primitives)
}

// Material returns the material bound to primitive prim.
func (m *Mesh) Material(prim int) *material.Material {

	return m.primitives[prim].Material
}

// SetMaterial replaces the material bound to primitive prim, returning
// the one it replaced.
func (m *Mesh) SetMaterial(prim int, mat *material.Material) *material.Material {

	old := m.primitives[prim].Material
	m.primitives[prim].Material = mat
	return old
}

// Encode binds this mesh's vertex and index buffers on enc and issues
// one indexed draw call per primitive, in primitive order, drawing
// instN instances of each.
func (m *Mesh) Encode(enc gpu.Encoder, instN int) {

	for _, p := range m.primitives {
		enc.SetVBuf(0, m.vbuf, p.VertexOffset)
		enc.SetIBuf(m.ibuf, p.VertexOffset+p.IndexOffset, p.IndexType)
		enc.Draw(true, 0, p.IndexCount, instN, 0, 0)
	}
}

// Deinit releases m's device buffers.
func (m *Mesh) Deinit() {

	if m.vbuf != nil {
		m.vbuf.Deinit()
	}
	if m.ibuf != nil {
		m.ibuf.Deinit()
	}
}
