// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/mesh"
	"github.com/vorn3d/engine/skin"
)

// Model is a mesh instance, optionally skinned, attached to a node. Two
// models sharing the same (mesh, material-per-primitive) identity are
// batched into the same instanced draw by the orchestrator's
// classification pass.
type Model struct {
	node     *core.Node
	mesh     *mesh.Mesh
	skeleton *skin.Skeleton
}

// NewModel creates a Model drawing m, allocating and owning a new node.
func NewModel(m *mesh.Mesh) *Model {

	mo := &Model{mesh: m}
	mo.node = core.NewNode()
	mo.node.SetObject(core.KindModel, mo)
	return mo
}

// Node returns the node this model is attached to.
func (mo *Model) Node() *core.Node { return mo.node }

// Mesh returns the mesh this model draws.
func (mo *Model) Mesh() *mesh.Mesh { return mo.mesh }

// Skeleton returns the skeleton driving this model's joint matrices, or
// nil if the model is unskinned.
func (mo *Model) Skeleton() *skin.Skeleton { return mo.skeleton }

// SetSkeleton binds (or clears, with sk == nil) the skeleton driving
// this model's joint matrices.
func (mo *Model) SetSkeleton(sk *skin.Skeleton) { mo.skeleton = sk }

// modelKey identifies one instanced-draw bucket: models sharing a mesh
// identity are drawn together, in as many instanced calls as the mesh
// has primitives. Keying on mesh alone (rather than on (mesh, material)
// as a node/drawable-level scene graph would) is equivalent here because
// material is carried per-primitive on the mesh itself, not as a
// separate per-model component — two Models pointing at the same *mesh.Mesh
// necessarily share every primitive's material already.
type modelKey struct {
	mesh *mesh.Mesh
}

// modelBucket accumulates the models sharing one modelKey. entries
// starts inline at capacity 1 and grows to 16, then doubles, mirroring
// the managed-image atlas's own geometric growth.
type modelBucket struct {
	entries []*Model
}

func (b *modelBucket) append(mo *Model) {

	if b.entries == nil {
		b.entries = make([]*Model, 0, 1)
	} else if len(b.entries) == cap(b.entries) {
		newCap := 16
		if cap(b.entries) >= 16 {
			newCap = cap(b.entries) * 2
		}
		grown := make([]*Model, len(b.entries), newCap)
		copy(grown, b.entries)
		b.entries = grown
	}
	b.entries = append(b.entries, mo)
}
