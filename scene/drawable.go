// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/mesh"
	"github.com/vorn3d/engine/texture"
)

// Terrain is a height-field drawable: a mesh rendered one instance at a
// time, with no material-driven texture binding beyond what its mesh's
// primitives already carry.
type Terrain struct {
	node *core.Node
	mesh *mesh.Mesh
}

// NewTerrain creates a Terrain backed by m, allocating and owning a new
// node.
func NewTerrain(m *mesh.Mesh) *Terrain {

	t := &Terrain{mesh: m}
	t.node = core.NewNode()
	t.node.SetObject(core.KindTerrain, t)
	return t
}

// Node returns the node this terrain is attached to.
func (t *Terrain) Node() *core.Node { return t.node }

// Mesh returns the mesh this terrain draws.
func (t *Terrain) Mesh() *mesh.Mesh { return t.mesh }

// Particle is a particle-system drawable: same uniform footprint as
// Terrain (a model/normal matrix pair), rendered one instance at a time.
type Particle struct {
	node *core.Node
	mesh *mesh.Mesh
}

// NewParticle creates a Particle backed by m, allocating and owning a
// new node.
func NewParticle(m *mesh.Mesh) *Particle {

	p := &Particle{mesh: m}
	p.node = core.NewNode()
	p.node.SetObject(core.KindParticleSystem, p)
	return p
}

// Node returns the node this particle system is attached to.
func (p *Particle) Node() *core.Node { return p.node }

// Mesh returns the mesh this particle system draws.
func (p *Particle) Mesh() *mesh.Mesh { return p.mesh }

// Quad is a screen-aligned rectangle drawable: a model/normal matrix
// pair plus a width/height dimension pair, rendered one instance at a
// time with no mesh of its own — the orchestrator draws it from a
// built-in unit-quad primitive.
type Quad struct {
	node          *core.Node
	Width, Height float32
}

// NewQuad creates a Quad of the given dimensions, allocating and owning
// a new node.
func NewQuad(width, height float32) *Quad {

	q := &Quad{Width: width, Height: height}
	q.node = core.NewNode()
	q.node.SetObject(core.KindQuad, q)
	return q
}

// Node returns the node this quad is attached to.
func (q *Quad) Node() *core.Node { return q.node }

// Glyph is one positioned, sized glyph cell within a Label's run: a
// screen-space quad at (X, Y, Width, Height) within the label, textured
// from the normalized (U0, V0)-(U1, V1) rectangle of the label's bound
// font atlas texture.
type Glyph struct {
	X, Y          float32
	Width, Height float32
	U0, V0        float32
	U1, V1        float32
}

// Label is a Quad-shaped drawable with a glyph run instead of a single
// material texture: the same model/normal/dimension footprint as Quad,
// plus the glyphs the orchestrator draws from the bound font atlas.
type Label struct {
	node          *core.Node
	Width, Height float32
	Glyphs        []Glyph
	Color         [4]float32
	Texture       *texture.Texture
}

// NewLabel creates a Label of the given dimensions, allocating and
// owning a new node.
func NewLabel(width, height float32) *Label {

	l := &Label{Width: width, Height: height}
	l.node = core.NewNode()
	l.node.SetObject(core.KindLabel, l)
	return l
}

// Node returns the node this label is attached to.
func (l *Label) Node() *core.Node { return l.node }
