// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/light"
)

// frame holds everything the orchestrator accumulates while walking one
// scene graph: the classified buckets plus the lights in view. It is
// reset at the start of every render and discarded at the end of it —
// nothing here survives across frames.
type frame struct {
	models     map[modelKey]*modelBucket
	modelOrder []modelKey

	terrains  []*Terrain
	particles []*Particle
	quads     []*Quad
	labels    []*Label

	lights []*light.Light
}

func newFrame() *frame {

	return &frame{models: make(map[modelKey]*modelBucket)}
}

// classify walks root breadth-first, refreshing every node's world
// matrices and sorting attached objects into f's buckets. It returns an
// error if more than maxLights lights are found.
func (f *frame) classify(root *core.Node, maxLights int) error {

	var classifyErr error

	core.Traverse(root, func(n *core.Node) bool {

		obj := n.Object()
		switch obj.Kind {

		case core.KindModel:
			mo := obj.Value.(*Model)
			key := modelKey{mesh: mo.mesh}
			b, ok := f.models[key]
			if !ok {
				b = &modelBucket{}
				f.models[key] = b
				f.modelOrder = append(f.modelOrder, key)
			}
			b.append(mo)

		case core.KindTerrain:
			f.terrains = append(f.terrains, obj.Value.(*Terrain))

		case core.KindParticleSystem:
			f.particles = append(f.particles, obj.Value.(*Particle))

		case core.KindQuad:
			f.quads = append(f.quads, obj.Value.(*Quad))

		case core.KindLabel:
			f.labels = append(f.labels, obj.Value.(*Label))

		case core.KindLight:
			if len(f.lights) >= maxLights {
				classifyErr = errkind.New(errkind.Limit, "scene: more than %d lights in view", maxLights)
				return true
			}
			f.lights = append(f.lights, obj.Value.(*light.Light))
		}

		return false
	})

	return classifyErr
}
