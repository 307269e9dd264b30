// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"sort"

	"github.com/vorn3d/engine/core"
)

// step is one unit of encode work: either an instanced batch of models
// sharing a mesh, or a single terrain/particle/quad/label. Ordering
// guarantees models before terrains before particles before quads
// before labels, and within a model bucket, entries in insertion order
// split tier-descending exactly as decomposePow2 would.
type step struct {
	kind core.ObjectKind
	tier int

	models   []*Model
	terrain  *Terrain
	particle *Particle
	quad     *Quad
	label    *Label
}

// planModelBucket splits entries into steps of decreasing tier size,
// each step covering as many leading entries as its tier allows —
// mirroring decomposePow2's greedy largest-tier-first subtraction, but
// preserving which entries land in which step.
func planModelBucket(entries []*Model, tiers []int) []step {

	sorted := append([]int(nil), tiers...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	var steps []step
	i := 0
	for i < len(entries) {
		remaining := len(entries) - i
		tier := sorted[len(sorted)-1]
		for _, t := range sorted {
			if t <= remaining {
				tier = t
				break
			}
		}
		steps = append(steps, step{kind: core.KindModel, tier: tier, models: entries[i : i+tier]})
		i += tier
	}
	return steps
}

// buildSteps lays out the frame's entire draw work in bucket order:
// models, terrains, particles, quads, labels.
func buildSteps(f *frame, tiers []int) []step {

	var steps []step

	for _, key := range f.modelOrder {
		steps = append(steps, planModelBucket(f.models[key].entries, tiers)...)
	}
	for _, t := range f.terrains {
		steps = append(steps, step{kind: core.KindTerrain, tier: 1, terrain: t})
	}
	for _, p := range f.particles {
		steps = append(steps, step{kind: core.KindParticleSystem, tier: 1, particle: p})
	}
	for _, q := range f.quads {
		steps = append(steps, step{kind: core.KindQuad, tier: 1, quad: q})
	}
	for _, l := range f.labels {
		steps = append(steps, step{kind: core.KindLabel, tier: 1, label: l})
	}

	return steps
}

// blockSize returns the unpadded instance+material byte size this step
// needs in the uniform buffer.
func (s step) blockSize(maxJoints int) int64 {

	switch s.kind {
	case core.KindModel:
		return modelInstanceSize(maxJoints)*int64(len(s.models)) + materialBlockSize
	case core.KindTerrain, core.KindParticleSystem:
		return terrainInstanceSize
	default:
		return quadInstanceSize
	}
}
