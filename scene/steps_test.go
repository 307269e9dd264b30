// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/core"
)

func TestPlanModelBucketSplitsLargestTierFirst(t *testing.T) {

	entries := make([]*Model, 67)
	steps := planModelBucket(entries, tiers)

	assert.Len(t, steps, 3)
	assert.Equal(t, 64, steps[0].tier)
	assert.Len(t, steps[0].models, 64)
	assert.Equal(t, 2, steps[1].tier)
	assert.Equal(t, 1, steps[2].tier)
}

func TestBuildStepsOrdersModelsThenTerrainsThenParticlesThenQuadsThenLabels(t *testing.T) {

	f := newFrame()
	m := makeTestMesh(t)
	mo := NewModel(m)
	f.models[modelKey{mesh: m}] = &modelBucket{entries: []*Model{mo}}
	f.modelOrder = []modelKey{{mesh: m}}
	f.terrains = []*Terrain{NewTerrain(m)}
	f.particles = []*Particle{NewParticle(m)}
	f.quads = []*Quad{NewQuad(1, 1)}
	f.labels = []*Label{NewLabel(1, 1)}

	steps := buildSteps(f, tiers)

	assert.Len(t, steps, 5)
	kinds := make([]core.ObjectKind, len(steps))
	for i, s := range steps {
		kinds[i] = s.kind
	}
	assert.Equal(t, []core.ObjectKind{
		core.KindModel, core.KindTerrain, core.KindParticleSystem, core.KindQuad, core.KindLabel,
	}, kinds)
}
