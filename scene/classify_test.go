// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/light"
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/mesh"
)

func makeTestMesh(t *testing.T) *mesh.Mesh {

	data := mesh.Data{
		Primitives: []mesh.Primitive{{VertexCount: 3, IndexCount: 3, IndexType: gpu.IndexTypeU16}},
	}
	m, err := mesh.New(data, newFakeBuffer(64), newFakeBuffer(64))
	assert.NoError(t, err)
	return m
}

func TestClassifyGroupsModelsSharingMeshIntoOneBucket(t *testing.T) {

	m := makeTestMesh(t)
	root := New().Node()

	mo1 := NewModel(m)
	mo2 := NewModel(m)
	root.Insert(mo1.Node())
	root.Insert(mo2.Node())

	f := newFrame()
	assert.NoError(t, f.classify(root, 16))

	assert.Len(t, f.modelOrder, 1)
	assert.Len(t, f.models[f.modelOrder[0]].entries, 2)
}

func TestClassifySeparatesDifferentMeshesIntoDifferentBuckets(t *testing.T) {

	m1 := makeTestMesh(t)
	m2 := makeTestMesh(t)
	root := New().Node()

	root.Insert(NewModel(m1).Node())
	root.Insert(NewModel(m2).Node())

	f := newFrame()
	assert.NoError(t, f.classify(root, 16))

	assert.Len(t, f.modelOrder, 2)
}

func TestClassifyCollectsTerrainsParticlesQuadsLabels(t *testing.T) {

	m := makeTestMesh(t)
	root := New().Node()

	root.Insert(NewTerrain(m).Node())
	root.Insert(NewParticle(m).Node())
	root.Insert(NewQuad(1, 1).Node())
	root.Insert(NewLabel(1, 1).Node())

	f := newFrame()
	assert.NoError(t, f.classify(root, 16))

	assert.Len(t, f.terrains, 1)
	assert.Len(t, f.particles, 1)
	assert.Len(t, f.quads, 1)
	assert.Len(t, f.labels, 1)
}

func TestClassifyRejectsMoreThanMaxLights(t *testing.T) {

	root := New().Node()
	for i := 0; i < 3; i++ {
		l := light.NewPoint(math32.Color{R: 1, G: 1, B: 1}, 1, 0)
		root.Insert(l.Node())
	}

	f := newFrame()
	err := f.classify(root, 2)
	assert.True(t, errkind.Is(err, errkind.Limit))
}

