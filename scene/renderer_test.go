// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/camera"
	"github.com/vorn3d/engine/config"
	"github.com/vorn3d/engine/gpu"
	"github.com/vorn3d/engine/light"
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/resmgr"
)

func testLimits() config.Limits {

	lim := config.Default()
	lim.MinUniformAlignment = 32
	return lim
}

func TestRenderSinglePassDrawsEveryModel(t *testing.T) {

	m := makeTestMesh(t)
	s := New()
	root := s.Node()
	root.Insert(NewModel(m).Node())
	root.Insert(NewModel(m).Node())
	cam := camera.New(1, 1, 0.1, 100)
	s.SetCamera(cam)
	root.Insert(cam.Node())
	l := light.NewPoint(math32.Color{R: 1, G: 1, B: 1}, 1, 0)
	root.Insert(l.Node())

	ctx := &fakeContext{align: 32}
	r := New(ctx, fakePass{}, testLimits(), fakeAllocAlways, nil)

	stats, err := r.Render(s, fakeTarget{})
	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Models)
	assert.Equal(t, 1, stats.Lights)
	assert.Equal(t, 1, stats.Passes)

	cb := ctx.cmdBufs[len(ctx.cmdBufs)-1]
	assert.True(t, cb.ended)
	assert.Equal(t, 1, cb.execed)
	assert.Equal(t, 1, cb.enc.draws)
}

func TestRenderRejectsSceneWithoutCamera(t *testing.T) {

	s := New()
	ctx := &fakeContext{align: 32}
	r := New(ctx, fakePass{}, testLimits(), fakeAllocAlways, nil)

	_, err := r.Render(s, fakeTarget{})
	assert.Error(t, err)
}

func TestRenderFallsBackToMultiplePassesWhenPoolIsTooSmall(t *testing.T) {

	m1 := makeTestMesh(t)
	m2 := makeTestMesh(t)
	s := New()
	root := s.Node()
	root.Insert(NewModel(m1).Node())
	root.Insert(NewModel(m2).Node())
	cam := camera.New(1, 1, 0.1, 100)
	s.SetCamera(cam)

	// This device can only ever bake a single descriptor table per
	// variant, even though two model buckets each independently demand
	// one — forcing the multi-pass fallback to drain both.
	oneAtATime := func(v resmgr.Variant, n int) (gpu.GState, []gpu.DTable, error) {
		if n > 1 {
			return nil, nil, assertErr{}
		}
		return fakeAllocAlways(v, n)
	}

	ctx := &fakeContext{align: 32}
	r := New(ctx, fakePass{}, testLimits(), oneAtATime, nil)

	stats, err := r.Render(s, fakeTarget{})
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.Models)
	assert.Greater(t, stats.Passes, 1)

	var totalDraws int
	for _, cb := range ctx.cmdBufs {
		totalDraws += cb.enc.draws
	}
	assert.Equal(t, 2, totalDraws)
}
