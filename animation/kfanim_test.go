// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/math32"
)

func makeTranslation(t *testing.T) (*KfAnim, *core.Node) {

	inputs := []Input{{Timeline: []float32{0, 1, 2}}}
	outputs := []Output{{
		Property: PropertyT,
		T: []math32.Vector3{
			{X: 0, Y: 0, Z: 0},
			{X: 10, Y: 0, Z: 0},
			{X: 10, Y: 10, Z: 0},
		},
	}}
	acts := []Act{{Interp: InterpLinear, InputIdx: 0, OutputIdx: 0}}

	anim, err := New(inputs, outputs, acts)
	assert.NoError(t, err)

	node := core.NewNode()
	assert.NoError(t, anim.SetTarget(0, node))
	return anim, node
}

func TestApplyLinearInterpolatesMidframe(t *testing.T) {

	anim, node := makeTranslation(t)

	remaining := anim.Apply(0.5)
	assert.InDelta(t, 1.5, remaining, 1e-6)

	pos := node.Position()
	assert.InDelta(t, 5, pos.X, 1e-5)
	assert.InDelta(t, 0, pos.Y, 1e-5)
}

func TestApplyClampsBeforeFirstAndAfterLastSample(t *testing.T) {

	anim, node := makeTranslation(t)

	anim.Apply(-5)
	pos := node.Position()
	assert.InDelta(t, 0, pos.X, 1e-6)

	anim.Apply(50)
	pos = node.Position()
	assert.InDelta(t, 10, pos.X, 1e-6)
	assert.InDelta(t, 10, pos.Y, 1e-6)
}

func TestApplyStepPicksNearestKeyframe(t *testing.T) {

	inputs := []Input{{Timeline: []float32{0, 1}}}
	outputs := []Output{{
		Property: PropertyS,
		S: []math32.Vector3{
			{X: 1, Y: 1, Z: 1},
			{X: 2, Y: 2, Z: 2},
		},
	}}
	acts := []Act{{Interp: InterpStep, InputIdx: 0, OutputIdx: 0}}
	anim, err := New(inputs, outputs, acts)
	assert.NoError(t, err)

	node := core.NewNode()
	assert.NoError(t, anim.SetTarget(0, node))

	anim.Apply(0.25)
	assert.Equal(t, float32(1), node.Scale().X)

	anim.Apply(0.75)
	assert.Equal(t, float32(2), node.Scale().X)
}

func TestApplySkipsActsWithNoTarget(t *testing.T) {

	anim, _ := makeTranslation(t)
	assert.NoError(t, anim.SetTarget(0, nil))

	assert.NotPanics(t, func() { anim.Apply(1) })
}

func TestNewRejectsNegativeTimelineStart(t *testing.T) {

	inputs := []Input{{Timeline: []float32{-1, 1}}}
	outputs := []Output{{Property: PropertyT, T: []math32.Vector3{{}, {}}}}
	acts := []Act{{InputIdx: 0, OutputIdx: 0}}

	_, err := New(inputs, outputs, acts)
	assert.Error(t, err)
}

func TestPlayerLoopsAtDuration(t *testing.T) {

	anim, node := makeTranslation(t)
	p := NewPlayer(anim)
	p.SetLoop(true)

	p.Advance(2.5)
	pos := node.Position()
	assert.InDelta(t, 5, pos.X, 1e-2)
}

func TestPlayerPausesAtEndWithoutLoop(t *testing.T) {

	anim, node := makeTranslation(t)
	p := NewPlayer(anim)

	p.Advance(10)
	assert.True(t, p.Paused())
	pos := node.Position()
	assert.InDelta(t, 10, pos.X, 1e-6)
}
