// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package animation implements keyframe animations driving a node's
// translation, rotation or scale over a shared set of timelines.
package animation

import (
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/math32"
)

// Interp names a keyframe interpolation method.
type Interp int

const (
	InterpStep Interp = iota
	InterpLinear
)

// Property names which TRS component an Output drives.
type Property int

const (
	PropertyT Property = iota
	PropertyR
	PropertyS
)

// Input is one shared keyframe timeline, non-decreasing.
type Input struct {
	Timeline []float32
}

// Output is one array of sampled values for a single animated property.
// Exactly one of T, R, S holds values, selected by Property.
type Output struct {
	Property Property
	T        []math32.Vector3
	R        []math32.Quaternion
	S        []math32.Vector3
}

func (o Output) len() int {

	switch o.Property {
	case PropertyT:
		return len(o.T)
	case PropertyS:
		return len(o.S)
	default:
		return len(o.R)
	}
}

// Act binds one Input timeline to one Output sample array via an
// interpolation method; a target node is attached separately with
// SetTarget so the same act can be retargeted without rebuilding the
// animation.
type Act struct {
	Interp    Interp
	InputIdx  int
	OutputIdx int
}

// KfAnim is a keyframe animation: a shared pool of input timelines and
// output sample arrays, bound together by a list of acts, each
// optionally targeting a scene node.
type KfAnim struct {
	inputs  []Input
	outputs []Output
	acts    []Act
	targets []*core.Node

	duration float32
}

// New validates inputs/outputs/acts and creates a KfAnim. Every input's
// timeline must be non-empty, start at or after zero, and be internally
// non-decreasing; duration is the latest final sample across every
// input's timeline.
func New(inputs []Input, outputs []Output, acts []Act) (*KfAnim, error) {

	if len(inputs) == 0 {
		return nil, errkind.New(errkind.InvalidArgument, "animation: no inputs")
	}
	if len(outputs) == 0 {
		return nil, errkind.New(errkind.InvalidArgument, "animation: no outputs")
	}
	if len(acts) == 0 {
		return nil, errkind.New(errkind.InvalidArgument, "animation: no acts")
	}

	var tmMin, tmMax float32
	for i, in := range inputs {
		if len(in.Timeline) == 0 {
			return nil, errkind.New(errkind.InvalidArgument, "animation: input %d has empty timeline", i)
		}
		for j := 1; j < len(in.Timeline); j++ {
			if in.Timeline[j] < in.Timeline[j-1] {
				return nil, errkind.New(errkind.InvalidArgument, "animation: input %d timeline decreases at sample %d", i, j)
			}
		}
		first, last := in.Timeline[0], in.Timeline[len(in.Timeline)-1]
		if i == 0 || first < tmMin {
			tmMin = first
		}
		if i == 0 || last > tmMax {
			tmMax = last
		}
	}
	if tmMin < 0 || tmMin > tmMax {
		return nil, errkind.New(errkind.InvalidArgument, "animation: invalid timeline bounds [%v, %v]", tmMin, tmMax)
	}

	for i, out := range outputs {
		if out.len() == 0 {
			return nil, errkind.New(errkind.InvalidArgument, "animation: output %d has no samples", i)
		}
	}

	for i, a := range acts {
		if a.InputIdx < 0 || a.InputIdx >= len(inputs) {
			return nil, errkind.New(errkind.InvalidArgument, "animation: act %d references invalid input %d", i, a.InputIdx)
		}
		if a.OutputIdx < 0 || a.OutputIdx >= len(outputs) {
			return nil, errkind.New(errkind.InvalidArgument, "animation: act %d references invalid output %d", i, a.OutputIdx)
		}
	}

	return &KfAnim{
		inputs:   append([]Input(nil), inputs...),
		outputs:  append([]Output(nil), outputs...),
		acts:     append([]Act(nil), acts...),
		targets:  make([]*core.Node, len(acts)),
		duration: tmMax,
	}, nil
}

// Duration returns the animation's total span.
func (a *KfAnim) Duration() float32 {

	return a.duration
}

// Acts returns the animation's act list.
func (a *KfAnim) Acts() []Act {

	return a.acts
}

// Target returns the node currently targeted by act, or nil if none is
// set.
func (a *KfAnim) Target(act int) (*core.Node, error) {

	if act < 0 || act >= len(a.targets) {
		return nil, errkind.New(errkind.InvalidArgument, "animation: act index %d out of range", act)
	}
	return a.targets[act], nil
}

// SetTarget sets (or clears, with target == nil) the node driven by act.
func (a *KfAnim) SetTarget(act int, target *core.Node) error {

	if act < 0 || act >= len(a.targets) {
		return errkind.New(errkind.InvalidArgument, "animation: act index %d out of range", act)
	}
	a.targets[act] = target
	return nil
}

// getKeyframes finds the pair of timeline indices bracketing frameTm in
// in's timeline, binary-searching and clamping to the first/last sample
// when frameTm falls outside the timeline's range.
func getKeyframes(in *Input, frameTm float32) (i1, i2 int) {

	tl := in.Timeline
	n := len(tl)

	if tl[0] > frameTm {
		return 0, 0
	}
	if tl[n-1] <= frameTm {
		return n - 1, n - 1
	}

	beg, end := 0, n-1
	cur := (beg + end) / 2
	for beg < end {
		switch {
		case tl[cur] < frameTm:
			beg = cur + 1
		case tl[cur] > frameTm:
			end = cur - 1
		default:
			beg, end = cur, cur
		}
		cur = (beg + end) / 2
	}

	if tl[cur] > frameTm {
		return cur - 1, cur
	}
	return cur, cur + 1
}

func lerp3(a, b math32.Vector3, t float32) math32.Vector3 {

	return math32.Vector3{
		X: (1-t)*a.X + t*b.X,
		Y: (1-t)*a.Y + t*b.Y,
		Z: (1-t)*a.Z + t*b.Z,
	}
}

// Apply evaluates every act at frameTm and writes the result into each
// act's target node, skipping acts with no target, and returns
// Duration() - frameTm.
func (a *KfAnim) Apply(frameTm float32) float32 {

	for i, act := range a.acts {
		node := a.targets[i]
		if node == nil {
			continue
		}

		in := &a.inputs[act.InputIdx]
		out := &a.outputs[act.OutputIdx]
		i1, i2 := getKeyframes(in, frameTm)

		switch out.Property {
		case PropertyT:
			node.SetPosition(interpVec3(act.Interp, out.T, in, frameTm, i1, i2))
		case PropertyR:
			node.SetRotation(interpQuat(act.Interp, out.R, in, frameTm, i1, i2))
		case PropertyS:
			node.SetScale(interpVec3(act.Interp, out.S, in, frameTm, i1, i2))
		}
	}

	return a.duration - frameTm
}

func interpVec3(method Interp, samples []math32.Vector3, in *Input, frameTm float32, i1, i2 int) math32.Vector3 {

	if i1 == i2 {
		return samples[i1]
	}
	switch method {
	case InterpStep:
		if frameTm-in.Timeline[i1] < in.Timeline[i2]-frameTm {
			return samples[i1]
		}
		return samples[i2]
	default:
		t := (frameTm - in.Timeline[i1]) / (in.Timeline[i2] - in.Timeline[i1])
		return lerp3(samples[i1], samples[i2], t)
	}
}

func interpQuat(method Interp, samples []math32.Quaternion, in *Input, frameTm float32, i1, i2 int) math32.Quaternion {

	if i1 == i2 {
		return samples[i1]
	}
	switch method {
	case InterpStep:
		if frameTm-in.Timeline[i1] < in.Timeline[i2]-frameTm {
			return samples[i1]
		}
		return samples[i2]
	default:
		t := (frameTm - in.Timeline[i1]) / (in.Timeline[i2] - in.Timeline[i1])
		q := samples[i1]
		q.Slerp(&samples[i2], t)
		return q
	}
}
