// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package light holds the engine's light description: a tagged union
// over {point, spot, directional}, purely data. A Light owns its node
// exclusively — the node only holds a non-owning core.Object back pointer —
// and the orchestrator reads its fields once per frame while packing
// the light uniform block; it never calls into this package to render.
package light

import (
	"math"

	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/errkind"
	"github.com/vorn3d/engine/math32"
)

// Kind names which of the three light types a Light is.
type Kind int

const (
	KindPoint Kind = iota
	KindSpot
	KindDirectional
)

// Light is a tagged union over Kind, owning the Node it is attached to.
type Light struct {
	Kind      Kind
	Color     math32.Color
	Intensity float32

	// Range applies to Point and Spot; zero means infinite range.
	Range float32

	// InnerConeAngle and OuterConeAngle (radians) apply to Spot only.
	// InnerConeAngle must be strictly less than OuterConeAngle.
	InnerConeAngle float32
	OuterConeAngle float32

	node *core.Node
}

// NewPoint creates a point light, allocating and owning a new Node.
func NewPoint(color math32.Color, intensity, rang float32) *Light {

	l := &Light{Kind: KindPoint, Color: color, Intensity: intensity, Range: rang}
	l.node = core.NewNode()
	l.node.SetObject(core.KindLight, l)
	return l
}

// NewDirectional creates a directional light, allocating and owning a
// new Node. Its direction is derived each frame from the node's world
// rotation applied to -Z (see Direction).
func NewDirectional(color math32.Color, intensity float32) *Light {

	l := &Light{Kind: KindDirectional, Color: color, Intensity: intensity}
	l.node = core.NewNode()
	l.node.SetObject(core.KindLight, l)
	return l
}

// NewSpot creates a spot light, allocating and owning a new Node.
// innerConeAngle must be strictly less than outerConeAngle or an
// invalid_argument error is returned.
func NewSpot(color math32.Color, intensity, rang, innerConeAngle, outerConeAngle float32) (*Light, error) {

	if innerConeAngle >= outerConeAngle {
		return nil, errkind.New(errkind.InvalidArgument, "light: inner cone angle %.4f must be less than outer %.4f", innerConeAngle, outerConeAngle)
	}
	l := &Light{
		Kind: KindSpot, Color: color, Intensity: intensity, Range: rang,
		InnerConeAngle: innerConeAngle, OuterConeAngle: outerConeAngle,
	}
	l.node = core.NewNode()
	l.node.SetObject(core.KindLight, l)
	return l, nil
}

// Node returns the node this light owns.
func (l *Light) Node() *core.Node {

	return l.node
}

// Direction returns the light's world-space direction: the node's world
// rotation applied to -Z. Meaningful for Spot and Directional.
func (l *Light) Direction() math32.Vector3 {

	wm := l.node.WorldMatrix()
	var rot math32.Matrix4
	rot.ExtractRotation(&wm)
	dir := math32.Vector3{X: 0, Y: 0, Z: -1}
	dir.ApplyMatrix4(&rot)
	return dir
}

// Position returns the light's world-space position.
func (l *Light) Position() math32.Vector3 {

	wm := l.node.WorldMatrix()
	return math32.Vector3{X: wm[12], Y: wm[13], Z: wm[14]}
}

// AngularAttenuation returns the (scale, offset) pair used by the light
// uniform block to compute a spot light's smooth cone falloff from the
// cosine of the angle between the light's direction and the sample
// direction, following the glTF KHR_lights_punctual formula:
//
//	scale  = 1 / max(cos(inner) - cos(outer), epsilon)
//	offset = -cos(outer) * scale
func (l *Light) AngularAttenuation() (scale, offset float32) {

	if l.Kind != KindSpot {
		return 0, 0
	}
	cosInner := float32(math.Cos(float64(l.InnerConeAngle)))
	cosOuter := float32(math.Cos(float64(l.OuterConeAngle)))
	denom := cosInner - cosOuter
	const epsilon = 1e-4
	if denom < epsilon {
		denom = epsilon
	}
	scale = 1 / denom
	offset = -cosOuter * scale
	return scale, offset
}
