// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera provides the Scene's camera: a node (so it can be
// parented and animated like anything else in the graph) plus the
// projection parameters the orchestrator needs to pack the global
// uniform block's view, perspective-projection, orthographic-projection
// and view-projection matrices each frame.
package camera

import (
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/math32"
)

// Camera owns a Node and supplies the matrices the render orchestrator
// packs into the per-frame global uniform block.
type Camera struct {
	node   *core.Node
	target math32.Vector3
	up     math32.Vector3

	fov, aspect, near, far float32
	orthoWidth, orthoHeight float32
}

// New creates a Camera looking down -Z from the origin.
func New(fov, aspect, near, far float32) *Camera {

	c := &Camera{
		up:     math32.Vector3{X: 0, Y: 1, Z: 0},
		fov:    fov,
		aspect: aspect,
		near:   near,
		far:    far,
	}
	c.node = core.NewNode()
	c.orthoWidth = 2 * aspect
	c.orthoHeight = 2
	return c
}

// Node returns the node this camera is attached to.
func (c *Camera) Node() *core.Node {

	return c.node
}

// LookAt points the camera at target in world space.
func (c *Camera) LookAt(target math32.Vector3) {

	c.target = target
}

// SetAspect updates the aspect ratio used by both projections, typically
// called on presentation-surface resize.
func (c *Camera) SetAspect(aspect float32) {

	c.aspect = aspect
	c.orthoWidth = c.orthoHeight * aspect
}

// ViewMatrix returns the camera's current view matrix, derived from its
// node's world position looking at Target with Up as the up vector.
func (c *Camera) ViewMatrix() math32.Matrix4 {

	wm := c.node.WorldMatrix()
	pos := math32.Vector3{X: wm[12], Y: wm[13], Z: wm[14]}
	var m math32.Matrix4
	m.LookAt(&pos, &c.target, &c.up)
	return m
}

// PerspectiveMatrix returns the camera's perspective projection matrix.
func (c *Camera) PerspectiveMatrix() math32.Matrix4 {

	var m math32.Matrix4
	m.MakePerspective(c.fov, c.aspect, c.near, c.far)
	return m
}

// OrthographicMatrix returns the camera's orthographic projection
// matrix, sized from OrthoWidth/OrthoHeight around the origin.
func (c *Camera) OrthographicMatrix() math32.Matrix4 {

	var m math32.Matrix4
	hw, hh := c.orthoWidth/2, c.orthoHeight/2
	m.MakeOrthographic(-hw, hw, hh, -hh, c.near, c.far)
	return m
}

// ViewProjMatrix returns PerspectiveMatrix() * ViewMatrix().
func (c *Camera) ViewProjMatrix() math32.Matrix4 {

	view := c.ViewMatrix()
	proj := c.PerspectiveMatrix()
	var vp math32.Matrix4
	vp.MultiplyMatrices(&proj, &view)
	return vp
}
