// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene implements the render orchestrator: the single-threaded,
// per-frame driver that walks a scene graph, provisions bounded GPU
// resources for what it finds, and encodes draw commands for it,
// falling back to multiple command-buffer passes when the resource
// pool is exhausted mid-frame.
package scene

import (
	"github.com/vorn3d/engine/camera"
	"github.com/vorn3d/engine/core"
	"github.com/vorn3d/engine/math32"
	"github.com/vorn3d/engine/util/logger"
)

var log = logger.New("SCENE", logger.Default)

// Scene is a root node plus the camera and clear colour the orchestrator
// renders it with. The node graph below it is walked fresh every frame;
// the Scene itself holds no per-frame state.
type Scene struct {
	node  *core.Node
	cam   *camera.Camera
	color math32.Color4
}

// New creates an empty Scene with a fresh root node and no camera.
func New() *Scene {

	return &Scene{
		node:  core.NewNode(),
		color: math32.Color4{R: 0, G: 0, B: 0, A: 1},
	}
}

// Node returns the scene's root node.
func (s *Scene) Node() *core.Node {

	return s.node
}

// Camera returns the scene's active camera, or nil if none is set.
func (s *Scene) Camera() *camera.Camera {

	return s.cam
}

// SetCamera sets the scene's active camera.
func (s *Scene) SetCamera(c *camera.Camera) {

	s.cam = c
}

// Color returns the scene's clear colour.
func (s *Scene) Color() math32.Color4 {

	return s.color
}

// SetColor sets the scene's clear colour.
func (s *Scene) SetColor(c math32.Color4) {

	s.color = c
}
